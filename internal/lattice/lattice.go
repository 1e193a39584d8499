package lattice

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/composition"
)

// Factory builds one assembly
type Factory interface {
	Build(k assembly.Kind, loc composition.Location, mk string) (*assembly.Assembly, error)
}

// Lattice holds the assemblies of the core ring by ring. Ring r has 6r
// positions, the centre ring one.
type Lattice struct {
	Pitch float64
	Rings [][]*assembly.Assembly
}

// At returns the assembly at loc
func (l *Lattice) At(loc composition.Location) *assembly.Assembly {
	if _, err := composition.ParseLocation(string(loc)); err != nil {
		return nil
	}
	r, k := loc.RingIndex()
	if r < 0 || r >= len(l.Rings) || k < 0 || k >= len(l.Rings[r]) {
		return nil
	}
	return l.Rings[r][k]
}

// Assemblies returns every assembly from the centre outwards
func (l *Lattice) Assemblies() []*assembly.Assembly {
	var out []*assembly.Assembly
	for _, ring := range l.Rings {
		out = append(out, ring...)
	}
	return out
}

// TypeCount is the number of assemblies of one type name
type TypeCount struct {
	TypeName string
	Count    int
}

// Count tallies the assemblies by type name, most common first
func (l *Lattice) Count() []TypeCount {
	counts := make(map[string]int)
	for _, a := range l.Assemblies() {
		counts[a.TypeName]++
	}
	out := make([]TypeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TypeCount{TypeName: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TypeName < out[j].TypeName
	})
	return out
}

// Builder fills a lattice from a loading table
type Builder struct {
	layout  *Layout
	factory Factory
	rings   int
	pitch   float64
	log     *zap.Logger
}

// NewBuilder returns a builder over the full 16-ring core
func NewBuilder(layout *Layout, factory Factory, pitch float64, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{layout: layout, factory: factory, rings: composition.Rings, pitch: pitch, log: log}
}

// WithRings limits the build to the n innermost rings
func (b *Builder) WithRings(n int) *Builder {
	if n >= 1 && n <= composition.Rings {
		b.rings = n
	}
	return b
}

// Build walks the rings from the centre outwards. Positions missing from
// the layout hold blank assemblies. The first error stops the walk.
func (b *Builder) Build(ctx context.Context) (*Lattice, error) {
	lat := &Lattice{Pitch: b.pitch, Rings: make([][]*assembly.Assembly, b.rings)}
	for r := 0; r < b.rings; r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ring := make([]*assembly.Assembly, composition.Positions(r))
		for k := range ring {
			loc, err := composition.FromRingIndex(r, k)
			if err != nil {
				return nil, err
			}
			kind, mk := assembly.Blank, ""
			if e, ok := b.layout.Lookup(loc); ok {
				kind, mk, err = e.Resolve()
				if err != nil {
					return nil, err
				}
			}
			a, err := b.factory.Build(kind, loc, mk)
			if err != nil {
				return nil, err
			}
			ring[k] = a
			b.log.Debug("assembly created",
				zap.Int("ring", r+1),
				zap.Int("index", k+1),
				zap.String("location", string(loc)),
				zap.String("type", a.TypeName))
		}
		lat.Rings[r] = ring
		b.log.Info("ring created", zap.Int("ring", r+1), zap.Int("assemblies", len(ring)))
	}
	return lat, nil
}
