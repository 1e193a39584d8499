package material

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// fractionTolerance bounds how far mixing fractions may stray from 1
const fractionTolerance = 1e-6

// Component is one element or nuclide of a material
type Component struct {
	ID          string  `json:"id"`          // element symbol (Na) or ZAID (92235)
	Density     float64 `json:"density"`     // atoms/(barn*cm)
	Temperature float64 `json:"temperature"` // K
}

// Material is a named list of components. Component order is kept so the
// physics deck lists them the way they were entered.
type Material struct {
	Name       string      `json:"name"`
	Components []Component `json:"components"`
}

// New returns an empty material
func New(name string) *Material {
	return &Material{Name: name}
}

// Add appends a component, or accumulates density when id is already present
func (m *Material) Add(id string, density, temperature float64) *Material {
	for i := range m.Components {
		if m.Components[i].ID == id {
			m.Components[i].Density += density
			return m
		}
	}
	m.Components = append(m.Components, Component{ID: id, Density: density, Temperature: temperature})
	return m
}

// Density returns the density of id, zero when absent
func (m *Material) Density(id string) float64 {
	for _, c := range m.Components {
		if c.ID == id {
			return c.Density
		}
	}
	return 0
}

// TotalDensity sums the component densities
func (m *Material) TotalDensity() float64 {
	d := make([]float64, len(m.Components))
	for i, c := range m.Components {
		d[i] = c.Density
	}
	return floats.Sum(d)
}

// Copy returns an independent copy under a new name. An empty name keeps
// the current one.
func (m *Material) Copy(name string) *Material {
	if name == "" {
		name = m.Name
	}
	return &Material{Name: name, Components: append([]Component(nil), m.Components...)}
}

// Scale returns a copy with every density multiplied by f
func (m *Material) Scale(f float64) *Material {
	out := m.Copy("")
	for i := range out.Components {
		out.Components[i].Density *= f
	}
	return out
}

// Mix combines materials weighted by area fractions. Fractions must be
// non-negative and sum to 1.
func Mix(name string, fractions []float64, materials []*Material) (*Material, error) {
	if len(fractions) != len(materials) {
		return nil, fmt.Errorf("mix %q: %d fractions for %d materials", name, len(fractions), len(materials))
	}
	if len(materials) == 0 {
		return nil, fmt.Errorf("mix %q: no materials", name)
	}
	if floats.Min(fractions) < 0 {
		return nil, fmt.Errorf("mix %q: negative fraction", name)
	}
	if sum := floats.Sum(fractions); math.Abs(sum-1) > fractionTolerance {
		return nil, fmt.Errorf("mix %q: fractions sum to %g", name, sum)
	}

	for _, m := range materials {
		if m == nil {
			return nil, errors.New("mix " + name + ": nil material")
		}
	}

	out := New(name)
	seen := make(map[string]bool)
	column := make([]float64, len(materials))
	for _, m := range materials {
		for _, c := range m.Components {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			for j, other := range materials {
				column[j] = other.Density(c.ID)
			}
			out.Add(c.ID, floats.Dot(fractions, column), c.Temperature)
		}
	}
	return out, nil
}

// MixAreas is Mix with fractions given as raw areas, normalised by their sum
func MixAreas(name string, areas []float64, materials []*Material) (*Material, error) {
	total := floats.Sum(areas)
	if total <= 0 {
		return nil, fmt.Errorf("mix %q: total area must be positive", name)
	}
	fractions := make([]float64, len(areas))
	floats.ScaleTo(fractions, 1/total, areas)
	return Mix(name, fractions, materials)
}

// FromTable builds a material from parallel id/density columns, as read
// from a composition file
func FromTable(name string, ids []string, densities []float64, temperature float64) (*Material, error) {
	if len(ids) != len(densities) {
		return nil, fmt.Errorf("material %q: %d ids for %d densities", name, len(ids), len(densities))
	}
	m := New(name)
	for i, id := range ids {
		if densities[i] < 0 {
			return nil, fmt.Errorf("material %q: negative density for %s", name, id)
		}
		m.Add(id, densities[i], temperature)
	}
	return m, nil
}
