package deck

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoGeometryKind is returned when the control block has no geom_kind key
var ErrNoGeometryKind = errors.New("control block has no " + KeyGeometryKind + " entry")

var materialRef = regexp.MustCompile(`\bmat[0-9]+\b`)

// Batch is one self-contained deck covering geometry records
// StartID..EndID (1-based, inclusive) of the original deck
type Batch struct {
	Index    int
	StartID  int
	EndID    int
	Kinds    string
	Header   string
	Control  *Control
	Geometry []string
	Material string
}

// Name is the directory name of the batch, e.g. "mat51-100"
func (b *Batch) Name() string {
	return fmt.Sprintf("mat%d-%d", b.StartID, b.EndID)
}

// Len returns the number of geometry records in the batch
func (b *Batch) Len() int {
	return len(b.Geometry)
}

// Render concatenates header, control, geometry and material into card text.
// Records are emitted verbatim apart from the newlines at the block edges.
func (b *Batch) Render() string {
	var sb strings.Builder
	sb.WriteString(b.Header)
	sb.WriteString("\n\n" + MarkerControl + "\n")
	sb.WriteString(b.Control.String())
	sb.WriteString("\n\n" + MarkerGeometry + "\n")
	// outer newlines are trimmed so a trailing record cannot merge with the
	// material marker into an extra separator
	sb.WriteString(strings.Trim(strings.Join(b.Geometry, GeometrySeparator), "\n"))
	sb.WriteString("\n\n" + MarkerMaterial)
	if !strings.HasPrefix(b.Material, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(b.Material)
	return sb.String()
}

// Info renders the companion metadata file
func (b *Batch) Info() string {
	return fmt.Sprintf("%-10s%d\n%-10s%d", "startId", b.StartID, "endId", b.EndID)
}

// Plan holds every batch of a divided deck. The geom_kind labels of each
// batch are sliced from the flattened run-list by cumulative offsets, so
// batches do not depend on each other and may be written in any order.
type Plan struct {
	Size    int
	Total   int
	Batches []*Batch
}

// NewPlan partitions the deck's geometry records into batches of size
// records. The last batch holds the remainder.
func NewPlan(d *Deck, size int) (*Plan, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", size)
	}
	total := len(d.Geometry)
	if total == 0 {
		return nil, errors.New("deck has no geometry records")
	}

	raw, ok := d.Control.Get(KeyGeometryKind)
	if !ok {
		return nil, ErrNoGeometryKind
	}
	kinds, err := ParseRunList(raw)
	if err != nil {
		return nil, err
	}
	if kinds.Total() != total {
		return nil, fmt.Errorf("%w: %d labels for %d records", ErrCountMismatch, kinds.Total(), total)
	}
	labels := kinds.Labels()

	count := (total + size - 1) / size
	p := &Plan{Size: size, Total: total, Batches: make([]*Batch, 0, count)}
	for i := 0; i < count; i++ {
		start := i*size + 1
		end := min((i+1)*size, total)
		b := &Batch{
			Index:    i,
			StartID:  start,
			EndID:    end,
			Kinds:    EncodeRuns(labels[start-1 : end]),
			Geometry: Renumber(d.Geometry[start-1 : end]),
			Material: d.Material,
		}
		b.Header = fmt.Sprintf("! MAT%d-%d created by goebr2 divide\n", start, end) + d.Header
		b.Control = d.Control.Clone()
		b.Control.Set(KeyMaterialCount, strconv.Itoa(b.Len()))
		b.Control.Set(KeyGeometryKind, b.Kinds)
		p.Batches = append(p.Batches, b)
	}
	return p, nil
}

// Renumber returns a copy of records where every mat<N> reference inside
// record i is rewritten to mat<i+1>
func Renumber(records []string) []string {
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = materialRef.ReplaceAllString(rec, "mat"+strconv.Itoa(i+1))
	}
	return out
}
