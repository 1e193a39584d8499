package deck

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildCard renders a card with one geometry record per label. Record i
// (1-based) references mat<i>.
func buildCard(kinds string, labels []string) string {
	records := make([]string, len(labels))
	for i, l := range labels {
		records[i] = fmt.Sprintf("zone %s\nmat%d\nend", l, i+1)
	}
	return "H\n\nCONTROL:\n" +
		controlLine("n_mat", fmt.Sprint(len(labels))) + "\n" +
		controlLine("geom_kind", kinds) + "\n\n" +
		"GEOMETRY:\n" + strings.Join(records, GeometrySeparator) + "\n\n" +
		"MATERIAL:\nM"
}

func mustParse(t *testing.T, text string) *Deck {
	t.Helper()
	d, err := Parse(text)
	require.NoError(t, err)
	return d
}

func TestNewPlan_FiveFuelRecords(t *testing.T) {
	labels := []string{"FUEL", "FUEL", "FUEL", "FUEL", "FUEL"}
	d := mustParse(t, buildCard("5*FUEL", labels))

	p, err := NewPlan(d, 2)
	require.NoError(t, err)
	require.Len(t, p.Batches, 3)

	want := []struct {
		start, end int
		kinds      string
	}{
		{1, 2, "2*FUEL"},
		{3, 4, "2*FUEL"},
		{5, 5, "FUEL"},
	}
	for i, w := range want {
		b := p.Batches[i]
		assert.Equal(t, w.start, b.StartID, "batch %d start", i)
		assert.Equal(t, w.end, b.EndID, "batch %d end", i)
		assert.Equal(t, w.kinds, b.Kinds, "batch %d kinds", i)

		for j, rec := range b.Geometry {
			assert.Contains(t, rec, fmt.Sprintf("mat%d\n", j+1))
		}
		n, _ := b.Control.Get(KeyMaterialCount)
		assert.Equal(t, fmt.Sprint(b.Len()), n)
		k, _ := b.Control.Get(KeyGeometryKind)
		assert.Equal(t, w.kinds, k)
	}
	assert.Equal(t, "mat5-5", p.Batches[2].Name())
}

func TestNewPlan_Conservation(t *testing.T) {
	kinds := []string{"FUEL", "REFL", "CTRL"}
	for _, total := range []int{1, 2, 7, 50, 101} {
		for _, size := range []int{1, 3, 50, 200} {
			t.Run(fmt.Sprintf("R%d_B%d", total, size), func(t *testing.T) {
				labels := make([]string, total)
				for i := range labels {
					labels[i] = kinds[(i/4)%len(kinds)]
				}
				d := mustParse(t, buildCard(EncodeRuns(labels), labels))

				p, err := NewPlan(d, size)
				require.NoError(t, err)
				require.Len(t, p.Batches, (total+size-1)/size)

				next := 1
				var gotLabels []string
				for _, b := range p.Batches {
					assert.Equal(t, next, b.StartID)
					assert.Equal(t, b.EndID-b.StartID+1, b.Len())
					for j, rec := range b.Geometry {
						assert.Contains(t, rec, fmt.Sprintf("zone %s\n", labels[b.StartID-1+j]))
					}
					rl, err := ParseRunList(b.Kinds)
					require.NoError(t, err)
					assert.Equal(t, b.Len(), rl.Total())
					gotLabels = append(gotLabels, rl.Labels()...)
					next = b.EndID + 1
				}
				assert.Equal(t, total+1, next, "batches cover every record exactly once")
				assert.Equal(t, labels, gotLabels)
			})
		}
	}
}

func TestNewPlan_MatchesSequentialPop(t *testing.T) {
	raw := "3*A 0*B 5*C 1*A 2*D"
	rl, err := ParseRunList(raw)
	require.NoError(t, err)
	d := mustParse(t, buildCard(raw, rl.Labels()))

	p, err := NewPlan(d, 4)
	require.NoError(t, err)

	seq, _ := ParseRunList(raw)
	for _, b := range p.Batches {
		assert.Equal(t, seq.Pop(p.Size), b.Kinds, "batch %s", b.Name())
	}
	assert.Zero(t, seq.Total())
}

func TestNewPlan_Errors(t *testing.T) {
	labels := []string{"A", "A", "A"}

	d := mustParse(t, buildCard("2*A", labels))
	_, err := NewPlan(d, 2)
	assert.ErrorIs(t, err, ErrCountMismatch)

	d = mustParse(t, buildCard("3*A", labels))
	_, err = NewPlan(d, 0)
	assert.Error(t, err)

	d = mustParse(t, buildCard("3*A*x", labels))
	_, err = NewPlan(d, 2)
	var fe *FormatError
	assert.ErrorAs(t, err, &fe)

	d = mustParse(t, "H CONTROL:\n"+controlLine("n_mat", "1")+"\nGEOMETRY:\nmat1\nMATERIAL:\nM")
	_, err = NewPlan(d, 1)
	assert.ErrorIs(t, err, ErrNoGeometryKind)
}

func TestRenumber(t *testing.T) {
	records := []string{
		"zone\nmat50\nend",
		"zone\nmat51 mat51\nmat_table keep\nend",
		"zone\nformat52\nmat52\nend",
	}
	got := Renumber(records)

	assert.Equal(t, "zone\nmat1\nend", got[0])
	assert.Equal(t, "zone\nmat2 mat2\nmat_table keep\nend", got[1])
	assert.Equal(t, "zone\nformat52\nmat3\nend", got[2])
	assert.Equal(t, "zone\nmat50\nend", records[0], "input is not modified")
}

func TestBatch_RenderReparses(t *testing.T) {
	labels := []string{"FUEL", "FUEL", "REFL", "REFL", "REFL"}
	d := mustParse(t, buildCard("2*FUEL 3*REFL", labels))
	p, err := NewPlan(d, 3)
	require.NoError(t, err)

	b := p.Batches[1]
	again, err := Parse(b.Render())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(again.Header, "! MAT4-5 created by goebr2 divide\n"))
	assert.Equal(t, b.Control.Map(), again.Control.Map())
	require.Len(t, again.Geometry, b.Len())
	for i := range b.Geometry {
		assert.Equal(t, strings.TrimSpace(b.Geometry[i]), strings.TrimSpace(again.Geometry[i]))
	}
	assert.Equal(t, d.Material, again.Material)
	k, _ := again.Control.Get(KeyGeometryKind)
	assert.Equal(t, "2*REFL", k)
}

func TestBatch_Info(t *testing.T) {
	b := &Batch{StartID: 51, EndID: 100}
	assert.Equal(t, "startId   51\nendId     100", b.Info())
}
