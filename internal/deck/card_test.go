package deck

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func controlLine(key, value string) string {
	return fmt.Sprintf("%-22s%s", key, value)
}

func TestParse(t *testing.T) {
	text := "! generated card\ntitle EBR-II\n\n" +
		"CONTROL:\n" +
		controlLine("n_mat", "3") + "\n" +
		"! a comment line\n" +
		"\n" +
		controlLine("geom_kind", "2*FUEL REFL") + "\n\n" +
		"GEOMETRY:\n" +
		"zone\nmat1\nend" + GeometrySeparator +
		"zone\nmat2\nend" + GeometrySeparator +
		"zone\nmat3\nend\n\n" +
		"MATERIAL:\nNa 1.0\n"

	d, err := Parse(text)
	require.NoError(t, err)

	assert.Equal(t, "! generated card\ntitle EBR-II\n\n", d.Header)
	assert.Equal(t, []string{"n_mat", "geom_kind"}, d.Control.Keys())
	v, _ := d.Control.Get("geom_kind")
	assert.Equal(t, "2*FUEL REFL", v)

	require.Len(t, d.Geometry, 3)
	assert.Equal(t, "\nzone\nmat1\nend", d.Geometry[0])
	assert.Equal(t, "zone\nmat3\nend\n\n", d.Geometry[2])
	assert.Equal(t, "\nNa 1.0\n", d.Material)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		marker string
	}{
		{"no control", "H GEOMETRY: g MATERIAL: m", MarkerControl},
		{"no geometry", "H CONTROL: c MATERIAL: m", MarkerGeometry},
		{"no material", "H CONTROL: c GEOMETRY: g", MarkerMaterial},
		{"duplicate geometry", "H CONTROL: c GEOMETRY: g GEOMETRY: g MATERIAL: m", MarkerGeometry},
		{"geometry before control", "H GEOMETRY: g CONTROL: c MATERIAL: m", MarkerGeometry},
		{"material before geometry", "H CONTROL: c MATERIAL: m GEOMETRY: g", MarkerMaterial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			var me *MalformedDeckError
			require.True(t, errors.As(err, &me), "want MalformedDeckError, got %v", err)
			assert.Equal(t, tt.marker, me.Marker)
		})
	}
}

func TestParseControl(t *testing.T) {
	text := strings.Join([]string{
		"",
		controlLine("n_mat", "120"),
		"nospace",
		controlLine("solver", "  sn 8 ! inline comment"),
		controlLine("power", "62.5E6"),
		controlLine("n_mat", "121"),
		"   ",
	}, "\n")

	c := ParseControl(text)
	want := map[string]string{"n_mat": "121", "power": "62.5E6"}
	if diff := cmp.Diff(want, c.Map()); diff != "" {
		t.Errorf("control mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"n_mat", "power"}, c.Keys(), "re-set keys keep their position")
}

func TestControl_StringReparse(t *testing.T) {
	c := NewControl()
	c.Set("n_mat", "3")
	c.Set("geom_kind", "2*FUEL REFL")
	c.Set("boundary_condition", "0 0")

	again := ParseControl(c.String())
	assert.Equal(t, c.Map(), again.Map())
	assert.Equal(t, c.Keys(), again.Keys())
}

func TestControl_CloneIsIndependent(t *testing.T) {
	c := NewControl()
	c.Set("a", "1")
	cp := c.Clone()
	cp.Set("a", "2")
	cp.Set("b", "3")

	v, _ := c.Get("a")
	assert.Equal(t, "1", v)
	assert.Equal(t, 1, c.Len())
}
