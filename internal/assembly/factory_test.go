package assembly

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/material"
	"github.com/alexiusacademia/goebr2/internal/section"
)

type fakeSlugs map[composition.Location][]composition.Slug

func (f fakeSlugs) Get(loc composition.Location) ([]composition.Slug, error) {
	s, ok := f[loc]
	if !ok {
		return nil, composition.ErrNotFound
	}
	return s, nil
}

func threeSlugs() []composition.Slug {
	out := make([]composition.Slug, 3)
	for i := range out {
		out[i] = composition.Slug{
			Name:      []string{"S1", "S2", "S3"}[i],
			IDs:       []string{"92235", "92238"},
			Densities: []float64{1e-3, 2e-2},
		}
	}
	return out
}

func newFactory(t *testing.T, slugs SlugSource) *Factory {
	t.Helper()
	lib, err := material.NewLibrary(0)
	require.NoError(t, err)
	f, err := NewFactory(lib, slugs, nil)
	require.NoError(t, err)
	return f
}

func TestDefaultRules_CoverEveryKind(t *testing.T) {
	rules := DefaultRules()
	for _, k := range Kinds {
		if k == Experimental {
			assert.NotContains(t, rules, k)
			continue
		}
		assert.Contains(t, rules, k)
	}
	for _, k := range ExperimentalSites {
		assert.Contains(t, rules, k)
	}
}

func TestNewFactory_RejectsBadRules(t *testing.T) {
	lib, err := material.NewLibrary(0)
	require.NoError(t, err)

	tests := map[string]func(map[Kind]Rule){
		"missing kind": func(r map[Kind]Rule) { delete(r, Dummy) },
		"unknown catalog": func(r map[Kind]Rule) {
			rule := r[Dummy]
			rule.Catalog = "nope"
			r[Dummy] = rule
		},
		"unknown section": func(r map[Kind]Rule) {
			rule := r[Reflector]
			rule.Sections = []string{"lowAdp", "missing"}
			r[Reflector] = rule
		},
		"reference out of range": func(r map[Kind]Rule) {
			rule := r[Reflector]
			rule.RefPlane.Index = 4
			r[Reflector] = rule
		},
		"slugs without builder": func(r map[Kind]Rule) {
			rule := r[Driver]
			rule.Slugs = nil
			r[Driver] = rule
		},
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			rules := DefaultRules()
			mutate(rules)
			_, err := NewFactoryWithRules(lib, nil, rules, nil)
			assert.Error(t, err)
		})
	}
}

func TestBuild_Driver(t *testing.T) {
	f := newFactory(t, fakeSlugs{"04A02": threeSlugs()})

	a, err := f.Build(Driver, "04A02", "")
	require.NoError(t, err)
	assert.Equal(t, "driver-MKII", a.TypeName)
	assert.Equal(t, section.MKII, a.Variant)
	require.Len(t, a.Sections, 13)
	assert.Equal(t, "lower cladding plug", a.Sections[3].Name)
	assert.Equal(t, "04A02 driver slug1", a.Sections[4].Name)
	assert.Equal(t, "04A02 driver slug3", a.Sections[6].Name)
	assert.Equal(t, "upper assembly plug - driver MKII", a.Sections[12].Name)
	assert.Len(t, a.SlugSections(), 3)

	// the slug material carries the composition at the bulk temperature
	slug := a.Sections[4].Rods[0].Material
	assert.Equal(t, 1e-3, slug.Density("92235"))
	assert.Equal(t, material.DefaultBulkTemperature, slug.Components[0].Temperature)

	bounds := a.Bounds()
	assert.InDelta(t, 0, bounds[3][0], 1e-9, "lower cladding plug sits on the reference plane")
	assert.InDelta(t, -(51.9125 + 0.1016 + 61.3537), bounds[0][0], 1e-9)
	for i := 1; i < len(bounds); i++ {
		assert.InDelta(t, bounds[i-1][1], bounds[i][0], 1e-9)
	}
	assert.InDelta(t, a.Height(), bounds[12][1]-bounds[0][0], 1e-9)

	mkiia, err := f.Build(Driver, "04A02", section.MKIIA)
	require.NoError(t, err)
	assert.Equal(t, "driver-MKIIA", mkiia.TypeName)
	assert.Equal(t, 24.56, mkiia.Sections[8].Height)
	assert.Equal(t, 21.48, a.Sections[8].Height)
}

func TestBuild_FuelledKinds(t *testing.T) {
	f := newFactory(t, fakeSlugs{"03B01": threeSlugs()})
	tests := []struct {
		kind     Kind
		typeName string
		sections int
	}{
		{HalfWorth, "HWD-MKII", 13},
		{Control, "control-MKII", 16},
		{Safety, "safety-MKII", 16},
		{HWCR, "HWCR-MKII", 19},
		{Blanket, "blanket", 9},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			a, err := f.Build(tt.kind, "03B01", section.MKII)
			require.NoError(t, err)
			assert.Equal(t, tt.typeName, a.TypeName)
			assert.Len(t, a.Sections, tt.sections)
			assert.Len(t, a.SlugSections(), 3)
		})
	}
}

func TestBuild_ExperimentalByLocation(t *testing.T) {
	f := newFactory(t, fakeSlugs{
		"04C02": threeSlugs(), "05D03": threeSlugs(), "06B03": threeSlugs(), "06D01": threeSlugs(),
	})
	tests := []struct {
		loc      composition.Location
		kind     Kind
		typeName string
	}{
		{"04C02", C2776A, "C2776A-MKII"},
		{"04D02", X320C, "experimental"},
		{"05C01", XX10, "XX10"},
		{"05D03", XX09, "XX09"},
		{"05F03", XY16, "XY-16"},
		{"06B03", X402A, "X402A-MKII"},
		{"06D01", X412, "X412-MKII"},
	}
	for _, tt := range tests {
		t.Run(string(tt.loc), func(t *testing.T) {
			a, err := f.Build(Experimental, tt.loc, section.MKII)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, a.Kind)
			assert.Equal(t, tt.typeName, a.TypeName)
		})
	}

	_, err := f.Build(Experimental, "05A01", section.MKII)
	var unknown *UnknownAssemblyTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "experimental", unknown.Tag)
	assert.Equal(t, composition.Location("05A01"), unknown.Location)
}

func TestBuild_WithoutSlugSource(t *testing.T) {
	f := newFactory(t, nil)
	for _, k := range []Kind{Dummy, Reflector, Blank, X320C, XX10, XY16} {
		a, err := f.Build(k, "10A01", "")
		require.NoError(t, err, k)
		assert.Empty(t, a.SlugSections(), k)
	}

	blank, err := f.Build(Blank, "16A01", "")
	require.NoError(t, err)
	assert.InDelta(t, section.BlankLow, blank.Bounds()[0][0], 1e-9)
	assert.InDelta(t, section.BlankHigh, blank.Bounds()[0][1], 1e-9)

	xy16, err := f.Build(XY16, "05F03", "")
	require.NoError(t, err)
	assert.Equal(t, "dummy element - xy-16", xy16.Sections[7].Name)
	assert.InDelta(t, 0.635-0.3175, xy16.Bounds()[7][0], 1e-9)
}

func TestBuild_LocationNotFound(t *testing.T) {
	store := composition.NewStore(t.TempDir())
	f := newFactory(t, store)

	_, err := f.Build(Control, "05C03", "")
	var notFound *LocationNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, composition.Location("05C03"), notFound.Location)
	assert.Equal(t, Control, notFound.Kind)
	assert.ErrorIs(t, err, composition.ErrNotFound)
	assert.Contains(t, err.Error(), "control")
	assert.Contains(t, err.Error(), "05C03")

	_, err = newFactory(t, nil).Build(Driver, "04A02", "")
	assert.True(t, errors.As(err, &notFound))
}

func TestBuild_MissingDatasetRoot(t *testing.T) {
	store := composition.NewStore(filepath.Join(t.TempDir(), "no-dataset"))
	f := newFactory(t, store)

	_, err := f.Build(Driver, "04A02", "")
	var notFound *LocationNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, Driver, notFound.Kind)
	assert.ErrorIs(t, err, composition.ErrNotFound)
}

func TestBuild_FromStore(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "Blanket")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "08C01.csv"),
		[]byte("ZAIDS,S1,S2,S3\n92238,3.0E-2,3.1E-2,3.2E-2\n"), 0o644))

	f := newFactory(t, composition.NewStore(root))
	a, err := f.Build(Blanket, "08C01", "")
	require.NoError(t, err)
	slugs := a.SlugSections()
	require.Len(t, slugs, 3)
	assert.Equal(t, 3.2e-2, slugs[2].Rods[0].Material.Density("92238"))
}

func TestBuild_InvalidInput(t *testing.T) {
	f := newFactory(t, nil)

	_, err := f.Build(Dummy, "05A01", "MKIII")
	assert.Error(t, err)

	_, err = f.BuildTag("fuel", "05A01", "")
	var unknown *UnknownAssemblyTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "fuel", unknown.Tag)

	a, err := f.BuildTag("reflector", "14A01", "")
	require.NoError(t, err)
	assert.Equal(t, "reflector", a.TypeName)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("Driver")
	assert.Error(t, err)
}
