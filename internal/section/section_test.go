package section

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/alexiusacademia/goebr2/internal/material"
)

func testLibrary(t *testing.T) *material.Library {
	t.Helper()
	lib, err := material.NewLibrary(0)
	require.NoError(t, err)
	return lib
}

func TestSection_Validate(t *testing.T) {
	lib := testLibrary(t)
	valid := func() *Section {
		return &Section{
			Name: "pin", Ring: 2, Pitch: 1,
			Rods:    []Layer{{0.5, lib.SS304}},
			Regions: []Layer{{3, lib.Sodium}, {4, lib.SS304}},
			Height:  1,
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(s *Section)
	}{
		{"no name", func(s *Section) { s.Name = "" }},
		{"negative height", func(s *Section) { s.Height = -1 }},
		{"no regions", func(s *Section) { s.Regions = nil }},
		{"rods without ring", func(s *Section) { s.Ring = 0 }},
		{"rods without pitch", func(s *Section) { s.Pitch = 0 }},
		{"regions not increasing", func(s *Section) { s.Regions[1].Size = 3 }},
		{"rods not increasing", func(s *Section) { s.AppendRod(0.4, lib.Sodium) }},
		{"missing material", func(s *Section) { s.Regions[0].Material = nil }},
		{"pins overflow", func(s *Section) { s.Rods[0].Size = 1.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			var ve *ValidationError
			assert.True(t, errors.As(s.Validate(), &ve))
		})
	}
}

func TestSection_CopyIsIndependent(t *testing.T) {
	lib := testLibrary(t)
	s := &Section{Name: "a", Regions: []Layer{{1, lib.Sodium}}, Height: 2}
	cp := s.WithHeight("b", 5)
	cp.AppendRegion(2, lib.SS304)

	assert.Equal(t, "a", s.Name)
	assert.Equal(t, 2.0, s.Height)
	assert.Len(t, s.Regions, 1)
	assert.Equal(t, 5.0, cp.Height)
}

func TestSection_CalculateProperties(t *testing.T) {
	lib := testLibrary(t)
	s := &Section{
		Name: "cell", Ring: 1, Pitch: 1,
		Rods:    []Layer{{1, lib.SS304}},
		Regions: []Layer{{2, lib.Sodium}, {3, lib.SS304}},
		Height:  10,
	}
	props := s.CalculateProperties()

	assert.InDelta(t, HexArea(3), props.Area, 1e-12)
	assert.InDelta(t, HexArea(3)*10, props.Volume, 1e-9)
	assert.InDelta(t, CircleArea(1), props.PinArea, 1e-12)

	wantNa := (HexArea(2) - CircleArea(1)) / HexArea(3)
	assert.InDelta(t, wantNa, props.Fractions["sodium"], 1e-12)
	assert.InDelta(t, 1-wantNa, props.Fractions["SS304"], 1e-12)
	assert.Equal(t, "SS304", props.Dominant())
}

func TestNewCatalogs(t *testing.T) {
	lib := testLibrary(t)
	cats, err := NewCatalogs(lib)
	require.NoError(t, err)

	for _, name := range []string{
		CatalogDriver, CatalogControl, CatalogHWCR, CatalogSafety, CatalogBlanket,
		CatalogDummy, CatalogReflector, CatalogXX10, CatalogXX09, CatalogXY16,
	} {
		require.Contains(t, cats, name)
		assert.NotEmpty(t, cats[name].Keys(), name)
	}

	driver := cats[CatalogDriver]
	for _, mk := range Variants {
		for _, key := range []string{"sodiumAboveSlug", "gasPlenum", "upCladPlug", "sodiumAboveRod", "upEx", "upAssemblyPlug"} {
			_, ok := driver.Get(VariantKey(key, mk))
			assert.True(t, ok, "%s %s", key, mk)
		}
	}

	mkii, _ := driver.Get(VariantKey("gasPlenum", MKII))
	mkiia, _ := driver.Get(VariantKey("gasPlenum", MKIIA))
	assert.Equal(t, 21.48, mkii.Height)
	assert.Equal(t, 24.56, mkiia.Height)

	gap, _ := cats[CatalogBlanket].Get("sodiumGap")
	assert.InDelta(t, 158.234-2*0.04572-3*46.567-3.048-12.76, gap.Height, 1e-9)

	element, _ := cats[CatalogXY16].Get("element")
	assert.InDelta(t, 3*SlugHeight, element.Height, 1e-12)
	dummy, _ := cats[CatalogDummy].Get("dummyElement")
	assert.Equal(t, 145.2829, dummy.Height, "xy-16 element is a copy")

	poison, _ := cats[CatalogHWCR].Get("poisonSlug")
	assert.Equal(t, EqSupercell, poison.EqMethod)
	require.NotNil(t, poison.Surrounding)
}

func TestBlank(t *testing.T) {
	b := Blank(testLibrary(t))
	require.NoError(t, b.Validate())
	assert.InDelta(t, BlankHigh-BlankLow, b.Height, 1e-12)
}

func testSlugs() []*material.Material {
	out := make([]*material.Material, 3)
	for i := range out {
		out[i] = material.New("slug").Add("92235", 1e-3, 616).Add("92238", 2e-2, 616)
	}
	return out
}

func TestSlugBuilders(t *testing.T) {
	lib := testLibrary(t)
	builders := map[string]SlugBuilder{
		"driver":  DriverSlugs,
		"control": ControlSlugs,
		"blanket": BlanketSlugs,
		"HWD":     HalfWorthSlugs,
	}
	for tag, build := range builders {
		t.Run(tag, func(t *testing.T) {
			secs, err := build(lib, "04A02", tag, testSlugs())
			require.NoError(t, err)
			require.Len(t, secs, 3)
			assert.Equal(t, "04A02 "+tag+" slug1", secs[0].Name)
			assert.Equal(t, "04A02 "+tag+" slug3", secs[2].Name)
			assert.Equal(t, LatticeCell, secs[0].OuterSize())

			_, err = build(lib, "04A02", tag, nil)
			assert.Error(t, err)
			_, err = build(lib, "04A02", tag, []*material.Material{nil})
			assert.Error(t, err)
		})
	}
}

func TestHalfWorthAreas(t *testing.T) {
	for r := 0; r < HalfWorthRings; r++ {
		areas, total := halfWorthAreas(r)
		assert.InDelta(t, total, floats.Sum(areas[:]), 1e-12, "ring %d", r)
		assert.Positive(t, areas[3], "ring %d keeps some sodium", r)
	}

	// the centre position is a steel rod
	areas, _ := halfWorthAreas(0)
	assert.Zero(t, areas[0])
}

func TestHalfWorthSlugs_Regions(t *testing.T) {
	lib := testLibrary(t)
	secs, err := HalfWorthSlugs(lib, "03B01", "HWD", testSlugs()[:1])
	require.NoError(t, err)

	s := secs[0]
	require.Len(t, s.Regions, HalfWorthRings+3)
	assert.Empty(t, s.Rods)

	// homogenised rings fill the duct up to the cell area of 91 pins
	_, last := halfWorthAreas(0)
	inner := s.Regions[HalfWorthRings-1].Size
	assert.InDelta(t, 91*last, HexArea(inner), 1e-9)
	assert.Less(t, inner, DuctInner)
	assert.False(t, math.IsNaN(s.Regions[0].Material.TotalDensity()))
}
