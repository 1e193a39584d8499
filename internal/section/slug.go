package section

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/goebr2/internal/material"
)

// SlugBuilder turns the per-slug compositions of one location into the
// fuel sections of its assembly, lowest slug first
type SlugBuilder func(lib *material.Library, location, tag string, slugs []*material.Material) ([]*Section, error)

// HalfWorthRings is the number of pin rings homogenised in a half-worth driver
const HalfWorthRings = 6

// HalfWorthSteelRods is the number of stainless dummy rods in each ring of
// a half-worth driver, innermost ring first
var HalfWorthSteelRods = [HalfWorthRings]int{1, 2, 6, 10, 12, 14}

func slugName(location, tag string, i int) string {
	return fmt.Sprintf("%s %s slug%d", location, tag, i+1)
}

func eachSlug(location, tag string, slugs []*material.Material, build func(name string, slug *material.Material) (*Section, error)) ([]*Section, error) {
	if len(slugs) == 0 {
		return nil, fmt.Errorf("%s %s: no slug compositions", location, tag)
	}
	out := make([]*Section, 0, len(slugs))
	for i, slug := range slugs {
		if slug == nil {
			return nil, fmt.Errorf("%s %s: slug %d has no composition", location, tag, i+1)
		}
		s, err := build(slugName(location, tag, i), slug)
		if err != nil {
			return nil, err
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DriverSlugs builds fuel sections of a full driver lattice
func DriverSlugs(lib *material.Library, location, tag string, slugs []*material.Material) ([]*Section, error) {
	return eachSlug(location, tag, slugs, func(name string, slug *material.Material) (*Section, error) {
		return &Section{
			Name: name, Ring: 6, Pitch: FuelPitch, EqMethod: Eq1D,
			Rods:    append([]Layer{{FuelSlug, slug.Copy(name)}}, fuelPin(lib, lib.Sodium)...),
			Regions: ductShell(lib),
			Height:  SlugHeight,
		}, nil
	})
}

// ControlSlugs builds fuel sections of the smaller lattice inside an
// inner duct (control, safety, HWCR and XX09)
func ControlSlugs(lib *material.Library, location, tag string, slugs []*material.Material) ([]*Section, error) {
	return eachSlug(location, tag, slugs, func(name string, slug *material.Material) (*Section, error) {
		return &Section{
			Name: name, Ring: 5, Pitch: FuelPitch, EqMethod: Eq1D,
			Rods:    append([]Layer{{FuelSlug, slug.Copy(name)}}, fuelPin(lib, lib.Sodium)...),
			Regions: innerDuctShell(lib),
			Height:  SlugHeight,
		}, nil
	})
}

// BlanketSlugs builds the depleted uranium sections of a blanket
func BlanketSlugs(lib *material.Library, location, tag string, slugs []*material.Material) ([]*Section, error) {
	return eachSlug(location, tag, slugs, func(name string, slug *material.Material) (*Section, error) {
		return &Section{
			Name: name, Ring: 3, Pitch: 1.2522, EqMethod: Eq1D,
			Rods:    []Layer{{1.0998, slug.Copy(name)}, {1.0998 + 2*0.03048, lib.Sodium}, {1.2522, lib.SS304}},
			Regions: ductShell(lib),
			Height:  BlanketHeight,
		}, nil
	})
}

// HalfWorthSlugs builds half-worth driver sections. Each pin ring mixes
// fuel, cladding, dummy steel rods, wire and sodium into one hexagonal
// region whose area matches the pin cells it replaces.
func HalfWorthSlugs(lib *material.Library, location, tag string, slugs []*material.Material) ([]*Section, error) {
	return eachSlug(location, tag, slugs, func(name string, slug *material.Material) (*Section, error) {
		s := &Section{Name: name, Ring: HalfWorthRings, Pitch: FuelPitch, EqMethod: Eq1D, Height: SlugHeight}
		cumulative := 0.0
		for r := 0; r < HalfWorthRings; r++ {
			areas, total := halfWorthAreas(r)
			mix, err := material.MixAreas(
				fmt.Sprintf("%s ring%d", name, r+1),
				areas[:],
				[]*material.Material{slug, lib.SS304, lib.WireWrap, lib.Sodium},
			)
			if err != nil {
				return nil, err
			}
			cumulative += total
			s.AppendRegion(math.Sqrt(cumulative*2/math.Sqrt(3)), mix)
		}
		for _, l := range ductShell(lib) {
			s.AppendRegion(l.Size, l.Material)
		}
		return s, nil
	})
}

func ringRods(r int) int {
	if r == 0 {
		return 1
	}
	return 6 * r
}

// halfWorthAreas returns the fuel, steel, wire and sodium areas of pin
// ring r and the total cell area of the ring
func halfWorthAreas(r int) (areas [4]float64, total float64) {
	cellPitch := DuctInner / float64(3*HalfWorthRings-1) * math.Sqrt(3)
	cellArea := HexArea(cellPitch)

	fuel := CircleArea(FuelSlug)
	clad := CircleArea(FuelClad) - CircleArea(FuelBond)
	wire := CircleArea(FuelWire) - CircleArea(FuelClad)
	steelRod := CircleArea(FuelClad)

	rods := ringRods(r)
	steel := HalfWorthSteelRods[r]
	fuelRods := rods - steel

	total = float64(rods) * cellArea
	areas[0] = float64(fuelRods) * fuel
	areas[1] = float64(fuelRods)*clad + float64(steel)*steelRod
	areas[2] = float64(rods) * wire
	areas[3] = total - areas[0] - areas[1] - areas[2]
	return areas, total
}
