package section

import (
	"math"
	"sort"
)

// HexArea returns the area of a hexagon with the given flat-to-flat size
func HexArea(flat float64) float64 {
	return math.Sqrt(3) / 2 * flat * flat
}

// CircleArea returns the area of a circle with the given diameter
func CircleArea(d float64) float64 {
	return math.Pi / 4 * d * d
}

// Properties holds the cross-section make-up of a section
type Properties struct {
	Area      float64            // area inside the outermost region (cm²)
	PinArea   float64            // total area of all pins (cm²)
	Volume    float64            // Area * Height (cm³)
	Fractions map[string]float64 // material name -> area fraction
}

// CalculateProperties computes the area share of every material. Pins
// displace the material of the innermost region.
func (s *Section) CalculateProperties() *Properties {
	props := &Properties{Fractions: make(map[string]float64)}
	if len(s.Regions) == 0 {
		return props
	}

	props.Area = HexArea(s.OuterSize())
	props.Volume = props.Area * s.Height

	areas := make(map[string]float64)
	pins := float64(s.PinCount())
	prev := 0.0
	for _, rod := range s.Rods {
		a := pins * (CircleArea(rod.Size) - CircleArea(prev))
		areas[rod.Material.Name] += a
		props.PinArea += a
		prev = rod.Size
	}

	prev = 0
	for i, region := range s.Regions {
		a := HexArea(region.Size) - HexArea(prev)
		if i == 0 {
			a -= props.PinArea
		}
		areas[region.Material.Name] += a
		prev = region.Size
	}

	for name, a := range areas {
		props.Fractions[name] = a / props.Area
	}
	return props
}

// Dominant returns the material with the largest area share
func (p *Properties) Dominant() string {
	names := make([]string, 0, len(p.Fractions))
	for name := range p.Fractions {
		names = append(names, name)
	}
	// ties resolve alphabetically
	sort.Strings(names)

	best, bestFrac := "", -1.0
	for _, name := range names {
		if f := p.Fractions[name]; f > bestFrac {
			best, bestFrac = name, f
		}
	}
	return best
}
