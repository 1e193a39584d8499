package material

import (
	"fmt"
	"math"
)

// DefaultBulkTemperature is the core bulk temperature (K)
const DefaultBulkTemperature = 616.0

// Wire wrap smear dimensions (cm)
const (
	WrappedRodDiameter = 0.442
	WireDiameter       = 0.1245
)

// Element densities in atoms/(barn*cm) for the structural materials.
// Values come from the EBR-II benchmark description and do not change
// between assemblies.
type entry struct {
	id      string
	density float64
}

var (
	sodium = []entry{{"Na", 2.478e-2}}

	ss316 = []entry{
		{"C", 3.209e-4}, {"Si", 1.715e-3}, {"Cr", 1.714e-2}, {"Mn", 3.725e-4},
		{"Fe", 5.643e-2}, {"Ni", 9.850e-3}, {"Mo", 1.256e-3},
	}

	plenumGas = []entry{{"He", 6.540e-5}, {"Ar", 2.189e-6}}

	ss304 = []entry{
		{"C", 2.759e-4}, {"Si", 8.428e-4}, {"P", 1.681e-5}, {"S", 8.858e-6},
		{"Cr", 1.698e-2}, {"Mn", 6.549e-4}, {"Fe", 6.024e-2}, {"Ni", 7.219e-3},
	}

	upperExtension = []entry{
		{"C", 2.278e-4}, {"Na", 1.829e-2}, {"Si", 6.959e-4}, {"P", 1.388e-5}, {"S", 7.314e-6},
		{"Cr", 1.402e-2}, {"Mn", 5.408e-4}, {"Fe", 4.973e-2}, {"Ni", 5.961e-3},
	}

	lowerExtension = []entry{
		{"C", 2.190e-4}, {"Na", 2.145e-2}, {"Si", 6.690e-4}, {"P", 1.335e-5}, {"S", 7.032e-6},
		{"Cr", 1.348e-2}, {"Mn", 5.199e-4}, {"Fe", 4.781e-2}, {"Ni", 5.731e-3},
	}

	lowerAdapter = []entry{
		{"C", 2.483e-4}, {"Na", 1.071e-2}, {"Si", 7.584e-4}, {"P", 1.513e-5}, {"S", 7.971e-6},
		{"Cr", 1.528e-2}, {"Mn", 5.894e-4}, {"Fe", 5.421e-2}, {"Ni", 6.497e-3},
	}

	// HWCR poison
	poisonSlug = []entry{{"B10", 2.169e-2}, {"B11", 8.730e-2}, {"C", 2.725e-2}}

	poisonShieldBlock = []entry{
		{"C", 2.662e-4}, {"Na", 3.807e-3}, {"Si", 8.133e-4}, {"P", 1.622e-5}, {"S", 8.548e-6},
		{"Cr", 1.639e-2}, {"Mn", 6.320e-4}, {"Fe", 5.812e-2}, {"Ni", 6.996e-3},
	}

	safetyUpperExtension = []entry{
		{"C", 2.662e-4}, {"Na", 3.807e-3}, {"Si", 8.133e-4}, {"P", 1.622e-5}, {"S", 8.548e-6},
		{"Cr", 1.639e-2}, {"Mn", 6.320e-4}, {"Fe", 5.812e-2}, {"Ni", 6.966e-3},
	}

	safetyLowerAdapter = []entry{
		{"C", 2.508e-4}, {"Na", 9.748e-3}, {"Si", 7.662e-4}, {"P", 1.529e-5}, {"S", 8.053e-6},
		{"Cr", 1.544e-2}, {"Mn", 5.954e-4}, {"Fe", 5.476e-2}, {"Ni", 6.563e-3},
	}

	reflectorBlock = []entry{
		{"C", 2.667e-4}, {"Na", 3.664e-3}, {"Si", 8.146e-4}, {"P", 1.625e-5}, {"S", 8.561e-6},
		{"Cr", 1.641e-2}, {"Mn", 3.403e-3}, {"Fe", 5.544e-2}, {"Ni", 6.978e-3},
	}
)

// Library holds the structural materials shared by every assembly
type Library struct {
	BulkTemperature float64

	Sodium               *Material
	SS316                *Material
	SS304                *Material
	PlenumGas            *Material
	UpperExtension       *Material
	LowerExtension       *Material
	LowerAdapter         *Material
	WireWrap             *Material // smeared with the sodium around it
	PoisonSlug           *Material
	PoisonShieldBlock    *Material
	SafetyUpperExtension *Material
	SafetyLowerAdapter   *Material
	ReflectorBlock       *Material
}

func build(name string, entries []entry, temperature float64) *Material {
	m := New(name)
	for _, e := range entries {
		m.Add(e.id, e.density, temperature)
	}
	return m
}

// NewLibrary builds every structural material at the given temperature.
// A non-positive temperature uses DefaultBulkTemperature.
func NewLibrary(bulkTemperature float64) (*Library, error) {
	if bulkTemperature <= 0 {
		bulkTemperature = DefaultBulkTemperature
	}
	t := bulkTemperature

	lib := &Library{
		BulkTemperature:      t,
		Sodium:               build("sodium", sodium, t),
		SS316:                build("SS316", ss316, t),
		SS304:                build("SS304", ss304, t),
		PlenumGas:            build("plenum gas", plenumGas, t),
		UpperExtension:       build("upper extension", upperExtension, t),
		LowerExtension:       build("lower extension", lowerExtension, t),
		LowerAdapter:         build("lower adapter", lowerAdapter, t),
		PoisonSlug:           build("poison slug", poisonSlug, t),
		PoisonShieldBlock:    build("poison B4C shield block", poisonShieldBlock, t),
		SafetyUpperExtension: build("upper extension - safety", safetyUpperExtension, t),
		SafetyLowerAdapter:   build("lower adapter - safety", safetyLowerAdapter, t),
		ReflectorBlock:       build("reflector hex block", reflectorBlock, t),
	}

	// the wire and the sodium annulus it sits in are smeared into one ring
	wire := build("wire wrap", ss316, t)
	eq := WrappedRodDiameter + 2*WireDiameter
	wireArea := 0.25 * math.Pi * WireDiameter * WireDiameter
	sodiumArea := 0.25 * math.Pi * (eq*eq - WrappedRodDiameter*WrappedRodDiameter)
	ww, err := MixAreas("wire wrap equivalent", []float64{wireArea, sodiumArea}, []*Material{wire, lib.Sodium})
	if err != nil {
		return nil, fmt.Errorf("material library: %w", err)
	}
	lib.WireWrap = ww
	return lib, nil
}

// All returns the library materials in a fixed order
func (l *Library) All() []*Material {
	return []*Material{
		l.Sodium, l.SS316, l.SS304, l.PlenumGas, l.UpperExtension, l.LowerExtension,
		l.LowerAdapter, l.WireWrap, l.PoisonSlug, l.PoisonShieldBlock,
		l.SafetyUpperExtension, l.SafetyLowerAdapter, l.ReflectorBlock,
	}
}
