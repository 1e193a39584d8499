package section

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexiusacademia/goebr2/internal/material"
)

// Catalog names
const (
	CatalogDriver    = "driver"
	CatalogControl   = "control"
	CatalogHWCR      = "HWCR"
	CatalogSafety    = "safety"
	CatalogBlanket   = "blanket"
	CatalogDummy     = "dummy"
	CatalogReflector = "reflector"
	CatalogXX10      = "XX10"
	CatalogXX09      = "XX09"
	CatalogXY16      = "XY-16"
)

// Driver variants. Sections above the fuel differ in height between them.
const (
	MKII  = "MKII"
	MKIIA = "MKIIA"
)

// Variants lists the driver variants in a fixed order
var Variants = []string{MKII, MKIIA}

// Hexagonal sizes shared by most sections (cm)
const (
	DuctInner   = 5.6134 // inner flat-to-flat of the assembly duct
	DuctOuter   = 5.8166 // outer flat-to-flat of the assembly duct
	LatticeCell = 5.8929 // assembly pitch
	InnerInner  = 4.6228 // inner flat-to-flat of the inner duct
	InnerOuter  = 4.8260
	AdapterNeck = 5.4282
	NarrowDuct  = 5.6314
)

// Pin dimensions of the fuel lattice (cm)
const (
	FuelSlug      = 0.3302
	FuelBond      = 0.3810
	FuelClad      = 0.4420
	FuelWire      = 0.4591
	FuelPitch     = 0.5655
	StructPitch   = 0.5665
	SlugHeight    = 11.43
	BlanketHeight = 46.567
)

// Blank section spans the whole core height
const (
	BlankLow  = -145.188
	BlankHigh = 143.683
)

// Catalog is a named set of sections for one assembly family
type Catalog struct {
	Name     string
	sections map[string]*Section
}

// NewCatalog returns an empty catalog
func NewCatalog(name string) *Catalog {
	return &Catalog{Name: name, sections: make(map[string]*Section)}
}

// Add registers s under key
func (c *Catalog) Add(key string, s *Section) {
	c.sections[key] = s
}

// Get returns the section registered under key
func (c *Catalog) Get(key string) (*Section, bool) {
	s, ok := c.sections[key]
	return s, ok
}

// Keys returns the registered keys sorted
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.sections))
	for k := range c.sections {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate validates every section of the catalog
func (c *Catalog) Validate() error {
	for _, k := range c.Keys() {
		if err := c.sections[k].Validate(); err != nil {
			return fmt.Errorf("catalog %s: %w", c.Name, err)
		}
	}
	return nil
}

// VariantKey returns the key of a driver section that differs by variant
func VariantKey(key, mk string) string {
	return key + "-" + mk
}

// ductShell is the assembly duct around the pin lattice
func ductShell(lib *material.Library) []Layer {
	return []Layer{{DuctInner, lib.Sodium}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}}
}

func innerDuctShell(lib *material.Library) []Layer {
	return append([]Layer{{InnerInner, lib.Sodium}, {InnerOuter, lib.SS304}}, ductShell(lib)...)
}

func neckShell(lib *material.Library) []Layer {
	return []Layer{
		{InnerInner, lib.Sodium}, {InnerOuter, lib.SS304},
		{AdapterNeck, lib.Sodium}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium},
	}
}

func innerOnlyShell(lib *material.Library, inner *material.Material) []Layer {
	return []Layer{{InnerInner, inner}, {InnerOuter, lib.SS304}, {LatticeCell, lib.Sodium}}
}

func plug(name string, lib *material.Library) *Section {
	return &Section{Name: name, Regions: []Layer{{DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}}, Height: 0.1016}
}

func adapter(name string, rod float64, m *material.Material, lib *material.Library, height float64) *Section {
	return &Section{
		Name: name, Ring: 1, Pitch: StructPitch,
		Rods:    []Layer{{rod, m}},
		Regions: []Layer{{LatticeCell, lib.Sodium}},
		Height:  height,
	}
}

func fuelPin(lib *material.Library, fill *material.Material) []Layer {
	return []Layer{{FuelBond, fill}, {FuelClad, lib.SS304}, {FuelWire, lib.WireWrap}}
}

func cladPin(lib *material.Library) []Layer {
	return []Layer{{FuelClad, lib.SS304}, {FuelWire, lib.WireWrap}}
}

// NewCatalogs builds every section catalog from lib
func NewCatalogs(lib *material.Library) (map[string]*Catalog, error) {
	cats := map[string]*Catalog{
		CatalogDriver:    driverCatalog(lib),
		CatalogDummy:     dummyCatalog(lib),
		CatalogReflector: reflectorCatalog(lib),
		CatalogBlanket:   blanketCatalog(lib),
		CatalogXX10:      xx10Catalog(lib),
		CatalogXX09:      xx09Catalog(lib),
	}
	control := controlCatalog(lib, cats[CatalogDriver])
	cats[CatalogControl] = control
	cats[CatalogHWCR] = hwcrCatalog(lib, control, cats[CatalogDriver])
	cats[CatalogSafety] = safetyCatalog(lib, control)
	cats[CatalogXY16] = xy16Catalog(control, cats[CatalogDummy])

	for _, c := range cats {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return cats, nil
}

// Blank returns the sodium-only filler for empty lattice positions
func Blank(lib *material.Library) *Section {
	return &Section{Name: "blank", Regions: []Layer{{LatticeCell, lib.Sodium}}, Height: BlankHigh - BlankLow}
}

func driverCatalog(lib *material.Library) *Catalog {
	c := NewCatalog(CatalogDriver)
	c.Add("lowAdp", adapter("lower adapter - driver", 4.7625, lib.LowerAdapter, lib, 51.9125))
	c.Add("lowAssemblyPlug", plug("lower assembly plug", lib))
	c.Add("lowEx", &Section{
		Name:    "lower extension - driver",
		Regions: []Layer{{DuctInner, lib.LowerExtension}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}},
		Height:  61.3537,
	})
	cladPlug := &Section{Name: "cladding plug", Ring: 6, Pitch: StructPitch, Rods: cladPin(lib), Regions: ductShell(lib)}
	c.Add("lowCladPlug", cladPlug.WithHeight("lower cladding plug", 0.3175))

	aboveSlug := &Section{Name: "sodium above slug", Ring: 6, Pitch: StructPitch, Rods: fuelPin(lib, lib.Sodium), Regions: ductShell(lib)}
	plenum := &Section{Name: "gas plenum", Ring: 6, Pitch: StructPitch, Rods: fuelPin(lib, lib.PlenumGas), Regions: ductShell(lib)}
	aboveRod := &Section{Name: "sodium above rod", Regions: ductShell(lib)}
	upEx := &Section{
		Name:    "upper extension",
		Regions: []Layer{{DuctInner, lib.UpperExtension}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}},
	}

	heights := map[string]struct{ aboveSlug, plenum, aboveRod float64 }{
		MKII:  {3.18, 21.48, 8.1317},
		MKIIA: {0.635, 24.56, 5.0517},
	}
	for _, mk := range Variants {
		h := heights[mk]
		suffix := " - driver " + mk
		c.Add(VariantKey("sodiumAboveSlug", mk), aboveSlug.WithHeight(aboveSlug.Name+suffix, h.aboveSlug))
		c.Add(VariantKey("gasPlenum", mk), plenum.WithHeight(plenum.Name+suffix, h.plenum))
		c.Add(VariantKey("upCladPlug", mk), cladPlug.WithHeight("upper cladding plug"+suffix, 0.6858))
		c.Add(VariantKey("sodiumAboveRod", mk), aboveRod.WithHeight(aboveRod.Name+suffix, h.aboveRod))
		c.Add(VariantKey("upEx", mk), upEx.WithHeight(upEx.Name+suffix, 40.5968))
		c.Add(VariantKey("upAssemblyPlug", mk), plug("upper assembly plug"+suffix, lib))
	}
	return c
}

func controlCatalog(lib *material.Library, driver *Catalog) *Catalog {
	c := NewCatalog(CatalogControl)
	low, _ := driver.Get("lowAssemblyPlug")
	c.Add("lowAssemblyPlug", low.Copy("low assembly plug - control"))
	up, _ := driver.Get(VariantKey("upAssemblyPlug", MKII))
	c.Add("upAssemblyPlug", up.Copy("upper assembly plug - control"))
	c.Add("medianAssemblyPlug", &Section{
		Name:    "median assembly plug - control",
		Regions: append([]Layer{{InnerOuter, lib.SS304}}, ductShell(lib)...),
		Height:  0.1016,
	})

	c.Add("lowSodiumGap", &Section{Name: "lower sodium gap - control", Regions: ductShell(lib), Height: 37.2534})
	c.Add("medianSodiumGap", &Section{Name: "median sodium gap - control", Regions: innerDuctShell(lib), Height: 15.5781})
	c.Add("upSodiumGap", &Section{Name: "upper sodium gap - control", Regions: innerOnlyShell(lib, lib.Sodium), Height: 36.0750})

	c.Add("lowAdp-narrow", &Section{
		Name: "lower adapter narrow - control", Ring: 1, Pitch: StructPitch,
		Rods:    []Layer{{4.2910, lib.LowerAdapter}},
		Regions: []Layer{{AdapterNeck, lib.Sodium}, {NarrowDuct, lib.SS304}, {LatticeCell, lib.Sodium}},
		Height:  19.6854,
	})
	c.Add("lowAdp-trans", &Section{
		Name: "lower adapter trans - control", Ring: 1, Pitch: StructPitch,
		Rods:    []Layer{{4.2910, lib.LowerAdapter}},
		Regions: []Layer{{AdapterNeck, lib.Sodium}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}},
		Height:  0.1016,
	})
	c.Add("lowAdp-wide", &Section{
		Name: "lower adapter wide - control", Ring: 1, Pitch: StructPitch,
		Rods:    []Layer{{4.2910, lib.LowerAdapter}},
		Regions: ductShell(lib),
		Height:  61.4360,
	})

	cladPlug := &Section{Name: "lower cladding plug - control", Ring: 6, Pitch: StructPitch, Rods: cladPin(lib), Regions: innerDuctShell(lib), Height: 0.3175}
	c.Add("lowCladPlug", cladPlug)
	c.Add("upCladPlug", cladPlug.WithHeight("upper cladding plug - control", 0.6858))

	c.Add("sodiumAboveRod", &Section{Name: "sodium above rod - control", Ring: 5, Pitch: StructPitch, Rods: fuelPin(lib, lib.Sodium), Regions: neckShell(lib), Height: 0.635})
	c.Add("gasPlenum", &Section{Name: "gas plenum - control", Ring: 5, Pitch: StructPitch, Rods: fuelPin(lib, lib.PlenumGas), Regions: neckShell(lib), Height: 24.56})

	upExLow := innerDuctShell(lib)
	upExLow[0].Material = lib.UpperExtension
	c.Add("upEx-low", &Section{Name: "lower part of upper extension - control", Regions: upExLow, Height: 22.955})
	c.Add("upEx-high", &Section{Name: "higher part of upper extension - control", Regions: innerOnlyShell(lib, lib.UpperExtension), Height: 7.5250})
	return c
}

func hwcrCatalog(lib *material.Library, control, driver *Catalog) *Catalog {
	c := NewCatalog(CatalogHWCR)
	copies := []struct {
		key, name string
		height    float64 // zero keeps the control height
	}{
		{"lowAssemblyPlug", "lower assembly plug - HWCR", 0},
		{"medianAssemblyPlug", "median assembly plug - HWCR", 0},
		{"upAssemblyPlug", "upper assembly plug - HWCR", 0},
		{"lowSodiumGap", "lower sodium gap - HWCR", 63.7290},
		{"medianSodiumGap", "median sodium gap - HWCR", 3.18},
		{"upSodiumGap", "upper sodium gap - HWCR", 6.0340},
		{"lowAdp-wide", "lower adapter wide - HWCR", 52.230},
		{"lowCladPlug", "lower cladding plug - HWCR", 0},
		{"upCladPlug", "upper cladding plug - HWCR", 0},
		{"sodiumAboveRod", "sodium above rod - HWCR", 0},
		{"gasPlenum", "gas plenum - HWCR", 0},
	}
	for _, cp := range copies {
		src, _ := control.Get(cp.key)
		s := src.Copy(cp.name)
		if cp.height > 0 {
			s.Height = cp.height
		}
		c.Add(cp.key, s)
	}

	poisonRod := func(name string, fill *material.Material, height float64) *Section {
		return &Section{
			Name: name, Ring: 2, Pitch: 1.664,
			Rods:    []Layer{{1.4097, fill}, {1.5875, lib.SS316}, {1.5923, lib.WireWrap}},
			Regions: innerDuctShell(lib),
			Height:  height,
		}
	}
	c.Add("poisonPlug-low", &Section{
		Name: "poison rod lower plug", Ring: 2, Pitch: 1.664,
		Rods:    []Layer{{1.5875, lib.SS316}, {1.5923, lib.WireWrap}},
		Regions: innerDuctShell(lib),
		Height:  1.27,
	})

	slug := poisonRod("poison slug", lib.Sodium, 35.56)
	slug.EqMethod = EqSupercell
	slug.Rods = append([]Layer{{1.3754, lib.PoisonSlug}}, slug.Rods...)
	// the poison is surrounded by driver upper extensions
	slug.Surrounding, _ = driver.Get(VariantKey("upEx", MKII))
	c.Add("poisonSlug", slug)

	c.Add("poisonSodiumGap", poisonRod("poison rod sodium gap", lib.Sodium, 3.4930))
	c.Add("poisonShieldBlock", poisonRod("poison rod shield block", lib.PoisonShieldBlock, 20.32))
	c.Add("poisonGasPlenum", poisonRod("poison rod gas plenum", lib.PlenumGas, 31.0340))
	return c
}

func safetyCatalog(lib *material.Library, control *Catalog) *Catalog {
	c := NewCatalog(CatalogSafety)
	copies := []struct {
		key, name string
		height    float64
	}{
		{"lowAssemblyPlug", "lower assembly plug - safety", 0},
		{"medianAssemblyPlug", "median assembly plug - safety", 0},
		{"upAssemblyPlug", "upper assembly plug - safety", 0},
		{"lowSodiumGap", "lower sodium gap - safety", 61.7520},
		{"upSodiumGap", "upper sodium gap - safety", 5.1679},
		{"lowCladPlug", "lower cladding plug - safety", 0},
		{"sodiumAboveRod", "sodium above rod - safety", 0},
	}
	for _, cp := range copies {
		src, _ := control.Get(cp.key)
		s := src.Copy(cp.name)
		if cp.height > 0 {
			s.Height = cp.height
		}
		c.Add(cp.key, s)
	}

	adp := func(name string, regions []Layer, height float64) *Section {
		return &Section{Name: name, Ring: 1, Pitch: StructPitch, Rods: []Layer{{4.2910, lib.SafetyLowerAdapter}}, Regions: regions, Height: height}
	}
	c.Add("lowAdp-narrow", adp("lower adapter narrow - safety",
		[]Layer{{AdapterNeck, lib.Sodium}, {NarrowDuct, lib.SS304}, {LatticeCell, lib.Sodium}}, 20.8764))
	c.Add("lowAdp-trans", adp("lower adapter trans - safety",
		[]Layer{{AdapterNeck, lib.Sodium}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}}, 0.1016))
	c.Add("lowAdp-wide", adp("lower adapter wide - safety", ductShell(lib), 61.6570))

	c.Add("upCladPlug", &Section{Name: "upper cladding plug - safety", Ring: 5, Pitch: StructPitch, Rods: cladPin(lib), Regions: innerOnlyShell(lib, lib.Sodium), Height: 0.6858})
	c.Add("gasPlenum", &Section{Name: "gas plenum - safety", Ring: 5, Pitch: StructPitch, Rods: fuelPin(lib, lib.PlenumGas), Regions: innerOnlyShell(lib, lib.Sodium), Height: 24.56})
	c.Add("upEx", &Section{Name: "upper extension - safety", Regions: innerOnlyShell(lib, lib.SafetyUpperExtension), Height: 37.305})
	return c
}

func blanketCatalog(lib *material.Library) *Catalog {
	c := NewCatalog(CatalogBlanket)
	c.Add("lowAdp", adapter("lower adapter - blanket", 3.8280, lib.LowerAdapter, lib, 52.07))
	c.Add("lowAssemblyPlug", plug("lower assembly plug - blanket", lib))
	c.Add("upAssemblyPlug", plug("upper assembly plug - blanket", lib))

	cladPlug := &Section{Name: "lower cladding plug - blanket", Ring: 3, Pitch: 1.2522, Rods: []Layer{{1.2522, lib.SS304}}, Regions: ductShell(lib), Height: 0.04572}
	c.Add("lowCladPlug", cladPlug)
	c.Add("upCladPlug", cladPlug.Copy("upper cladding plug - blanket"))

	bond := 1.0998 + 2*0.03048
	aboveRod := &Section{Name: "sodium above rod - blanket", Ring: 3, Pitch: 1.2522,
		Rods: []Layer{{bond, lib.Sodium}, {1.2522, lib.SS304}}, Regions: ductShell(lib), Height: 3.048}
	plenum := &Section{Name: "gas plenum - blanket", Ring: 3, Pitch: 1.2522,
		Rods: []Layer{{1.0998, lib.PlenumGas}, {bond, lib.Sodium}, {1.2522, lib.SS304}}, Regions: ductShell(lib), Height: 12.76}
	c.Add("sodiumAboveRod", aboveRod)
	c.Add("gasPlenum", plenum)
	c.Add("sodiumGap", &Section{
		Name:    "sodium gap - blanket",
		Regions: ductShell(lib),
		Height:  158.234 - 2*cladPlug.Height - 3*BlanketHeight - aboveRod.Height - plenum.Height,
	})
	return c
}

func dummyCatalog(lib *material.Library) *Catalog {
	c := NewCatalog(CatalogDummy)
	c.Add("lowAdp", adapter("lower adapter - dummy", 4.9070, lib.LowerAdapter, lib, 52.07))
	c.Add("lowAssemblyPlug", plug("lower assembly plug - dummy", lib))
	c.Add("upAssemblyPlug", plug("upper assembly plug - dummy", lib))
	element := &Section{Name: "dummy element", Ring: 2, Pitch: 2.0447, Rods: []Layer{{2.0447, lib.SS304}}, Regions: ductShell(lib), Height: 145.2829}
	c.Add("dummyElement", element)
	c.Add("sodiumAboveRod", &Section{Name: "sodium above rod - dummy", Regions: ductShell(lib), Height: 167.199 - element.Height})
	return c
}

func reflectorCatalog(lib *material.Library) *Catalog {
	c := NewCatalog(CatalogReflector)
	c.Add("lowAdp", adapter("lower adapter - reflector", 4.2910, lib.LowerAdapter, lib, 52.07))
	c.Add("lowAssemblyPlug", plug("lower assembly plug - reflector", lib))
	c.Add("upAssemblyPlug", plug("upper assembly plug - reflector", lib))
	c.Add("reflectorSlug", &Section{
		Name:    "reflector slug",
		Regions: []Layer{{DuctInner, lib.ReflectorBlock}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}},
		Height:  163.909,
	})
	return c
}

// experimentalBase holds the sections XX10 and XX09 share
func experimentalBase(name, tag string, lib *material.Library) *Catalog {
	c := NewCatalog(name)
	thinPlug := &Section{Regions: []Layer{{InnerOuter, lib.SS304}, {LatticeCell, lib.Sodium}}, Height: 0.1016}
	c.Add("lowAssemblyPlug", thinPlug.Copy("lower assembly plug - "+tag))
	c.Add("upAssemblyPlug", thinPlug.Copy("upper assembly plug - "+tag))

	c.Add("lowSodiumGap-narrow", &Section{Name: "lower sodium gap narrow - " + tag,
		Regions: innerOnlyShell(lib, lib.Sodium), Height: 108.618 - 2*0.1016 - 52.23})
	c.Add("lowSodiumGap-trans", &Section{Name: "lower sodium gap trans - " + tag,
		Regions: []Layer{{InnerInner, lib.Sodium}, {DuctOuter, lib.SS304}, {LatticeCell, lib.Sodium}}, Height: 0.1016})
	// estimated
	c.Add("lowSodiumGap-wide", &Section{Name: "lower sodium gap wide - " + tag,
		Regions: ductShell(lib), Height: 52.23 - 40.597})
	c.Add("upSodiumGap", &Section{Name: "upper sodium gap - " + tag,
		Regions: innerDuctShell(lib), Height: 68.428 - 61.2})

	lowEx := ductShell(lib)
	c.Add("lowEx", &Section{Name: "lower extension - " + tag, Ring: 1, Pitch: StructPitch,
		Regions: append([]Layer{{InnerInner, lib.LowerExtension}}, lowEx...), Height: 40.597})

	upEx := innerDuctShell(lib)
	upEx[0].Material = lib.UpperExtension
	c.Add("upEx", &Section{Name: "upper extension - " + tag, Regions: upEx, Height: 40.597 - 0.1016})
	return c
}

func xx10Catalog(lib *material.Library) *Catalog {
	c := experimentalBase(CatalogXX10, "xx10", lib)
	c.Add("element", &Section{Name: "dummy element - xx10", Ring: 3, Pitch: 1.0055,
		Rods: []Layer{{0.8810, lib.SS316}}, Regions: innerDuctShell(lib), Height: 61.2})
	return c
}

func xx09Catalog(lib *material.Library) *Catalog {
	c := experimentalBase(CatalogXX09, "xx09", lib)
	c.Add("lowCladPlug", &Section{Name: "lower cladding plug - xx09", Ring: 5, Pitch: StructPitch,
		Rods: cladPin(lib), Regions: neckShell(lib), Height: 0.1016})
	c.Add("sodiumAboveRod", &Section{Name: "sodium above rod - xx09", Ring: 6, Pitch: StructPitch,
		Rods: fuelPin(lib, lib.Sodium), Regions: neckShell(lib), Height: 0.635})
	c.Add("gasPlenum", &Section{Name: "gas plenum - xx09", Ring: 6, Pitch: StructPitch,
		Rods: fuelPin(lib, lib.PlenumGas), Regions: neckShell(lib), Height: 24.56})
	return c
}

// xy16Catalog reuses the control structure with a three-slug dummy
// element in place of the absorber
func xy16Catalog(control, dummy *Catalog) *Catalog {
	c := NewCatalog(CatalogXY16)
	for _, k := range control.Keys() {
		s, _ := control.Get(k)
		c.Add(k, s.Copy(strings.Replace(s.Name, "- control", "- xy-16", 1)))
	}
	element, _ := dummy.Get("dummyElement")
	c.Add("element", element.WithHeight("dummy element - xy-16", 3*SlugHeight))
	return c
}
