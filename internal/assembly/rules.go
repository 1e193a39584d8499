package assembly

import (
	"strings"

	"github.com/alexiusacademia/goebr2/internal/section"
)

// Slugs marks where the per-location slug sections go in a section list
const Slugs = "*slugs"

// variantToken is replaced by the driver variant in section keys
const variantToken = "{mk}"

// blankCatalog holds the single filler section of empty positions
const blankCatalog = "blank"

// RefPlane places an assembly axially: the bottom of section Index sits
// at height Z (cm)
type RefPlane struct {
	Index int
	Z     float64
}

// Rule describes how one assembly kind is put together
type Rule struct {
	Catalog  string
	Sections []string
	// Slugs builds the fuel sections; nil for kinds without slugs
	Slugs section.SlugBuilder
	// Variant appends the driver variant to the type name
	Variant bool
	// TypeName overrides the kind as type name
	TypeName string
	RefPlane RefPlane
}

// keys returns the catalog keys of the rule for variant mk, with the slug
// placeholder left in place
func (r Rule) keys(mk string) []string {
	out := make([]string, len(r.Sections))
	for i, k := range r.Sections {
		out[i] = strings.ReplaceAll(k, variantToken, mk)
	}
	return out
}

func (r Rule) typeName(k Kind, mk string) string {
	name := string(k)
	if r.TypeName != "" {
		name = r.TypeName
	}
	if r.Variant {
		name += "-" + mk
	}
	return name
}

// DefaultRules returns the dispatch table of the EBR-II assemblies
func DefaultRules() map[Kind]Rule {
	driver := Rule{
		Catalog: section.CatalogDriver,
		Sections: []string{
			"lowAdp", "lowAssemblyPlug", "lowEx", "lowCladPlug", Slugs,
			"sodiumAboveSlug-{mk}", "gasPlenum-{mk}", "upCladPlug-{mk}",
			"sodiumAboveRod-{mk}", "upEx-{mk}", "upAssemblyPlug-{mk}",
		},
		Slugs:    section.DriverSlugs,
		Variant:  true,
		RefPlane: RefPlane{Index: 3},
	}
	halfWorth := driver
	halfWorth.Slugs = section.HalfWorthSlugs

	controlSections := []string{
		"lowAssemblyPlug", "lowSodiumGap", "lowAdp-narrow", "lowAdp-trans", "lowAdp-wide",
		"medianAssemblyPlug", "lowCladPlug", Slugs, "sodiumAboveRod", "gasPlenum",
		"upCladPlug", "medianSodiumGap", "upEx-low", "upEx-high",
	}
	xy16Sections := append([]string(nil), controlSections...)
	for i, k := range xy16Sections {
		if k == Slugs {
			xy16Sections[i] = "element"
		}
	}

	dummy := Rule{
		Catalog:  section.CatalogDummy,
		Sections: []string{"lowAdp", "lowAssemblyPlug", "dummyElement", "sodiumAboveRod", "upAssemblyPlug"},
		RefPlane: RefPlane{Index: 2, Z: 62.5475},
	}
	x320c := dummy
	x320c.TypeName = string(Experimental)

	return map[Kind]Rule{
		Driver:    driver,
		HalfWorth: halfWorth,
		C2776A:    driver,
		X402A:     driver,
		X412:      driver,
		Control: {
			Catalog:  section.CatalogControl,
			Sections: controlSections,
			Slugs:    section.ControlSlugs,
			Variant:  true,
			RefPlane: RefPlane{Index: 7, Z: 0.635 - 0.3175},
		},
		Safety: {
			Catalog: section.CatalogSafety,
			Sections: []string{
				"lowAssemblyPlug", "lowSodiumGap", "lowAdp-narrow", "lowAdp-trans", "lowAdp-wide",
				"medianAssemblyPlug", "lowCladPlug", Slugs, "sodiumAboveRod", "gasPlenum",
				"upCladPlug", "upSodiumGap", "upEx", "upAssemblyPlug",
			},
			Slugs:    section.ControlSlugs,
			Variant:  true,
			RefPlane: RefPlane{Index: 7, Z: 0.635 - 0.3175},
		},
		HWCR: {
			Catalog: section.CatalogHWCR,
			Sections: []string{
				"lowAssemblyPlug", "lowSodiumGap", "lowAdp-wide", "medianAssemblyPlug", "lowCladPlug",
				Slugs, "sodiumAboveRod", "gasPlenum", "upCladPlug", "medianSodiumGap",
				"poisonPlug-low", "poisonSlug", "poisonSodiumGap", "poisonShieldBlock",
				"poisonGasPlenum", "upSodiumGap", "upAssemblyPlug",
			},
			Slugs:    section.ControlSlugs,
			Variant:  true,
			RefPlane: RefPlane{Index: 5, Z: 8.255 - 0.3175},
		},
		Blanket: {
			Catalog:  section.CatalogBlanket,
			Sections: []string{"lowAdp", "lowAssemblyPlug", Slugs, "sodiumAboveRod", "gasPlenum", "sodiumGap", "upAssemblyPlug"},
			Slugs:    section.BlanketSlugs,
			// 0.1016 is the lower assembly plug
			RefPlane: RefPlane{Index: 3, Z: 62.5475 - 0.1016 - section.BlanketHeight},
		},
		Dummy: dummy,
		X320C: x320c,
		Reflector: {
			Catalog:  section.CatalogReflector,
			Sections: []string{"lowAdp", "lowAssemblyPlug", "reflectorSlug", "upAssemblyPlug"},
			RefPlane: RefPlane{Index: 2, Z: 62.548},
		},
		XX10: {
			Catalog: section.CatalogXX10,
			Sections: []string{
				"lowAssemblyPlug", "lowSodiumGap-narrow", "lowSodiumGap-trans", "lowSodiumGap-wide",
				"lowEx", "element", "upSodiumGap", "upEx", "upAssemblyPlug",
			},
			RefPlane: RefPlane{Index: 5},
		},
		XX09: {
			Catalog: section.CatalogXX09,
			Sections: []string{
				"lowAssemblyPlug", "lowSodiumGap-narrow", "lowSodiumGap-trans", "lowSodiumGap-wide",
				"lowEx", Slugs, "sodiumAboveRod", "gasPlenum", "upSodiumGap", "upEx", "upAssemblyPlug",
			},
			Slugs:    section.ControlSlugs,
			RefPlane: RefPlane{Index: 5},
		},
		XY16: {
			Catalog:  section.CatalogXY16,
			Sections: xy16Sections,
			RefPlane: RefPlane{Index: 7, Z: 0.635 - 0.3175},
		},
		Blank: {
			Catalog:  blankCatalog,
			Sections: []string{"blank"},
			RefPlane: RefPlane{Index: 0, Z: section.BlankLow},
		},
	}
}
