package assembly

import (
	"strings"

	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/section"
)

// Assembly is the axial stack of sections loaded at one core position.
// Sections are listed bottom up and may be shared with other assemblies.
type Assembly struct {
	TypeName string
	Kind     Kind
	Location composition.Location
	Variant  string
	Sections []*section.Section
	RefPlane RefPlane
}

// Height returns the total height of the stack
func (a *Assembly) Height() float64 {
	h := 0.0
	for _, s := range a.Sections {
		h += s.Height
	}
	return h
}

// Bounds returns the axial [low, high] of every section
func (a *Assembly) Bounds() [][2]float64 {
	z := a.RefPlane.Z
	for i := 0; i < a.RefPlane.Index && i < len(a.Sections); i++ {
		z -= a.Sections[i].Height
	}
	out := make([][2]float64, len(a.Sections))
	for i, s := range a.Sections {
		out[i] = [2]float64{z, z + s.Height}
		z += s.Height
	}
	return out
}

// SlugSections returns the sections whose names carry the location, which
// are the ones built from its slug compositions
func (a *Assembly) SlugSections() []*section.Section {
	var out []*section.Section
	prefix := string(a.Location) + " "
	for _, s := range a.Sections {
		if strings.HasPrefix(s.Name, prefix) {
			out = append(out, s)
		}
	}
	return out
}
