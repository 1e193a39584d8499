package section

import (
	"fmt"

	"github.com/alexiusacademia/goebr2/internal/material"
)

// EqMethod names how the physics code homogenises a pin lattice
type EqMethod string

const (
	EqNone      EqMethod = ""
	Eq1D        EqMethod = "1-D"
	EqSupercell EqMethod = "supercell"
)

// Section is one axial slice of an assembly. The cross-section is a pin
// lattice (Rods) sitting inside nested hexagonal regions (Regions):
// - Rods are concentric pin layers given by outer diameter (cm)
// - Regions are hexagons given by outer flat-to-flat size (cm)
// - Both lists run from the inside out
type Section struct {
	Name     string   `json:"name"`
	Ring     int      `json:"ring"`  // pin rings in the lattice, 0 when homogeneous
	Pitch    float64  `json:"pitch"` // pin pitch (cm)
	EqMethod EqMethod `json:"eq_method,omitempty"`

	Rods    []Layer `json:"rods,omitempty"`
	Regions []Layer `json:"regions"`

	Height float64 `json:"height"` // cm

	// Surrounding is the section smeared around a supercell
	Surrounding *Section `json:"-"`
}

// Layer is a pin layer or a hexagonal region
type Layer struct {
	Size     float64            `json:"size"` // cm
	Material *material.Material `json:"material"`
}

// AppendRod adds a pin layer outside the existing ones
func (s *Section) AppendRod(size float64, m *material.Material) {
	s.Rods = append(s.Rods, Layer{Size: size, Material: m})
}

// AppendRegion adds a hexagonal region outside the existing ones
func (s *Section) AppendRegion(size float64, m *material.Material) {
	s.Regions = append(s.Regions, Layer{Size: size, Material: m})
}

// Copy returns a copy under a new name. Materials are shared.
func (s *Section) Copy(name string) *Section {
	cp := *s
	cp.Name = name
	cp.Rods = append([]Layer(nil), s.Rods...)
	cp.Regions = append([]Layer(nil), s.Regions...)
	return &cp
}

// WithHeight returns a copy with a new name and height
func (s *Section) WithHeight(name string, height float64) *Section {
	cp := s.Copy(name)
	cp.Height = height
	return cp
}

// PinCount returns the number of pins in a lattice of Ring rings
func (s *Section) PinCount() int {
	if s.Ring <= 0 {
		return 0
	}
	return 3*s.Ring*(s.Ring-1) + 1
}

// OuterSize returns the flat-to-flat size of the outermost region
func (s *Section) OuterSize() float64 {
	if len(s.Regions) == 0 {
		return 0
	}
	return s.Regions[len(s.Regions)-1].Size
}

// Validate checks if the section definition is valid
func (s *Section) Validate() error {
	if s.Name == "" {
		return &ValidationError{"section must have a name"}
	}
	if s.Height < 0 {
		return &ValidationError{msg: fmt.Sprintf("section %q: height must not be negative", s.Name)}
	}
	if len(s.Regions) == 0 {
		return &ValidationError{msg: fmt.Sprintf("section %q: at least one region is required", s.Name)}
	}
	if len(s.Rods) > 0 && (s.Ring <= 0 || s.Pitch <= 0) {
		return &ValidationError{msg: fmt.Sprintf("section %q: rods need a positive ring count and pitch", s.Name)}
	}
	if err := checkLayers(s.Name, "rod", s.Rods); err != nil {
		return err
	}
	if err := checkLayers(s.Name, "region", s.Regions); err != nil {
		return err
	}
	if len(s.Rods) > 0 {
		if pins, inner := float64(s.PinCount())*CircleArea(s.Rods[len(s.Rods)-1].Size), HexArea(s.Regions[0].Size); pins > inner {
			return &ValidationError{msg: fmt.Sprintf("section %q: pin lattice does not fit in the innermost region", s.Name)}
		}
	}
	return nil
}

func checkLayers(name, kind string, layers []Layer) error {
	prev := 0.0
	for i, l := range layers {
		if l.Material == nil {
			return &ValidationError{msg: fmt.Sprintf("section %q: %s %d has no material", name, kind, i+1)}
		}
		if l.Size <= prev {
			return &ValidationError{msg: fmt.Sprintf("section %q: %s %d size %g must exceed %g", name, kind, i+1, l.Size, prev)}
		}
		prev = l.Size
	}
	return nil
}

// ValidationError represents a section validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
