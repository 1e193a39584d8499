package assembly

import (
	"github.com/alexiusacademia/goebr2/internal/composition"
)

// Kind is the canonical assembly type tag
type Kind string

const (
	Driver       Kind = "driver"
	HalfWorth    Kind = "HWD"
	Control      Kind = "control"
	Safety       Kind = "safety"
	HWCR         Kind = "HWCR"
	Blanket      Kind = "blanket"
	Dummy        Kind = "dummy"
	Reflector    Kind = "reflector"
	Blank        Kind = "blank"
	Experimental Kind = "experimental"
	X320C        Kind = "X320C"
	XX09         Kind = "XX09"
	XX10         Kind = "XX10"
	XY16         Kind = "XY-16"
	C2776A       Kind = "C2776A"
	X402A        Kind = "X402A"
	X412         Kind = "X412"
)

// Kinds lists every tag in a fixed order. Experimental is a placeholder
// that is resolved by location before dispatch.
var Kinds = []Kind{
	Driver, HalfWorth, Control, Safety, HWCR, Blanket, Dummy, Reflector, Blank,
	Experimental, X320C, XX09, XX10, XY16, C2776A, X402A, X412,
}

// ExperimentalSites maps each experimental position to the assembly
// loaded there
var ExperimentalSites = map[composition.Location]Kind{
	"04C02": C2776A,
	"04D02": X320C,
	"05C01": XX10,
	"05D03": XX09,
	"05F03": XY16,
	"06B03": X402A,
	"06D01": X412,
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind returns the Kind of a canonical tag
func ParseKind(tag string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == tag {
			return k, nil
		}
	}
	return "", &UnknownAssemblyTypeError{Tag: tag}
}

// Resolve replaces Experimental with the assembly loaded at loc. Other
// kinds are returned unchanged.
func Resolve(k Kind, loc composition.Location) (Kind, error) {
	if k != Experimental {
		return k, nil
	}
	resolved, ok := ExperimentalSites[loc]
	if !ok {
		return "", &UnknownAssemblyTypeError{Tag: string(k), Location: loc}
	}
	return resolved, nil
}
