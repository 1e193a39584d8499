package assembly

import (
	"fmt"

	"github.com/alexiusacademia/goebr2/internal/composition"
)

// UnknownAssemblyTypeError reports a tag with no dispatch rule, or an
// experimental tag at a position that holds no experiment
type UnknownAssemblyTypeError struct {
	Tag      string
	Location composition.Location
}

func (e *UnknownAssemblyTypeError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("no %s assembly at %s", e.Tag, e.Location)
	}
	return fmt.Sprintf("unknown assembly type %q", e.Tag)
}

// LocationNotFoundError reports a fuelled assembly whose slug compositions
// are missing from the composition dataset
type LocationNotFoundError struct {
	Location composition.Location
	Kind     Kind
	Err      error
}

func (e *LocationNotFoundError) Error() string {
	return fmt.Sprintf("there is no %s assembly at %s: %v", e.Kind, e.Location, e.Err)
}

func (e *LocationNotFoundError) Unwrap() error {
	return e.Err
}
