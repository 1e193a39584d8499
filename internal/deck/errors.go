package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrCountMismatch is returned when the geom_kind total does not match
	// the number of geometry records in the deck.
	ErrCountMismatch = errors.New("geom_kind total does not match geometry record count")

	// ErrOverDecrement is returned when a decrement exceeds the remaining count
	// of the first positive run. The run is left at zero.
	ErrOverDecrement = errors.New("run-list decrement exceeds remaining count")

	// ErrRunListExhausted is returned when no run has a positive count left
	ErrRunListExhausted = errors.New("run-list exhausted")
)

// MalformedDeckError reports a deck whose section markers are missing,
// duplicated or out of order
type MalformedDeckError struct {
	Marker string
	Reason string
}

func (e *MalformedDeckError) Error() string {
	return fmt.Sprintf("malformed deck: marker %q %s", e.Marker, e.Reason)
}

// FormatError reports a geom_kind token that does not parse as [count*]label
type FormatError struct {
	Token string
	msg   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("geom_kind token %q: %s", e.Token, e.msg)
}
