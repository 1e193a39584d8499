package composition

import (
	"fmt"
	"strconv"
	"strings"
)

// Rings is the number of hexagonal rings in the core
const Rings = 16

// sectorOrder maps the sector number of a ring position to its letter.
// Index k of ring r falls in sector k/r.
var sectorOrder = [6]byte{'C', 'D', 'E', 'F', 'A', 'B'}

// Location is a core position code "RRSKK": ring (1-based), sector letter
// and position within the sector (1-based)
type Location string

// ParseLocation validates a location code
func ParseLocation(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return "", fmt.Errorf("location %q: want 5 characters RRSKK", s)
	}
	rr, err := strconv.Atoi(s[:2])
	if err != nil || rr < 1 || rr > Rings {
		return "", fmt.Errorf("location %q: ring must be 01..%02d", s, Rings)
	}
	sec := sectorIndex(s[2])
	if sec < 0 {
		return "", fmt.Errorf("location %q: sector must be one of A-F", s)
	}
	kk, err := strconv.Atoi(s[3:])
	if err != nil || kk < 1 {
		return "", fmt.Errorf("location %q: position must be positive", s)
	}
	r := rr - 1
	if r == 0 {
		if s[2] != 'A' || kk != 1 {
			return "", fmt.Errorf("location %q: the centre is 01A01", s)
		}
	} else if kk > r {
		return "", fmt.Errorf("location %q: ring %d has %d positions per sector", s, rr, r)
	}
	return Location(s), nil
}

func sectorIndex(b byte) int {
	for i, s := range sectorOrder {
		if s == b {
			return i
		}
	}
	return -1
}

// FromRingIndex converts a 0-based ring r and 0-based index k within the
// ring into a location
func FromRingIndex(r, k int) (Location, error) {
	switch {
	case r < 0 || r >= Rings:
		return "", fmt.Errorf("ring %d out of range 0..%d", r, Rings-1)
	case r == 0:
		if k != 0 {
			return "", fmt.Errorf("ring 0 has a single position, got index %d", k)
		}
		return "01A01", nil
	case k < 0 || k >= 6*r:
		return "", fmt.Errorf("index %d out of range 0..%d for ring %d", k, 6*r-1, r)
	}
	return Location(fmt.Sprintf("%02d%c%02d", r+1, sectorOrder[k/r], k%r+1)), nil
}

// RingIndex converts the location back into 0-based ring and index
func (l Location) RingIndex() (r, k int) {
	rr, _ := strconv.Atoi(string(l[:2]))
	kk, _ := strconv.Atoi(string(l[3:]))
	r = rr - 1
	if r == 0 {
		return 0, 0
	}
	return r, r*sectorIndex(l[2]) + kk - 1
}

// Ring returns the 1-based ring number
func (l Location) Ring() int {
	r, _ := l.RingIndex()
	return r + 1
}

func (l Location) String() string {
	return string(l)
}

// Positions returns the number of positions in 0-based ring r
func Positions(r int) int {
	if r == 0 {
		return 1
	}
	return 6 * r
}
