package lattice

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/section"
)

// Layout table columns
const (
	ColumnLocation = "Location"
	ColumnType     = "Type"
	ColumnNumber   = "Number"
)

// TypeNames maps the assembly types of the loading table to canonical
// tags. MKII and MKIIA are driver variants, resolved with the assembly
// number.
var TypeNames = map[string]string{
	"MARKII-2AI":   section.MKII,
	"MARKII-2A":    section.MKIIA,
	"SST":          string(assembly.Dummy),
	"CONTROL":      string(assembly.Control),
	"HWCR":         string(assembly.HWCR),
	"SafetyRod":    string(assembly.Safety),
	"SSR":          string(assembly.Reflector),
	"Blanket":      string(assembly.Blanket),
	"Instr":        string(assembly.Experimental),
	"XETAGS":       string(assembly.Experimental),
	"Experimental": string(assembly.Experimental),
	"EXP":          string(assembly.Experimental),
	"EXP-XE":       string(assembly.Experimental),
}

// HalfWorthDrivers lists the assembly numbers of half-worth drivers
var HalfWorthDrivers = map[int]bool{
	1: true, 2: true, 4: true, 6: true, 9: true, 11: true, 13: true,
	17: true, 66: true, 75: true, 79: true, 90: true, 120: true,
}

// Entry is one row of the loading table
type Entry struct {
	Location composition.Location
	Type     string
	Number   int
}

// Resolve returns the kind and driver variant to build for the entry
func (e Entry) Resolve() (assembly.Kind, string, error) {
	tag, ok := TypeNames[e.Type]
	if !ok {
		return "", "", &assembly.UnknownAssemblyTypeError{Tag: e.Type, Location: e.Location}
	}
	switch {
	case strings.Contains(tag, "MK") && HalfWorthDrivers[e.Number]:
		return assembly.HalfWorth, section.MKII, nil
	case tag == section.MKII || tag == section.MKIIA:
		return assembly.Driver, tag, nil
	}
	k, err := assembly.ParseKind(tag)
	if err != nil {
		return "", "", err
	}
	return k, section.MKII, nil
}

// Layout is the core loading table keyed by location
type Layout struct {
	entries map[composition.Location]Entry
	order   []composition.Location
}

// LoadLayout reads a loading table from a CSV file
func LoadLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer f.Close()

	l, err := ReadLayout(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// ReadLayout parses a loading table with Location, Type and Number
// columns in any order. Extra columns are ignored and an empty Number
// reads as zero.
func ReadLayout(r io.Reader) (*Layout, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty layout table")
	}

	cols := map[string]int{ColumnLocation: -1, ColumnType: -1, ColumnNumber: -1}
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if _, ok := cols[h]; ok {
			cols[h] = i
		}
	}
	for name, i := range cols {
		if i < 0 {
			return nil, fmt.Errorf("layout table has no %s column", name)
		}
	}

	l := &Layout{entries: make(map[composition.Location]Entry)}
	for n, rec := range records[1:] {
		row := n + 2
		field := func(name string) string {
			if i := cols[name]; i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		if field(ColumnLocation) == "" {
			continue
		}
		loc, err := composition.ParseLocation(field(ColumnLocation))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if _, dup := l.entries[loc]; dup {
			return nil, fmt.Errorf("row %d: duplicate location %s", row, loc)
		}
		e := Entry{Location: loc, Type: field(ColumnType)}
		if s := field(ColumnNumber); s != "" {
			// spreadsheet exports write integers as 17.0
			num, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: number %q: %w", row, s, err)
			}
			e.Number = int(num)
		}
		l.entries[loc] = e
		l.order = append(l.order, loc)
	}
	return l, nil
}

// Lookup returns the entry at loc
func (l *Layout) Lookup(loc composition.Location) (Entry, bool) {
	e, ok := l.entries[loc]
	return e, ok
}

// Len returns the number of loaded positions
func (l *Layout) Len() int {
	return len(l.entries)
}

// Entries returns the rows in file order
func (l *Layout) Entries() []Entry {
	out := make([]Entry, len(l.order))
	for i, loc := range l.order {
		out[i] = l.entries[loc]
	}
	return out
}
