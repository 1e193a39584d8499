package deck

import (
	"fmt"
	"os"
	"strings"
)

// Section markers of the input card, in the order they must appear
const (
	MarkerControl  = "CONTROL:"
	MarkerGeometry = "GEOMETRY:"
	MarkerMaterial = "MATERIAL:"
)

const (
	// KeywordWidth is the column where control values start
	KeywordWidth = 22

	// CommentMarker flags a control line as a comment
	CommentMarker = "!"

	// GeometrySeparator separates geometry records (two blank lines)
	GeometrySeparator = "\n\n\n"

	// Control keys rewritten for every batch
	KeyMaterialCount = "n_mat"
	KeyGeometryKind  = "geom_kind"
)

// Deck is a parsed input card
type Deck struct {
	Header   string
	Control  *Control
	Geometry []string
	Material string
}

// ReadFile reads and parses the deck at path
func ReadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse splits card text into header, control block, geometry records and
// the material blob. Each marker must appear exactly once, in order.
func Parse(text string) (*Deck, error) {
	markers := []string{MarkerControl, MarkerGeometry, MarkerMaterial}
	idx := make([]int, len(markers))
	for i, m := range markers {
		switch n := strings.Count(text, m); {
		case n == 0:
			return nil, &MalformedDeckError{Marker: m, Reason: "is missing"}
		case n > 1:
			return nil, &MalformedDeckError{Marker: m, Reason: fmt.Sprintf("appears %d times", n)}
		}
		idx[i] = strings.Index(text, m)
		if i > 0 && idx[i] < idx[i-1] {
			return nil, &MalformedDeckError{Marker: m, Reason: "is out of order"}
		}
	}

	header := text[:idx[0]]
	control := text[idx[0]+len(MarkerControl) : idx[1]]
	geometry := text[idx[1]+len(MarkerGeometry) : idx[2]]
	material := text[idx[2]+len(MarkerMaterial):]

	return &Deck{
		Header:   header,
		Control:  ParseControl(control),
		Geometry: SplitGeometry(geometry),
		Material: material,
	}, nil
}

// SplitGeometry splits geometry text into records. Records are kept verbatim.
func SplitGeometry(text string) []string {
	return strings.Split(text, GeometrySeparator)
}

// Control is the keyword/value mapping of the CONTROL block.
// Keys keep their insertion order.
type Control struct {
	keys   []string
	values map[string]string
}

// NewControl returns an empty control block
func NewControl() *Control {
	return &Control{values: make(map[string]string)}
}

// ParseControl reads keyword/value lines. Blank lines, comment lines and
// lines without a space are skipped.
func ParseControl(text string) *Control {
	c := NewControl()
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, " ") || strings.Contains(line, CommentMarker) {
			continue
		}
		keyword, value := line, ""
		if len(line) > KeywordWidth {
			keyword, value = line[:KeywordWidth], line[KeywordWidth:]
		}
		keyword = strings.TrimRight(keyword, " ")
		if keyword == "" {
			continue
		}
		c.Set(keyword, value)
	}
	return c
}

// Get returns the raw value stored for key
func (c *Control) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (c *Control) Set(key, value string) {
	if _, ok := c.values[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Keys returns the keys in insertion order
func (c *Control) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of keys
func (c *Control) Len() int {
	return len(c.keys)
}

// Clone returns an independent copy
func (c *Control) Clone() *Control {
	out := &Control{
		keys:   append([]string(nil), c.keys...),
		values: make(map[string]string, len(c.values)),
	}
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}

// Map returns the mapping as a plain map
func (c *Control) Map() map[string]string {
	out := make(map[string]string, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// String renders the block with keywords padded to KeywordWidth
func (c *Control) String() string {
	lines := make([]string, 0, len(c.keys))
	for _, k := range c.keys {
		lines = append(lines, fmt.Sprintf("%-*s%s", KeywordWidth, k, c.values[k]))
	}
	return strings.Join(lines, "\n")
}
