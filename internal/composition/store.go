package composition

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no composition file exists for a location
var ErrNotFound = errors.New("composition file not found")

// IDColumn is the header of the nuclide id column
const IDColumn = "ZAIDS"

// Slug is the composition of one fuel slug of an assembly
type Slug struct {
	Name      string
	IDs       []string
	Densities []float64 // atoms/(barn*cm)
}

// Entry pairs a location with the type directory its file sits in
type Entry struct {
	Location Location
	Type     string
	Path     string
}

// Store reads per-assembly composition files from a directory tree. Each
// file is named after its location (e.g. 04A02.csv) and holds a ZAIDS
// column followed by one density column per slug (S1, S2, ...).
type Store struct {
	root string
}

// NewStore returns a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the dataset directory
func (s *Store) Root() string {
	return s.root
}

// Find returns the path of the composition file of loc
func (s *Store) Find(loc Location) (string, error) {
	var found string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCSV(d.Name()) {
			return nil
		}
		if strings.Contains(d.Name(), string(loc)) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s: %w", ErrNotFound, loc, err)
	}
	if err != nil {
		return "", fmt.Errorf("composition %s: %w", loc, err)
	}
	if found == "" {
		return "", fmt.Errorf("%w: %s under %s", ErrNotFound, loc, s.root)
	}
	return found, nil
}

// Get reads the slug compositions of loc
func (s *Store) Get(loc Location) ([]Slug, error) {
	path, err := s.Find(loc)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	slugs, err := ReadSlugs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return slugs, nil
}

// ReadSlugs parses a composition table
func ReadSlugs(r io.Reader) ([]Slug, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty composition table")
	}

	header := records[0]
	idCol := -1
	for i, h := range header {
		if strings.TrimSpace(h) == IDColumn {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("composition table has no %s column", IDColumn)
	}

	var slugs []Slug
	var cols []int
	for i, h := range header {
		if i == idCol {
			continue
		}
		slugs = append(slugs, Slug{Name: strings.TrimSpace(h)})
		cols = append(cols, i)
	}
	if len(slugs) == 0 {
		return nil, errors.New("composition table has no slug columns")
	}

	for line, rec := range records[1:] {
		id := strings.TrimSpace(rec[idCol])
		if id == "" {
			continue
		}
		for j, c := range cols {
			d, err := strconv.ParseFloat(strings.TrimSpace(rec[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", line+2, slugs[j].Name, err)
			}
			slugs[j].IDs = append(slugs[j].IDs, id)
			slugs[j].Densities = append(slugs[j].Densities, d)
		}
	}
	return slugs, nil
}

// All lists every composition file with the type directory it sits in,
// sorted by location
func (s *Store) All() ([]Entry, error) {
	var out []Entry
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isCSV(d.Name()) {
			return nil
		}
		name := d.Name()
		out = append(out, Entry{
			Location: Location(strings.SplitN(name, ".", 2)[0]),
			Type:     filepath.Base(filepath.Dir(path)),
			Path:     path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

func isCSV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}
