package lattice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/material"
	"github.com/alexiusacademia/goebr2/internal/section"
)

const layoutCSV = `Location,Type,Number,Comment
01A01,MARKII-2AI,1.0,centre
02A01,MARKII-2AI,3,
02B01,MARKII-2A,5,
02C01,MARKII-2A,66,
03A01,CONTROL,,
05C01,Experimental,,
08C01,Blanket,200,
14A01,SSR,,
`

type call struct {
	kind assembly.Kind
	loc  composition.Location
	mk   string
}

type recordingFactory struct {
	calls []call
	fail  composition.Location
}

func (f *recordingFactory) Build(k assembly.Kind, loc composition.Location, mk string) (*assembly.Assembly, error) {
	f.calls = append(f.calls, call{k, loc, mk})
	if loc == f.fail {
		return nil, &assembly.LocationNotFoundError{Location: loc, Kind: k, Err: composition.ErrNotFound}
	}
	name := string(k)
	if mk != "" {
		name += "-" + mk
	}
	return &assembly.Assembly{TypeName: name, Kind: k, Location: loc, Variant: mk}, nil
}

func (f *recordingFactory) find(loc composition.Location) (call, bool) {
	for _, c := range f.calls {
		if c.loc == loc {
			return c, true
		}
	}
	return call{}, false
}

func TestReadLayout(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(layoutCSV))
	require.NoError(t, err)
	assert.Equal(t, 8, l.Len())

	e, ok := l.Lookup("01A01")
	require.True(t, ok)
	assert.Equal(t, Entry{Location: "01A01", Type: "MARKII-2AI", Number: 1}, e)

	e, _ = l.Lookup("03A01")
	assert.Zero(t, e.Number)

	entries := l.Entries()
	require.Len(t, entries, 8)
	assert.Equal(t, composition.Location("14A01"), entries[7].Location)
}

func TestReadLayout_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":              "",
		"missing column":     "Location,Type\n01A01,SST\n",
		"bad location":       "Location,Type,Number\n17A01,SST,1\n",
		"duplicate location": "Location,Type,Number\n02A01,SST,1\n02A01,SSR,2\n",
		"bad number":         "Location,Type,Number\n02A01,SST,x\n",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadLayout(strings.NewReader(text))
			assert.Error(t, err)
		})
	}
}

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.csv")
	require.NoError(t, os.WriteFile(path, []byte(layoutCSV), 0o644))
	l, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, 8, l.Len())

	_, err = LoadLayout(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEntry_Resolve(t *testing.T) {
	tests := []struct {
		entry Entry
		kind  assembly.Kind
		mk    string
	}{
		{Entry{Type: "MARKII-2AI", Number: 3}, assembly.Driver, section.MKII},
		{Entry{Type: "MARKII-2A", Number: 5}, assembly.Driver, section.MKIIA},
		{Entry{Type: "MARKII-2AI", Number: 1}, assembly.HalfWorth, section.MKII},
		{Entry{Type: "MARKII-2A", Number: 120}, assembly.HalfWorth, section.MKII},
		{Entry{Type: "SST"}, assembly.Dummy, section.MKII},
		{Entry{Type: "CONTROL", Number: 1}, assembly.Control, section.MKII},
		{Entry{Type: "SafetyRod"}, assembly.Safety, section.MKII},
		{Entry{Type: "XETAGS"}, assembly.Experimental, section.MKII},
		{Entry{Type: "EXP-XE"}, assembly.Experimental, section.MKII},
	}
	for _, tt := range tests {
		k, mk, err := tt.entry.Resolve()
		require.NoError(t, err, tt.entry.Type)
		assert.Equal(t, tt.kind, k, "%+v", tt.entry)
		assert.Equal(t, tt.mk, mk, "%+v", tt.entry)
	}

	_, _, err := Entry{Location: "05A01", Type: "Fuel"}.Resolve()
	var unknown *assembly.UnknownAssemblyTypeError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Fuel", unknown.Tag)
}

func TestBuilder_Build(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(layoutCSV))
	require.NoError(t, err)
	f := &recordingFactory{}

	lat, err := NewBuilder(l, f, section.LatticeCell, nil).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, lat.Rings, composition.Rings)
	assert.Len(t, lat.Rings[0], 1)
	assert.Len(t, lat.Rings[15], 90)
	assert.Len(t, lat.Assemblies(), 1+3*16*15)
	assert.Len(t, f.calls, 1+3*16*15)

	tests := map[composition.Location]call{
		"01A01": {assembly.HalfWorth, "01A01", section.MKII},
		"02A01": {assembly.Driver, "02A01", section.MKII},
		"02B01": {assembly.Driver, "02B01", section.MKIIA},
		"02C01": {assembly.HalfWorth, "02C01", section.MKII},
		"03A01": {assembly.Control, "03A01", section.MKII},
		"05C01": {assembly.Experimental, "05C01", section.MKII},
		"16F15": {assembly.Blank, "16F15", ""},
	}
	for loc, want := range tests {
		got, ok := f.find(loc)
		require.True(t, ok, loc)
		assert.Equal(t, want, got, loc)
	}

	assert.Equal(t, "driver-MKIIA", lat.At("02B01").TypeName)
	assert.Nil(t, lat.At("bogus"))

	counts := lat.Count()
	assert.Equal(t, TypeCount{TypeName: "blank", Count: 1 + 3*16*15 - 8}, counts[0])
}

func TestBuilder_Errors(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(layoutCSV))
	require.NoError(t, err)

	_, err = NewBuilder(l, &recordingFactory{fail: "08C01"}, 0, nil).Build(context.Background())
	var notFound *assembly.LocationNotFoundError
	assert.True(t, errors.As(err, &notFound))

	bad, err := ReadLayout(strings.NewReader("Location,Type,Number\n02A01,Fuel,1\n"))
	require.NoError(t, err)
	_, err = NewBuilder(bad, &recordingFactory{}, 0, nil).Build(context.Background())
	var unknown *assembly.UnknownAssemblyTypeError
	assert.True(t, errors.As(err, &unknown))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewBuilder(l, &recordingFactory{}, 0, nil).Build(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_WithFactory(t *testing.T) {
	root := t.TempDir()
	slugs := "ZAIDS,S1,S2,S3\n92235,1e-3,1e-3,1e-3\n92238,2e-2,2e-2,2e-2\n"
	for _, p := range []string{"Driver/02A01.csv", "Driver/02B01.csv", "HWD/01A01.csv", "HWD/02C01.csv", "Control/03A01.csv", "Blanket/08C01.csv"} {
		path := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(slugs), 0o644))
	}

	lib, err := material.NewLibrary(0)
	require.NoError(t, err)
	f, err := assembly.NewFactory(lib, composition.NewStore(root), nil)
	require.NoError(t, err)
	l, err := ReadLayout(strings.NewReader(layoutCSV))
	require.NoError(t, err)

	lat, err := NewBuilder(l, f, section.LatticeCell, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HWD-MKII", lat.At("01A01").TypeName)
	assert.Equal(t, "XX10", lat.At("05C01").TypeName)
	assert.Equal(t, "blank", lat.At("16A01").TypeName)
}

func TestBuilder_WithRings(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(layoutCSV))
	require.NoError(t, err)
	f := &recordingFactory{}

	lat, err := NewBuilder(l, f, 0, nil).WithRings(3).Build(context.Background())
	require.NoError(t, err)
	assert.Len(t, lat.Rings, 3)
	assert.Len(t, f.calls, 1+6+12)
	assert.Nil(t, lat.At("05C01"))
}
