package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/lattice"
)

// kindColors colours assemblies in the radial map
var kindColors = map[assembly.Kind]color.RGBA{
	assembly.Driver:    {R: 220, G: 60, B: 50, A: 255},
	assembly.HalfWorth: {R: 240, G: 150, B: 120, A: 255},
	assembly.Control:   {R: 40, G: 90, B: 200, A: 255},
	assembly.Safety:    {R: 110, G: 170, B: 240, A: 255},
	assembly.HWCR:      {R: 20, G: 40, B: 120, A: 255},
	assembly.Blanket:   {R: 240, G: 200, B: 60, A: 255},
	assembly.Dummy:     {R: 150, G: 150, B: 150, A: 255},
	assembly.Reflector: {R: 90, G: 90, B: 90, A: 255},
	assembly.Blank:     {R: 235, G: 245, B: 255, A: 255},
}

// experimentColor covers every experimental assembly
var experimentColor = color.RGBA{R: 60, G: 170, B: 90, A: 255}

func colorOf(k assembly.Kind) color.RGBA {
	if c, ok := kindColors[k]; ok {
		return c
	}
	return experimentColor
}

// HexCenter returns the centre of position k of ring r for assemblies
// spaced pitch apart. Sector A starts at the top and sectors run
// counterclockwise.
func HexCenter(r, k int, pitch float64) (x, y float64) {
	if r == 0 {
		return 0, 0
	}
	// sector order C, D, E, F, A, B puts A at index 4
	s, j := k/r, k%r
	a0 := math.Pi/2 + float64(s-4)*math.Pi/3
	a1 := a0 + math.Pi/3
	x0, y0 := float64(r)*math.Cos(a0), float64(r)*math.Sin(a0)
	x1, y1 := float64(r)*math.Cos(a1), float64(r)*math.Sin(a1)
	t := float64(j) / float64(r)
	return pitch * (x0 + t*(x1-x0)), pitch * (y0 + t*(y1-y0))
}

// hexagon returns the outline of a cell with flat-to-flat size flat
func hexagon(cx, cy, flat float64) plotter.XYs {
	rad := flat / math.Sqrt(3)
	pts := make(plotter.XYs, 6)
	for i := range pts {
		a := math.Pi/6 + float64(i)*math.Pi/3
		pts[i] = plotter.XY{X: cx + rad*math.Cos(a), Y: cy + rad*math.Sin(a)}
	}
	return pts
}

// RadialOptions tweaks the radial map
type RadialOptions struct {
	Title  string
	Labels bool // print location codes inside non-blank cells
}

// ExportRadialMap exports the core map, one hexagon per position coloured
// by assembly kind
func ExportRadialMap(lat *lattice.Lattice, filename string, opts RadialOptions) error {
	if lat == nil || len(lat.Rings) == 0 {
		return fmt.Errorf("radial map: empty lattice")
	}
	pitch := lat.Pitch
	if pitch <= 0 {
		pitch = 1
	}

	p := plot.New()
	p.Title.Text = opts.Title
	if p.Title.Text == "" {
		p.Title.Text = "Core Radial Layout"
	}
	p.X.Label.Text = "x (cm)"
	p.Y.Label.Text = "y (cm)"
	p.Legend.Top = true

	legend := make(map[string]plot.Thumbnailer)
	var labelPts []plotter.XY
	var labelText []string

	for r, ring := range lat.Rings {
		for k, a := range ring {
			if a == nil {
				continue
			}
			cx, cy := HexCenter(r, k, pitch)
			poly, err := plotter.NewPolygon(hexagon(cx, cy, pitch))
			if err != nil {
				return err
			}
			poly.Color = colorOf(a.Kind)
			poly.LineStyle.Width = vg.Points(0.3)
			poly.LineStyle.Color = color.Gray{Y: 80}
			p.Add(poly)

			if _, ok := legend[a.TypeName]; !ok {
				legend[a.TypeName] = poly
			}
			if opts.Labels && a.Kind != assembly.Blank {
				labelPts = append(labelPts, plotter.XY{X: cx, Y: cy})
				labelText = append(labelText, string(a.Location))
			}
		}
	}

	names := make([]string, 0, len(legend))
	for name := range legend {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Legend.Add(name, legend[name])
	}

	if len(labelPts) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPts, Labels: labelText})
		if err != nil {
			return err
		}
		for i := range labels.TextStyle {
			labels.TextStyle[i].Font.Size = vg.Points(3)
			labels.TextStyle[i].XAlign = draw.XCenter
			labels.TextStyle[i].YAlign = draw.YCenter
		}
		p.Add(labels)
	}

	extent := float64(len(lat.Rings)) * pitch
	p.X.Min, p.X.Max = -extent, extent
	p.Y.Min, p.Y.Max = -extent, extent

	return save(p, 10*vg.Inch, 10*vg.Inch, filename)
}

// ExportAxialProfile exports the section stack of one assembly. Each
// section is a bar as wide as its outer region, coloured by its dominant
// material.
func ExportAxialProfile(a *assembly.Assembly, filename string) error {
	if a == nil || len(a.Sections) == 0 {
		return fmt.Errorf("axial profile: empty assembly")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s at %s", a.TypeName, a.Location)
	p.X.Label.Text = "Flat-to-flat (cm)"
	p.Y.Label.Text = "z (cm)"

	palette := materialPalette()
	matColors := make(map[string]color.Color)
	var matOrder []string
	legend := make(map[string]plot.Thumbnailer)

	bounds := a.Bounds()
	var names []string
	var namePts []plotter.XY
	maxWidth := 0.0
	for i, s := range a.Sections {
		width := s.OuterSize()
		maxWidth = max(maxWidth, width)
		lo, hi := bounds[i][0], bounds[i][1]
		if hi <= lo {
			continue
		}

		dominant := s.CalculateProperties().Dominant()
		c, ok := matColors[dominant]
		if !ok {
			c = palette[len(matColors)%len(palette)]
			matColors[dominant] = c
			matOrder = append(matOrder, dominant)
		}

		poly, err := plotter.NewPolygon(plotter.XYs{
			{X: 0, Y: lo}, {X: width, Y: lo}, {X: width, Y: hi}, {X: 0, Y: hi},
		})
		if err != nil {
			return err
		}
		poly.Color = c
		poly.LineStyle.Width = vg.Points(0.5)
		poly.LineStyle.Color = color.Black
		p.Add(poly)
		if _, ok := legend[dominant]; !ok {
			legend[dominant] = poly
		}

		names = append(names, s.Name)
		namePts = append(namePts, plotter.XY{X: width, Y: (lo + hi) / 2})
	}
	for _, name := range matOrder {
		p.Legend.Add(name, legend[name])
	}

	// Reference plane
	ref := a.RefPlane.Z
	refLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: ref}, {X: maxWidth * 1.1, Y: ref}})
	if err != nil {
		return err
	}
	refLine.LineStyle.Width = vg.Points(1)
	refLine.LineStyle.Color = color.RGBA{R: 255, A: 255}
	refLine.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	p.Add(refLine)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: namePts, Labels: names})
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Size = vg.Points(6)
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	labels.Offset = vg.Point{X: vg.Points(4)}
	p.Add(labels)

	p.X.Min = 0
	p.X.Max = maxWidth * 3

	return save(p, 8*vg.Inch, 12*vg.Inch, filename)
}

// materialPalette is a small qualitative palette for materials
func materialPalette() []color.Color {
	return []color.Color{
		color.RGBA{R: 100, G: 149, B: 237, A: 255},
		color.RGBA{R: 139, G: 69, B: 19, A: 255},
		color.RGBA{R: 255, G: 165, B: 0, A: 255},
		color.RGBA{R: 0, G: 100, B: 0, A: 255},
		color.RGBA{R: 178, G: 34, B: 34, A: 255},
		color.RGBA{R: 128, G: 0, B: 128, A: 255},
		color.RGBA{R: 192, G: 192, B: 192, A: 255},
		color.RGBA{R: 0, G: 128, B: 128, A: 255},
	}
}

// save writes the plot in the format given by the file extension. Files
// without a known extension get .png appended.
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}

// Center returns the centre of loc on the radial map
func Center(loc composition.Location, pitch float64) (x, y float64) {
	r, k := loc.RingIndex()
	return HexCenter(r, k, pitch)
}
