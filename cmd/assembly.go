package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goebr2/internal/assembly"
	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/diagram"
	"github.com/alexiusacademia/goebr2/internal/material"
	"github.com/alexiusacademia/goebr2/internal/section"
)

var (
	assemblyType         string
	assemblyLocation     string
	assemblyMK           string
	assemblyCompositions string
	assemblyShowDiagram  bool
	assemblyExportFile   string
)

var assemblyCmd = &cobra.Command{
	Use:   "assembly",
	Short: "Build one assembly and print its axial sections",
	Long: `Build the assembly of the given type at a core location and list its
axial sections from the bottom up with their z bounds.

Fuelled types read their slug compositions from the compositions
directory. The experimental type is resolved by location.

Types:
  driver, HWD, control, safety, HWCR, blanket, dummy, reflector, blank,
  experimental, X320C, XX09, XX10, XY-16, C2776A, X402A, X412

Examples:
  goebr2 assembly --type driver --location 04A02 --mk MKIIA
  goebr2 assembly -t experimental -l 05C01 --diagram
  goebr2 assembly -t control -l 05A03 -o output/control.svg`,
	RunE: runAssembly,
}

func init() {
	rootCmd.AddCommand(assemblyCmd)

	assemblyCmd.Flags().StringVarP(&assemblyType, "type", "t", "", "Assembly type [required]")
	assemblyCmd.Flags().StringVarP(&assemblyLocation, "location", "l", "", "Location code RRSKK [required]")
	assemblyCmd.MarkFlagRequired("type")
	assemblyCmd.MarkFlagRequired("location")

	assemblyCmd.Flags().StringVar(&assemblyMK, "mk", section.MKII, "Driver variant (MKII or MKIIA)")
	assemblyCmd.Flags().StringVar(&assemblyCompositions, "compositions", "", "Slug composition directory (default from config)")

	// Diagram options
	assemblyCmd.Flags().BoolVar(&assemblyShowDiagram, "diagram", false, "Show ASCII axial profile")
	assemblyCmd.Flags().StringVarP(&assemblyExportFile, "output", "o", "", "Export axial profile to file (png, svg, pdf)")
}

// newFactory builds the material library and assembly factory from the
// loaded config. dir overrides the composition directory.
func newFactory(dir string) (*assembly.Factory, error) {
	if dir == "" {
		dir = cfg.Paths.Compositions
	}
	lib, err := material.NewLibrary(cfg.Core.BulkTemperature)
	if err != nil {
		return nil, err
	}
	return assembly.NewFactory(lib, composition.NewStore(dir), logger)
}

func runAssembly(cmd *cobra.Command, args []string) error {
	loc, err := composition.ParseLocation(assemblyLocation)
	if err != nil {
		return err
	}
	f, err := newFactory(assemblyCompositions)
	if err != nil {
		return err
	}
	a, err := f.BuildTag(assemblyType, loc, assemblyMK)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox("ASSEMBLY", []string{
		fmt.Sprintf("Type         %s", a.TypeName),
		fmt.Sprintf("Location     %s (ring %d)", a.Location, a.Location.Ring()),
		fmt.Sprintf("Sections     %d", len(a.Sections)),
		fmt.Sprintf("Slugs        %d", len(a.SlugSections())),
		fmt.Sprintf("Height       %.4f cm", a.Height()),
	}))
	fmt.Println()

	bounds := a.Bounds()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\tSection\tHeight\tz low\tz high\tMaterial")
	fmt.Fprintln(w, "  ─\t───────\t──────\t─────\t──────\t────────")
	for i, s := range a.Sections {
		fmt.Fprintf(w, "  %d\t%s\t%.4f\t%.4f\t%.4f\t%s\n",
			i+1, s.Name, s.Height, bounds[i][0], bounds[i][1], s.CalculateProperties().Dominant())
	}
	w.Flush()

	if assemblyShowDiagram {
		fmt.Print(diagram.DrawASCIIAxial(a))
	}

	if assemblyExportFile != "" {
		if err := diagram.ExportAxialProfile(a, assemblyExportFile); err != nil {
			return fmt.Errorf("exporting axial profile: %w", err)
		}
		fmt.Printf("\n  Axial profile exported to: %s\n", assemblyExportFile)
	}
	fmt.Println()
	return nil
}
