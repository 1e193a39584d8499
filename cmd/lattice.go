package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goebr2/internal/diagram"
	"github.com/alexiusacademia/goebr2/internal/lattice"
)

var (
	latticeLayout       string
	latticeCompositions string
	latticeRings        int
	latticeShowDiagram  bool
	latticeExportFile   string
	latticeLabels       bool
)

var latticeCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Build the core lattice from the loading table",
	Long: `Build every assembly of the core ring by ring from the loading table.

The loading table is a CSV file with Location, Type and Number columns.
Positions missing from the table hold blank assemblies, MK drivers with
a half-worth number become HWD, and experimental positions are resolved
by location. The run stops at the first position that cannot be built.

Examples:
  goebr2 lattice --layout assembLocations.csv --compositions data
  goebr2 lattice --diagram
  goebr2 lattice -o output/radial.svg --labels`,
	RunE: runLattice,
}

func init() {
	rootCmd.AddCommand(latticeCmd)

	latticeCmd.Flags().StringVar(&latticeLayout, "layout", "", "Loading table CSV (default from config)")
	latticeCmd.Flags().StringVar(&latticeCompositions, "compositions", "", "Slug composition directory (default from config)")
	latticeCmd.Flags().IntVar(&latticeRings, "rings", 0, "Build only the innermost rings (default from config)")

	// Diagram options
	latticeCmd.Flags().BoolVar(&latticeShowDiagram, "diagram", false, "Show ASCII ring map")
	latticeCmd.Flags().StringVarP(&latticeExportFile, "output", "o", "", "Export radial map to file (png, svg, pdf)")
	latticeCmd.Flags().BoolVar(&latticeLabels, "labels", false, "Print location codes on the radial map")
}

func runLattice(cmd *cobra.Command, args []string) error {
	layoutPath := cfg.Paths.Layout
	if latticeLayout != "" {
		layoutPath = latticeLayout
	}
	rings := cfg.Core.Rings
	if latticeRings > 0 {
		rings = latticeRings
	}

	layout, err := lattice.LoadLayout(layoutPath)
	if err != nil {
		return err
	}
	f, err := newFactory(latticeCompositions)
	if err != nil {
		return err
	}

	lat, err := lattice.NewBuilder(layout, f, cfg.Core.Pitch, logger).
		WithRings(rings).
		Build(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Print(diagram.DrawTypeCounts(lat))

	if latticeShowDiagram {
		fmt.Print(diagram.DrawASCIIRings(lat))
	}

	if latticeExportFile != "" {
		opts := diagram.RadialOptions{Title: "EBR-II Core", Labels: latticeLabels}
		if err := diagram.ExportRadialMap(lat, latticeExportFile, opts); err != nil {
			return fmt.Errorf("exporting radial map: %w", err)
		}
		fmt.Printf("\n  Radial map exported to: %s\n", latticeExportFile)
	}
	fmt.Println()
	return nil
}
