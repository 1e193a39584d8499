package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goebr2/internal/composition"
	"github.com/alexiusacademia/goebr2/internal/diagram"
)

var (
	locationList         bool
	locationCompositions string
)

var locationCmd = &cobra.Command{
	Use:   "location [RRSKK | RING POSITION]",
	Short: "Convert between location codes and ring coordinates",
	Long: `Convert a location code to its ring and position, or a ring and
position (both 1-based) to the location code.

With --list, print every composition file of the dataset with the type
directory it sits in.

Examples:
  goebr2 location 05C03
  goebr2 location 5 11
  goebr2 location --list --compositions data`,
	Args: func(cmd *cobra.Command, args []string) error {
		if locationList {
			return nil
		}
		if len(args) < 1 || len(args) > 2 {
			return errors.New("expected a location code or a ring and position")
		}
		return nil
	},
	RunE: runLocation,
}

func init() {
	rootCmd.AddCommand(locationCmd)

	locationCmd.Flags().BoolVar(&locationList, "list", false, "List the composition dataset")
	locationCmd.Flags().StringVar(&locationCompositions, "compositions", "", "Slug composition directory (default from config)")
}

func runLocation(cmd *cobra.Command, args []string) error {
	if locationList {
		return listCompositions()
	}

	var loc composition.Location
	if len(args) == 1 {
		var err error
		loc, err = composition.ParseLocation(args[0])
		if err != nil {
			return err
		}
	} else {
		ring, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("ring %q: %w", args[0], err)
		}
		pos, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("position %q: %w", args[1], err)
		}
		loc, err = composition.FromRingIndex(ring-1, pos-1)
		if err != nil {
			return err
		}
	}

	r, k := loc.RingIndex()
	x, y := diagram.Center(loc, cfg.Core.Pitch)
	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox("LOCATION "+loc.String(), []string{
		fmt.Sprintf("Ring         %d", r+1),
		fmt.Sprintf("Position     %d of %d", k+1, composition.Positions(r)),
		fmt.Sprintf("Centre       (%.4f, %.4f) cm", x, y),
	}))
	fmt.Println()
	return nil
}

func listCompositions() error {
	dir := cfg.Paths.Compositions
	if locationCompositions != "" {
		dir = locationCompositions
	}
	entries, err := composition.NewStore(dir).All()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Location\tType\tFile")
	fmt.Fprintln(w, "  ────────\t────\t────")
	for _, e := range entries {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", e.Location, e.Type, e.Path)
	}
	w.Flush()
	fmt.Printf("\n  %d composition files under %s\n", len(entries), dir)
	return nil
}
