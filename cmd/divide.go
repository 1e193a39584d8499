package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/goebr2/internal/deck"
	"github.com/alexiusacademia/goebr2/internal/diagram"
)

var (
	divideJob     string
	divideCard    string
	divideBatch   int
	divideOutput  string
	divideScripts string
	divideWorkers int
)

var divideCmd = &cobra.Command{
	Use:   "divide",
	Short: "Split an input card into batch cards",
	Long: `Split the GEOMETRY records of an input card into batches of a fixed
size and write one self-contained card per batch.

Each batch card keeps the header, CONTROL block and MATERIAL block of
the source card. n_mat and geom_kind are rewritten for the batch and every
mat<N> reference is renumbered from mat1. Batches are written to
<output>/<job>/mat<start>-<end>/ as TPmate.inp plus info.txt.

When a scripts directory is given, the job submission templates are
copied into every batch with @JOB_NAME and @MAT_ID substituted.

Examples:
  goebr2 divide --job core --card TPmate.inp --batch 50
  goebr2 divide -j core -c TPmate.inp -b 100 --scripts templates --workers 8`,
	RunE: runDivide,
}

func init() {
	rootCmd.AddCommand(divideCmd)

	divideCmd.Flags().StringVarP(&divideJob, "job", "j", "", "Job name [required]")
	divideCmd.Flags().StringVarP(&divideCard, "card", "c", "", "Path to the input card [required]")
	divideCmd.Flags().IntVarP(&divideBatch, "batch", "b", 0, "Geometry records per batch (default from config)")
	divideCmd.MarkFlagRequired("job")
	divideCmd.MarkFlagRequired("card")

	divideCmd.Flags().StringVarP(&divideOutput, "output", "o", "", "Output root directory (default from config)")
	divideCmd.Flags().StringVar(&divideScripts, "scripts", "", "Directory of job script templates")
	divideCmd.Flags().IntVar(&divideWorkers, "workers", 0, "Concurrent batch writes (default from config)")
}

func runDivide(cmd *cobra.Command, args []string) error {
	batch := cfg.Divide.BatchSize
	if divideBatch != 0 {
		batch = divideBatch
	}
	output := cfg.Paths.Output
	if divideOutput != "" {
		output = divideOutput
	}
	workers := cfg.Divide.Workers
	if divideWorkers > 0 {
		workers = divideWorkers
	}
	scriptsDir := cfg.Divide.ScriptsDir
	if divideScripts != "" {
		scriptsDir = divideScripts
	}

	var scripts *deck.Scripts
	if scriptsDir != "" {
		var err error
		scripts, err = deck.LoadScripts(scriptsDir, cfg.Divide.ScriptFiles)
		if err != nil {
			return err
		}
	}

	d := deck.NewDivider(deck.Options{Output: output, Workers: workers, Scripts: scripts}, logger)
	res, err := d.Divide(cmd.Context(), divideJob, divideCard, batch)
	if res != nil {
		printDivideResult(res)
	}
	return err
}

func printDivideResult(res *deck.Result) {
	fmt.Println()
	fmt.Print(diagram.DrawSummaryBox("INPUT CARD DIVISION", []string{
		fmt.Sprintf("Job              %s", res.Job),
		fmt.Sprintf("Run ID           %s", res.RunID),
		fmt.Sprintf("Geometry records %d", res.Plan.Total),
		fmt.Sprintf("Batch size       %d", res.Plan.Size),
		fmt.Sprintf("Batches          %d", len(res.Plan.Batches)),
	}))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  Batch\tStart\tEnd\tRecords\tgeom_kind\tDirectory")
	fmt.Fprintln(w, "  ─────\t─────\t───\t───────\t─────────\t─────────")
	for i, b := range res.Plan.Batches {
		dir := res.Dirs[i]
		if dir == "" {
			dir = "(failed)"
		}
		fmt.Fprintf(w, "  %d\t%d\t%d\t%d\t%s\t%s\n", b.Index+1, b.StartID, b.EndID, b.Len(), b.Kinds, dir)
	}
	w.Flush()
	fmt.Println()
}
