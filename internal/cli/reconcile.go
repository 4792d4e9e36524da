package cli

import (
	"fmt"
	"os"

	"github.com/jpickens/crosscheck/internal/model"
	"github.com/jpickens/crosscheck/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outJSON  string
	outMD    string
	outDB    string
	workers  int
	noFooter bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <input.json>",
	Short: "Reconcile normalized records into entity groups",
	Long: `Reconcile groups the normalized records in the input document across
the configured phases (richer, higher-confidence entity types first),
tracks near misses for review, and synthesizes a consensus record for
every group with more than one member.

Example:
  crosscheck reconcile records.json
  crosscheck reconcile records.json --json report.json --md report.md
  crosscheck reconcile records.json --db groups.json --workers 8`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	// Output flags
	reconcileCmd.Flags().StringVar(&outJSON, "json", "report.json", "output report JSON path")
	reconcileCmd.Flags().StringVar(&outMD, "md", "", "output Markdown summary path (optional)")
	reconcileCmd.Flags().StringVar(&outDB, "db", "", "output serialized group database path (optional)")
	reconcileCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Concurrency flags
	reconcileCmd.Flags().IntVar(&workers, "workers", 0, "consensus synthesis workers (0 = config default)")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	// Build configuration from defaults, config file, and flags
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if workers > 0 {
		cfg.Concurrency.SynthesisWorkers = workers
	}

	entities, err := pipeline.LoadInput(inputPath)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Reconciling: %s (%d records)\n", inputPath, len(entities))
		fmt.Fprintf(os.Stderr, "Phases: %d, synthesis workers: %d\n\n", len(cfg.Phases), cfg.Concurrency.SynthesisWorkers)
	}

	p := pipeline.NewPipeline(cfg)
	result, err := p.Run(entities, inputPath)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if outJSON != "" {
		if err := renderer.RenderJSON(result.Report, outJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote report: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result.Report, outMD); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote summary: %s\n", outMD)
		}
	}
	if outDB != "" {
		if err := renderer.RenderDatabase(result.DB, outDB); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote database: %s\n", outDB)
		}
	}

	fmt.Printf("Reconciled %d records into %d groups (%d merged)\n",
		result.Report.Entities, result.Report.Groups, result.Report.Merged)
	return nil
}
