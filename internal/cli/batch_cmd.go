package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vitrify/igucycle/internal/batch"
	"github.com/vitrify/igucycle/internal/ingest"
	"github.com/vitrify/igucycle/internal/report"
	"github.com/vitrify/igucycle/internal/scenario"
)

// newBatchCmd creates the "batch" subcommand: every pathway for every
// manifest row, written as a CSV or JSON report.
func newBatchCmd() *cobra.Command {
	var (
		manifestPath string
		outPath      string
		format       string
		pathwayNames []string
		concurrency  int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run pathways over every manifest row and write a report",
		Example: `  igucycle batch --manifest project.yaml --out report.csv
  igucycle batch --manifest project.yaml --out report.json --format json
  igucycle batch --manifest project.yaml --pathway closed-loop --pathway landfill --out report.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			manifest, err := ingest.Load(manifestPath)
			if err != nil {
				return err
			}
			rows, err := manifest.Rows()
			if err != nil {
				return err
			}

			pathways := make([]scenario.Pathway, 0, len(pathwayNames))
			for _, name := range pathwayNames {
				p, err := scenario.Parse(name)
				if err != nil {
					return err
				}
				pathways = append(pathways, p)
			}

			showProgress := isTerminal(os.Stderr)
			runner := batch.NewRunner(scenario.New(reg), concurrency)
			if showProgress {
				runner = runner.WithProgress(func(p batch.Progress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d rows", p.Done, p.Total)
				})
			}

			results, err := runner.Run(cmd.Context(), rows, manifest.RoutePlan(), pathways)
			if showProgress {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create report: %w", err)
				}
				defer f.Close()
				out = f
			}

			switch strings.ToLower(format) {
			case "csv":
				err = report.WriteCSV(out, results)
			case "json":
				err = report.WriteJSON(out, results)
			default:
				return fmt.Errorf("unknown report format %q (want csv or json)", format)
			}
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			log := logFromCmd(cmd)
			log.Info().
				Str("component", "cli").
				Int("rows", len(results)).
				Int("failed", failed).
				Str("out", outPath).
				Msg("report written")
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the project manifest (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "report file path (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "csv", "report format: csv or json")
	cmd.Flags().StringArrayVar(&pathwayNames, "pathway", nil, "pathway to include, repeatable (default: all)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "worker count (default: number of CPUs)")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
