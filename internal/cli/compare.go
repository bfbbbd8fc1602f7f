package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vitrify/igucycle/internal/ingest"
	"github.com/vitrify/igucycle/internal/scenario"
	"github.com/vitrify/igucycle/internal/tui"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// newCompareCmd creates the "compare" subcommand: every pathway over one
// manifest row, rendered as a ranking table or an interactive browser.
func newCompareCmd() *cobra.Command {
	var (
		manifestPath string
		rowIndex     int
		interactive  bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare all eleven pathways for one product row",
		Example: `  igucycle compare --manifest project.yaml
  igucycle compare --manifest project.yaml --row 1 --interactive`,
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
			if rowIndex < 0 || rowIndex >= len(rows) {
				return fmt.Errorf("row %d out of range: manifest has %d rows", rowIndex, len(rows))
			}

			engine := scenario.New(reg)
			routes := manifest.RoutePlan()

			results := make([]*scenario.Result, 0, len(scenario.All()))
			for _, p := range scenario.All() {
				res, err := engine.Run(cmd.Context(), scenario.Request{
					Group:   rows[rowIndex].Group,
					Routes:  routes,
					Pathway: p,
				})
				if err != nil {
					return fmt.Errorf("pathway %s: %w", p, err)
				}
				results = append(results, res)
			}

			if interactive && isTerminal(os.Stdout) {
				model := tui.NewCompareModel(rows[rowIndex].Group.Name, results)
				_, err := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout())).Run()
				return err
			}

			renderComparison(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the project manifest (required)")
	cmd.Flags().IntVar(&rowIndex, "row", 0, "zero-based manifest row to compare")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "browse results in an interactive view")
	_ = cmd.MarkFlagRequired("manifest")
	return cmd
}
