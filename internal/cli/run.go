package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitrify/igucycle/internal/ingest"
	"github.com/vitrify/igucycle/internal/scenario"
)

// newRunCmd creates the "run" subcommand: one pathway over one manifest row.
func newRunCmd() *cobra.Command {
	var (
		manifestPath string
		pathwayName  string
		rowIndex     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one end-of-life pathway for one product row",
		Example: `  igucycle run --manifest project.yaml --pathway landfill
  igucycle run --manifest project.yaml --pathway closed-loop --row 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pathway, err := scenario.Parse(pathwayName)
			if err != nil {
				return err
			}

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
			res, err := engine.Run(cmd.Context(), scenario.Request{
				Group:   rows[rowIndex].Group,
				Routes:  manifest.RoutePlan(),
				Pathway: pathway,
			})
			if err != nil {
				return err
			}

			renderResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to the project manifest (required)")
	cmd.Flags().StringVar(&pathwayName, "pathway", "", "pathway identifier, see 'igucycle pathways' (required)")
	cmd.Flags().IntVar(&rowIndex, "row", 0, "zero-based manifest row to run")
	_ = cmd.MarkFlagRequired("manifest")
	_ = cmd.MarkFlagRequired("pathway")
	return cmd
}

// newPathwaysCmd creates the "pathways" subcommand listing the identifiers.
func newPathwaysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pathways",
		Short: "List the eleven end-of-life pathway identifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, p := range scenario.All() {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-22s %s\n", p.String(), p.Title())
			}
			return nil
		},
	}
}
