// Package cli wires the igucycle command tree: single runs, pathway
// comparison, batch analysis and parameter catalog management.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitrify/igucycle/internal/logging"
	"github.com/vitrify/igucycle/internal/params"
)

// NewRootCmd creates the root Cobra command for the igucycle CLI.
func NewRootCmd(ver string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "igucycle",
		Short:   "Carbon footprint of IGU end-of-life pathways",
		Long:    "igucycle: compare the kgCO2e footprint of recovering insulating glass units\nacross reuse, repurposing, recycling and landfill pathways.",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := "info"
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				level = "debug"
			}
			logger := logging.New(logging.Config{
				Level: level,
				Out:   cmd.ErrOrStderr(),
			})
			cmd.SetContext(logging.WithContext(cmd.Context(), logger))
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("params", "", "path to a parameter catalog file (default: built-in catalog)")

	cmd.AddCommand(newRunCmd(), newCompareCmd(), newBatchCmd(), newParamsCmd(), newPathwaysCmd())
	return cmd
}

const rootCmdExample = `  # Compare all eleven pathways for the first product in a manifest
  igucycle compare --manifest project.yaml

  # Run one pathway for one product row
  igucycle run --manifest project.yaml --pathway closed-loop --row 2

  # Batch analysis over every row and pathway, CSV report
  igucycle batch --manifest project.yaml --out report.csv

  # Write the default parameter catalog for editing
  igucycle params init --out parameters.yaml`

// loadRegistry builds the parameter registry from --params or the built-in
// catalog. A broken or incomplete file aborts before any calculation runs.
func loadRegistry(cmd *cobra.Command) (*params.Registry, error) {
	path, _ := cmd.Flags().GetString("params")
	if path == "" {
		return params.DefaultRegistry(), nil
	}
	reg, err := params.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parameter catalog: %w", err)
	}
	logFromCmd(cmd).Debug().Str("params", path).Msg("loaded parameter catalog")
	return reg, nil
}

// logFromCmd returns the context logger for a command.
func logFromCmd(cmd *cobra.Command) *zerolog.Logger {
	return logging.FromContext(cmd.Context())
}
