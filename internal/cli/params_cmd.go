package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vitrify/igucycle/internal/params"
)

// newParamsCmd creates the "params" command group for inspecting and
// bootstrapping parameter catalogs.
func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect and bootstrap parameter catalogs",
	}
	cmd.AddCommand(newParamsInitCmd(), newParamsShowCmd(), newParamsValidateCmd())
	return cmd
}

// newParamsInitCmd writes the built-in catalog to a file for editing.
func newParamsInitCmd() *cobra.Command {
	var (
		outPath string
		force   bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write the built-in parameter catalog to a file",
		Example: `  igucycle params init --out parameters.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(outPath); err == nil {
					return fmt.Errorf("%s already exists, use --force to overwrite", outPath)
				}
			}

			data, err := yaml.Marshal(params.Default())
			if err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "parameters.yaml", "catalog file to write")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// newParamsShowCmd lists the effective parameter values.
func newParamsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the effective parameter values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := loadRegistry(cmd)
			if err != nil {
				return err
			}

			section := ""
			for _, key := range reg.Keys() {
				p, err := reg.Lookup(key)
				if err != nil {
					return err
				}
				if p.Section != section {
					section = p.Section
					fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(section))
				}
				line := fmt.Sprintf("  %-40s %-12v %s", p.Key, p.Value, p.Unit)
				fmt.Fprintln(cmd.OutOrStdout(), line)
				if p.Description != "" {
					fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render("      "+p.Description))
				}
			}
			return nil
		},
	}
}

// newParamsValidateCmd checks a parameter file without running anything.
func newParamsValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <file>",
		Short:   "Validate a parameter catalog file",
		Args:    cobra.ExactArgs(1),
		Example: `  igucycle params validate parameters.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := params.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d parameters)\n", args[0], len(reg.Keys()))
			return nil
		},
	}
}
