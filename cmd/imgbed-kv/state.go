package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStateCmd(c *cli) *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the state of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}

			if !out.json {
				out.yaml = true
			}
			return out.write(cmd.OutOrStdout(), svc.State())
		},
	}

	cmd.Flags().BoolVar(&out.json, "json", false, "Output in JSON format (default YAML)")
	return cmd
}
