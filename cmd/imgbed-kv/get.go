package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errKeyNotFound = errors.New("key not found")

func newGetCmd(c *cli) *cobra.Command {
	var out outputFlags
	var withMeta bool

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Read the value stored under a key",
		Long: `Read the value stored under a key. Files print their payload, settings and
operations print as JSON. Use --meta to include file metadata.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}

			entry, err := svc.GetWithMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("%w: %s", errKeyNotFound, args[0])
			}

			if withMeta || out.structured() {
				return out.write(cmd.OutOrStdout(), entry)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(entry.Value))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withMeta, "meta", false, "Print value and metadata as JSON")
	cmd.Flags().BoolVar(&out.json, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&out.yaml, "yaml", false, "Output in YAML format")
	return cmd
}
