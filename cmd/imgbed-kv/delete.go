package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [key...]",
		Short: "Delete keys from the store",
		Long:  `Delete removes the given keys. Keys that do not exist are ignored.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}

			for _, key := range args {
				if err := svc.Delete(cmd.Context(), key); err != nil {
					return fmt.Errorf("failed to delete %s: %w", key, err)
				}
				c.logger.Info("deleted", "key", key)
			}
			return nil
		},
	}
}
