package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func newOpsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Manage the queue of index operations",
	}
	cmd.AddCommand(
		newOpsListCmd(c),
		newOpsEnqueueCmd(c),
		newOpsAckCmd(c),
		newOpsPurgeCmd(c),
	)
	return cmd
}

func newOpsListCmd(c *cli) *cobra.Command {
	var out outputFlags
	var limit int
	var pending, processed bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued operations in timestamp order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pending && processed {
				return fmt.Errorf("--pending and --processed are mutually exclusive")
			}

			opts := core.OperationListOptions{Limit: limit}
			if pending || processed {
				opts.Processed = &processed
			}

			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			ops, err := svc.Repository().ListIndexOperations(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("failed to list operations: %w", err)
			}

			if out.structured() {
				return out.write(cmd.OutOrStdout(), ops)
			}
			w := cmd.OutOrStdout()
			for _, op := range ops {
				state := "pending"
				if op.Processed {
					state = "processed"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", op.ID, op.Timestamp, op.Type, state, string(op.Data))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of operations (default 1000)")
	cmd.Flags().BoolVar(&pending, "pending", false, "Only unprocessed operations")
	cmd.Flags().BoolVar(&processed, "processed", false, "Only processed operations")
	cmd.Flags().BoolVar(&out.json, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&out.yaml, "yaml", false, "Output in YAML format")
	return cmd
}

func newOpsEnqueueCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "enqueue [type] [data]",
		Short: "Queue a new operation and print its id",
		Long:  `Queue a new unprocessed operation. The optional data argument is JSON.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data any
			if len(args) == 2 {
				if err := json.Unmarshal([]byte(args[1]), &data); err != nil {
					return fmt.Errorf("invalid operation data: %w", err)
				}
			}

			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			id, err := svc.EnqueueOperation(cmd.Context(), args[0], data)
			if err != nil {
				return fmt.Errorf("failed to enqueue operation: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

func newOpsAckCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "ack [id...]",
		Short: "Mark operations as processed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			return svc.AckOperations(cmd.Context(), args...)
		},
	}
}

func newOpsPurgeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete every processed operation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			removed, err := svc.PurgeProcessedOperations(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to purge operations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d operations\n", removed)
			return nil
		},
	}
}
