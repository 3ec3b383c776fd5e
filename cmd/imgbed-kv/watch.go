package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	storelifecycle "github.com/TyrEamon/CloudFlare-ImgBed/pkg/adapters/lifecycle"
	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func newWatchCmd(c *cli) *cobra.Command {
	var count int
	var types []string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print changes made to the store file by other writers",
		Long: `Watch reports when the backing file is created, modified or removed by
another process. The running store never reloads; restart consumers to pick
up external edits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			events, err := svc.Watch(ctx)
			if err != nil {
				return fmt.Errorf("failed to watch store: %w", err)
			}

			var opts []storelifecycle.SourceOption
			if len(types) > 0 {
				filter := make([]core.EventType, 0, len(types))
				for _, t := range types {
					filter = append(filter, core.EventType(strings.ToUpper(t)))
				}
				opts = append(opts, storelifecycle.WithEventTypes(filter...))
			}

			src := storelifecycle.NewSource(events, opts...)
			if err := src.Start(ctx); err != nil {
				return err
			}
			c.logger.Info("watching store", "state", svc.State())

			seen := 0
			for event := range src.Events() {
				fmt.Fprintln(cmd.OutOrStdout(), event.String())
				seen++
				if count > 0 && seen >= count {
					return nil
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Exit after this many events")
	cmd.Flags().StringSliceVarP(&types, "type", "t", nil, "Only report these event types (create, modify, delete)")
	return cmd
}
