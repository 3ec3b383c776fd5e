package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func newPutCmd(c *cli) *cobra.Command {
	var metadata string
	var raw bool

	cmd := &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Store a value under a key",
		Long: `Store a value under a key. Without a value argument the value is read from
stdin. Settings values are parsed as JSON when possible (use --raw to store
the text as a string). Operation values must be a JSON encoded operation.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			var text string
			if len(args) == 2 {
				text = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read value from stdin: %w", err)
				}
				text = string(data)
			}

			opts := core.PutOptions{}
			if metadata != "" {
				if err := json.Unmarshal([]byte(metadata), &opts.Metadata); err != nil {
					return fmt.Errorf("invalid --metadata: %w", err)
				}
			}

			var value any = text
			if core.ParseKey(key).Kind == core.KindSetting && !raw {
				var decoded any
				if err := json.Unmarshal([]byte(text), &decoded); err == nil {
					value = decoded
				}
			}

			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			if err := svc.Put(cmd.Context(), key, value, opts); err != nil {
				return fmt.Errorf("failed to put %s: %w", key, err)
			}

			c.logger.Info("stored", "key", key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&metadata, "metadata", "m", "", "File metadata as a JSON object")
	cmd.Flags().BoolVar(&raw, "raw", false, "Store setting values as plain strings")
	return cmd
}
