package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/TyrEamon/CloudFlare-ImgBed/pkg/core"
)

func newListCmd(c *cli) *cobra.Command {
	var out outputFlags
	var opts core.ListOptions
	var all bool
	var match string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keys of the namespace selected by the prefix",
		Long: `List keys. The prefix selects the namespace: manage@sysConfig@ lists settings,
manage@index@operation_ lists queued operations and anything else lists files.
File listings are paginated; pass the printed cursor back with --cursor, or use
--all to follow every page. --match filters names with a glob (e.g. "img/**/*.png").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if match != "" && !doublestar.ValidatePattern(match) {
				return fmt.Errorf("invalid --match pattern %q", match)
			}

			svc, err := c.open()
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}

			var keys []core.ListKey
			var res core.ListResult
			for {
				res, err = svc.List(cmd.Context(), opts)
				if err != nil {
					return fmt.Errorf("failed to list keys: %w", err)
				}
				keys = append(keys, filterKeys(res.Keys, match)...)
				if !all || res.ListComplete || res.Cursor == "" {
					break
				}
				opts.Cursor = res.Cursor
			}
			if all {
				res.Cursor = ""
			}
			res.Keys = keys

			if out.structured() {
				return out.write(cmd.OutOrStdout(), res)
			}

			w := cmd.OutOrStdout()
			for _, key := range res.Keys {
				if key.Value != nil {
					fmt.Fprintf(w, "%s\t%s\n", key.Name, formatValue(key.Value))
					continue
				}
				fmt.Fprintln(w, key.Name)
			}
			if !res.ListComplete && res.Cursor != "" {
				c.logger.Info("more keys available", "cursor", res.Cursor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", "", "Key prefix")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Page size (default 1000)")
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "Resume after this key")
	cmd.Flags().BoolVar(&all, "all", false, "Follow the cursor through every page")
	cmd.Flags().StringVar(&match, "match", "", "Only print names matching this glob")
	cmd.Flags().BoolVar(&out.json, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&out.yaml, "yaml", false, "Output in YAML format")
	return cmd
}

func filterKeys(keys []core.ListKey, pattern string) []core.ListKey {
	if pattern == "" {
		return keys
	}
	filtered := make([]core.ListKey, 0, len(keys))
	for _, key := range keys {
		// ValidatePattern already ran, so Match cannot fail.
		if ok, _ := doublestar.Match(pattern, key.Name); ok {
			filtered = append(filtered, key)
		}
	}
	return filtered
}
