package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store row counts and data-quality flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				status, err := d.StatusHandler.Handle(cmd.Context())
				if err != nil {
					return fmt.Errorf("reading status: %w", err)
				}

				tables := make([]string, 0, len(status.TableCounts))
				for table := range status.TableCounts {
					tables = append(tables, table)
				}
				sort.Strings(tables)
				for _, table := range tables {
					fmt.Printf("%-18s %d\n", table, status.TableCounts[table])
				}

				if len(status.Flags) > 0 {
					fmt.Printf("\n%d data-quality flags:\n", len(status.Flags))
					for _, f := range status.Flags {
						fmt.Printf("  match %d: %s (%s)\n", f.MatchID, f.Flag, f.Detail)
					}
				}
				return nil
			})
		},
	}
}
