package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import a directory of match archives",
		Long:  "Scans a directory for zip save archives, extracts each into the relational store, and skips archives whose filename and content hash were already imported.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				dir := d.Config.ArchiveDir
				if len(args) == 1 {
					dir = args[0]
				}

				summary, err := d.ImportHandler.Handle(cmd.Context(), dir, force)
				if err != nil {
					return fmt.Errorf("importing archives: %w", err)
				}

				fmt.Printf("Scanned %d archives: %d imported, %d skipped, %d failed\n",
					summary.Scanned, summary.Imported, summary.Skipped, summary.Failed)

				if len(summary.Gaps) > 0 {
					names := make([]string, 0, len(summary.Gaps))
					for name := range summary.Gaps {
						names = append(names, name)
					}
					sort.Strings(names)
					for _, name := range names {
						fmt.Printf("  %s imported with gaps: %v\n", name, summary.Gaps[name])
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Re-import archives that were already imported")
	return cmd
}
