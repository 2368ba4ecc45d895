package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var overridesPath string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Link match players to persistent participants",
		Long:  "Runs the identity resolution pass: manual overrides first, then exact normalized-name matching against the roster. Players with no unique match stay unlinked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				path := d.Config.OverridesPath
				if overridesPath != "" {
					path = overridesPath
				}

				summary, err := d.ResolveHandler.Handle(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("resolving identities: %w", err)
				}

				fmt.Printf("Resolved %d players: %d linked, %d overridden, %d unlinked\n",
					summary.Players, summary.Linked, summary.Overridden, summary.Unlinked)
				if summary.SkippedOverrides > 0 {
					fmt.Printf("  %d override entries skipped (unknown participant)\n", summary.SkippedOverrides)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&overridesPath, "overrides", "", "Override file (defaults to config overrides_path)")
	return cmd
}
