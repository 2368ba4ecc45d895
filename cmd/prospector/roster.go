package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster [file]",
		Short: "Load a participant roster export",
		Long:  "Reads a yaml roster file and upserts its participants, keyed by stable account id when present.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				path := d.Config.RosterPath
				if len(args) == 1 {
					path = args[0]
				}

				n, err := d.RosterHandler.Handle(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("loading roster: %w", err)
				}

				fmt.Printf("Loaded %d participants from %s\n", n, path)
				return nil
			})
		},
	}
}
