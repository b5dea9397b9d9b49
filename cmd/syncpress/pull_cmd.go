package main

import (
	"github.com/spf13/cobra"
	syncengine "github.com/syncpress/syncpress/internal/client/sync"
)

func newPullCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull [path...]",
		Short: "Fetch remote items and update unchanged local files",
		Long: `Pull enumerates the remote store and writes every new or remotely
changed item to disk. Paths with unsynced local edits are reported as
conflicts and left untouched unless --force is given, in which case the
remote version wins.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			engine, err := siteEngine(cmd)
			if err != nil {
				return err
			}
			if err := engine.Acquire(); err != nil {
				return err
			}
			defer engine.Release()

			force, _ := cmd.Flags().GetBool("force")

			var tally *syncengine.Tally
			if len(args) > 0 {
				tally, err = engine.PullPaths(cmd.Context(), force, args)
			} else {
				tally, err = engine.PollOnce(cmd.Context(), force)
			}
			if err != nil {
				return err
			}
			printTally(tally)
			return tallyErr(tally)
		},
	}

	cmd.Flags().Bool("force", false, "overwrite local files even on conflict (remote wins)")
	cmd.Flags().String("site", "", "site name")
	return cmd
}
