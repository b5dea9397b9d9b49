package main

import (
	"github.com/spf13/cobra"
)

func newPushCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push [path...]",
		Short: "Send local edits of tracked files to the remote store",
		Long: `Push sends local content to the CMS for the given tracked paths, or
for every tracked path with unsynced edits when no paths are given.
Local content always wins on a tracked path; untracked files are
refused (publish those with "syncpress create"). With --force a push
whose remote item has disappeared falls back to creating it anew.`,
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
			tally, err := engine.PushPaths(cmd.Context(), force, args)
			if err != nil {
				return err
			}
			printTally(tally)
			return tallyErr(tally)
		},
	}

	cmd.Flags().Bool("force", false, "recreate items whose remote id vanished (local wins)")
	cmd.Flags().String("site", "", "site name")
	return cmd
}
