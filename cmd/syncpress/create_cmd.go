package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <path>...",
		Short: "Publish new local files as remote items and start tracking them",
		Long: `Create is the only way an untracked file reaches the CMS: the remote
item is created first and only then does tracking start. The watcher
never auto-pushes new files.`,
		Args: cobra.MinimumNArgs(1),
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

			var failed int
			for _, path := range args {
				if err := engine.CreatePath(cmd.Context(), path); err != nil {
					fmt.Printf("%s %s: %v\n", red("failed"), path, err)
					failed++
					continue
				}
				fmt.Printf("%s %s\n", green("created"), path)
			}
			if failed > 0 {
				return fmt.Errorf("%d path(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().String("site", "", "site name")
	return cmd
}
