package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show what a sync would do, without doing it",
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

			statuses, err := engine.Status(cmd.Context())
			if err != nil {
				return err
			}

			var pending int
			for _, st := range statuses {
				if st.Decision == "ignore" {
					continue
				}
				pending++
				label := st.Decision
				switch st.Decision {
				case "pull", "push":
					label = green(st.Decision)
				case "conflict", "untracked":
					label = yellow(st.Decision)
				case "error":
					label = red(st.Decision)
				}
				fmt.Printf("%-10s %s  (%s)\n", label, st.Path, st.Detail)
			}

			if pending == 0 {
				fmt.Printf("%s everything in sync (%d path(s) tracked)\n", green("ok"), len(statuses))
			}
			return nil
		},
	}

	cmd.Flags().String("site", "", "site name")
	return cmd
}
