package main

import (
	"github.com/spf13/cobra"
	"github.com/syncpress/syncpress/internal/client"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the sync loop: watch local edits and poll the remote store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("debounce") {
				cfg.DebounceMs, _ = cmd.Flags().GetInt("debounce")
			}
			if cmd.Flags().Changed("poll") {
				poll, _ := cmd.Flags().GetInt("poll")
				if poll == 0 {
					cfg.PollSeconds = -1 // disable
				} else {
					cfg.PollSeconds = poll
				}
			}
			if cmd.Flags().Changed("notify-addr") {
				cfg.NotifyAddr, _ = cmd.Flags().GetString("notify-addr")
			}

			c, err := client.New(cfg)
			if err != nil {
				return err
			}
			return c.Start(cmd.Context())
		},
	}

	cmd.Flags().Int("debounce", 0, "debounce window in milliseconds")
	cmd.Flags().Int("poll", 0, "remote poll interval in seconds (0 disables polling)")
	cmd.Flags().String("notify-addr", "", "serve sync events over websocket on this address")
	return cmd
}
