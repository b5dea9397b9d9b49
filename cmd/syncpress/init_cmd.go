package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/syncpress/syncpress/internal/client/config"
	"github.com/syncpress/syncpress/internal/utils"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Register a site: remote server plus local content root",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			server, _ := cmd.Flags().GetString("server")
			token, _ := cmd.Flags().GetString("token")
			root, _ := cmd.Flags().GetString("root")
			name, _ := cmd.Flags().GetString("name")

			site := config.SiteConfig{
				Name:      name,
				ServerURL: server,
				Token:     token,
				Root:      root,
			}
			if err := site.Validate(); err != nil {
				return err
			}
			if err := utils.EnsureDir(site.Root); err != nil {
				return fmt.Errorf("create content root: %w", err)
			}

			path := viper.GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				if !os.IsNotExist(err) {
					return fmt.Errorf("read config %s: %w", path, err)
				}
				cfg = &config.Config{}
			}

			for _, existing := range cfg.Sites {
				if existing.Root == site.Root {
					return fmt.Errorf("a site with root %s already exists", site.Root)
				}
			}
			cfg.Sites = append(cfg.Sites, site)

			if err := cfg.Save(path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			fmt.Printf("%s site %s (%s)\n", green("registered"), cyan(site.Name), site.Root)
			fmt.Printf("run %s to fetch remote content, then %s to keep syncing\n",
				cyan("syncpress pull"), cyan("syncpress watch"))
			return nil
		},
	}

	cmd.Flags().StringP("server", "s", "", "CMS server URL")
	cmd.Flags().StringP("token", "t", "", "API token")
	cmd.Flags().StringP("root", "r", "", "local content root directory")
	cmd.Flags().StringP("name", "n", "", "site name (defaults to the server host)")
	cmd.MarkFlagRequired("server")
	cmd.MarkFlagRequired("root")
	return cmd
}
