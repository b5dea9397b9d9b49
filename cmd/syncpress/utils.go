package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/syncpress/syncpress/internal/client"
	"github.com/syncpress/syncpress/internal/client/config"
	syncengine "github.com/syncpress/syncpress/internal/client/sync"
)

// loadConfig reads and validates the config file named by --config.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w (run `syncpress init`)", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// siteEngine builds the client and resolves one site's engine for the
// one-shot commands.
func siteEngine(cmd *cobra.Command) (*syncengine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	c, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	site, _ := cmd.Flags().GetString("site")
	return c.Engine(site)
}

// printTally reports every per-path outcome; partial failures are never
// silent.
func printTally(tally *syncengine.Tally) {
	fmt.Printf("%s pulled, %s pushed, %d unchanged\n",
		green(tally.Pulled), green(tally.Pushed), tally.Unchanged)

	for _, path := range tally.Conflicts {
		fmt.Printf("%s %s: both sides changed, resolve with `push --force` or `pull --force`\n", yellow("conflict"), path)
	}
	for _, path := range tally.Skipped {
		fmt.Printf("%s %s: not found in remote store\n", yellow("skipped"), path)
	}

	paths := make([]string, 0, len(tally.Failures))
	for path := range tally.Failures {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Printf("%s %s: %v\n", red("failed"), path, tally.Failures[path])
	}
}

// tallyErr converts failures into a command exit error.
func tallyErr(tally *syncengine.Tally) error {
	if tally.HasFailures() {
		return fmt.Errorf("%d path(s) failed", len(tally.Failures))
	}
	return nil
}
