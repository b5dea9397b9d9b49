// Package client wires one engine per configured site and runs them as a
// single daemon. Sites are fully independent: each owns its state store,
// watcher and poll timer, and nothing is shared between them.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/syncpress/syncpress/internal/client/config"
	"github.com/syncpress/syncpress/internal/client/notify"
	syncengine "github.com/syncpress/syncpress/internal/client/sync"
	"golang.org/x/sync/errgroup"
)

type Client struct {
	cfg     *config.Config
	hub     *notify.Hub
	engines []*syncengine.Engine
}

func New(cfg *config.Config) (*Client, error) {
	c := &Client{cfg: cfg}

	var notifier notify.Notifier = notify.SlogNotifier{}
	if cfg.NotifyAddr != "" {
		c.hub = notify.NewHub(cfg.NotifyAddr)
		notifier = notify.Multi{notify.SlogNotifier{}, c.hub}
	}

	for _, site := range cfg.Sites {
		engine, err := syncengine.NewEngine(site, syncengine.Options{
			Debounce:     cfg.Debounce(),
			Suppress:     cfg.Suppress(),
			PollInterval: cfg.PollInterval(),
			Notifier:     notifier,
		})
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}
		c.engines = append(c.engines, engine)
	}

	return c, nil
}

// Engine returns the engine for the named site, or the sole engine when
// name is empty and exactly one site is configured.
func (c *Client) Engine(name string) (*syncengine.Engine, error) {
	if name == "" {
		if len(c.engines) == 1 {
			return c.engines[0], nil
		}
		return nil, errors.New("multiple sites configured, pick one with --site")
	}
	for _, e := range c.engines {
		if e.Site() == name {
			return e, nil
		}
	}
	return nil, fmt.Errorf("unknown site %q", name)
}

// Start runs the watch loop for every site until ctx is cancelled.
// Teardown is fire-and-forget: watchers close and poll timers stop, but
// in-flight remote calls are not drained.
func (c *Client) Start(ctx context.Context) error {
	slog.Info("client start", "sites", len(c.engines))

	for _, engine := range c.engines {
		if err := engine.Acquire(); err != nil {
			return err
		}
	}
	defer func() {
		for _, engine := range c.engines {
			engine.Release()
		}
	}()

	eg, egCtx := errgroup.WithContext(ctx)

	if c.hub != nil {
		eg.Go(func() error {
			return c.hub.Start(egCtx)
		})
	}

	for _, engine := range c.engines {
		eg.Go(func() error {
			if err := engine.Start(egCtx); err != nil {
				return fmt.Errorf("site %s: %w", engine.Site(), err)
			}
			<-egCtx.Done()
			engine.Stop()
			return nil
		})
	}

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("client failure", "error", err)
		return err
	}

	slog.Info("client stopped")
	return nil
}
