package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/syncpress/syncpress/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".syncpress", "config.json")
)

const (
	// DefaultDebounce is how long the watcher waits after the last change
	// event for a path before treating it as one logical edit.
	DefaultDebounce = 1000 * time.Millisecond

	// DefaultSuppress is how long a just-pulled path stays hidden from the
	// watcher so the engine does not push its own writes back.
	DefaultSuppress = 2000 * time.Millisecond

	// DefaultPollInterval is the remote poll cadence. Zero disables polling.
	DefaultPollInterval = 30 * time.Second
)

// DefaultTypes maps path prefixes under the content root to remote content
// types. Paths outside these prefixes are not synced.
var DefaultTypes = map[string]string{
	"pages/": "page",
	"posts/": "post",
}

// SiteConfig is one connection + content-root pair. Each site is reconciled
// independently; nothing is shared between sites.
type SiteConfig struct {
	Name      string            `json:"name"`
	ServerURL string            `json:"server_url"`
	Token     string            `json:"token,omitempty"`
	Root      string            `json:"root"`
	Types     map[string]string `json:"types,omitempty"`
}

func (s *SiteConfig) Validate() error {
	if s.ServerURL == "" {
		return errors.New("site: server_url is required")
	}
	u, err := url.Parse(s.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("site: invalid server_url %q", s.ServerURL)
	}
	if s.Root == "" {
		return errors.New("site: root is required")
	}

	root, err := utils.ResolvePath(s.Root)
	if err != nil {
		return fmt.Errorf("site: resolve root: %w", err)
	}
	s.Root = root

	if s.Name == "" {
		s.Name = u.Host
	}
	if len(s.Types) == 0 {
		s.Types = DefaultTypes
	}
	return nil
}

type Config struct {
	Sites       []SiteConfig `json:"sites"`
	DebounceMs  int          `json:"debounce_ms,omitempty"`
	SuppressMs  int          `json:"suppress_ms,omitempty"`
	PollSeconds int          `json:"poll_seconds,omitempty"`
	NotifyAddr  string       `json:"notify_addr,omitempty"`

	Path string `json:"-"`
}

func (c *Config) Validate() error {
	if len(c.Sites) == 0 {
		return errors.New("config: no sites configured, run `syncpress init` first")
	}
	seen := make(map[string]struct{}, len(c.Sites))
	for i := range c.Sites {
		if err := c.Sites[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Sites[i].Root]; dup {
			return fmt.Errorf("config: duplicate site root %q", c.Sites[i].Root)
		}
		seen[c.Sites[i].Root] = struct{}{}
	}
	return nil
}

// Debounce returns the configured debounce window, or the default.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMs > 0 {
		return time.Duration(c.DebounceMs) * time.Millisecond
	}
	return DefaultDebounce
}

// Suppress returns the configured self-write suppression window, or the default.
func (c *Config) Suppress() time.Duration {
	if c.SuppressMs > 0 {
		return time.Duration(c.SuppressMs) * time.Millisecond
	}
	return DefaultSuppress
}

// PollInterval returns the configured poll cadence. A negative poll_seconds
// disables polling; zero means "not set" and falls back to the default.
func (c *Config) PollInterval() time.Duration {
	if c.PollSeconds < 0 {
		return 0
	}
	if c.PollSeconds > 0 {
		return time.Duration(c.PollSeconds) * time.Second
	}
	return DefaultPollInterval
}

func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return utils.WriteFileAtomic(path, data, 0o644)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}
