package config

import (
	"strings"

	"github.com/arthur-debert/pluglink/pkg/discovery"
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/linker"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// Config is the effective pluglink configuration
type Config struct {
	Link      Link      `koanf:"link" toml:"link" yaml:"link" json:"link"`
	Discovery Discovery `koanf:"discovery" toml:"discovery" yaml:"discovery" json:"discovery"`
	Copy      Copy      `koanf:"copy" toml:"copy" yaml:"copy" json:"copy"`
	Output    Output    `koanf:"output" toml:"output" yaml:"output" json:"output"`
}

// Link controls how plugins are exposed in the destination
type Link struct {
	Mode types.LinkMode `koanf:"mode" toml:"mode" yaml:"mode" json:"mode"`
	// Destination is relative to the project root unless absolute
	Destination string `koanf:"destination" toml:"destination" yaml:"destination" json:"destination"`
	Manager     string `koanf:"manager" toml:"manager" yaml:"manager" json:"manager"`
}

// Discovery holds scanner settings
type Discovery struct {
	Container string   `koanf:"container" toml:"container" yaml:"container" json:"container"`
	Extension string   `koanf:"extension" toml:"extension" yaml:"extension" json:"extension"`
	PluginDir string   `koanf:"plugin_dir" toml:"plugin_dir" yaml:"pluginDir" json:"pluginDir"`
	MaxDepth  int      `koanf:"max_depth" toml:"max_depth" yaml:"maxDepth" json:"maxDepth"`
	Workers   int      `koanf:"workers" toml:"workers" yaml:"workers" json:"workers"`
	SkipDirs  []string `koanf:"skip_dirs" toml:"skip_dirs" yaml:"skipDirs" json:"skipDirs"`
}

// Copy holds copy mode settings
type Copy struct {
	Exclude []string `koanf:"exclude" toml:"exclude" yaml:"exclude" json:"exclude"`
}

// Output holds rendering settings
type Output struct {
	Format string `koanf:"format" toml:"format" yaml:"format" json:"format"`
}

var outputFormats = map[string]bool{
	"auto": true, "term": true, "text": true, "json": true, "yaml": true,
}

// Validate checks values the decoder cannot
func (c *Config) Validate() error {
	switch c.Link.Mode {
	case types.LinkModeAuto, types.LinkModeCopy:
	default:
		return errors.Newf(errors.ErrConfigValid, "link.mode must be auto or copy, got %q", c.Link.Mode).
			WithDetail("key", "link.mode")
	}
	if strings.TrimSpace(c.Link.Manager) == "" {
		return errors.New(errors.ErrConfigValid, "link.manager must not be empty").
			WithDetail("key", "link.manager")
	}
	if strings.ContainsAny(c.Link.Manager, `/\`) {
		return errors.Newf(errors.ErrConfigValid, "link.manager must be a plain name, got %q", c.Link.Manager).
			WithDetail("key", "link.manager")
	}
	if c.Discovery.Container == "" {
		return errors.New(errors.ErrConfigValid, "discovery.container must not be empty").
			WithDetail("key", "discovery.container")
	}
	if !strings.HasPrefix(c.Discovery.Extension, ".") || len(c.Discovery.Extension) < 2 {
		return errors.Newf(errors.ErrConfigValid, "discovery.extension must look like .ext, got %q", c.Discovery.Extension).
			WithDetail("key", "discovery.extension")
	}
	if c.Discovery.MaxDepth <= 0 {
		return errors.Newf(errors.ErrConfigValid, "discovery.max_depth must be positive, got %d", c.Discovery.MaxDepth).
			WithDetail("key", "discovery.max_depth")
	}
	if c.Discovery.Workers <= 0 {
		return errors.Newf(errors.ErrConfigValid, "discovery.workers must be positive, got %d", c.Discovery.Workers).
			WithDetail("key", "discovery.workers")
	}
	if !outputFormats[c.Output.Format] {
		return errors.Newf(errors.ErrConfigValid, "output.format must be one of auto, term, text, json, yaml; got %q", c.Output.Format).
			WithDetail("key", "output.format")
	}
	return nil
}

// DiscoveryOptions converts the discovery section for the scanner
func (c *Config) DiscoveryOptions() discovery.Options {
	return discovery.Options{
		Container: c.Discovery.Container,
		Extension: c.Discovery.Extension,
		PluginDir: c.Discovery.PluginDir,
		MaxDepth:  c.Discovery.MaxDepth,
		SkipDirs:  c.Discovery.SkipDirs,
		Workers:   c.Discovery.Workers,
	}
}

// LinkerOptions converts the copy section for operator construction
func (c *Config) LinkerOptions() linker.Options {
	return linker.Options{Exclude: c.Copy.Exclude}
}
