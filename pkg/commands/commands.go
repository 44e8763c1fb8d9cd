// Package commands provides high-level command implementations for pluglink.
//
// This package is the orchestration layer between the CLI and the
// reconciler: it resolves paths, loads configuration and turns results into
// display reports. Each command lives in its own file.
package commands

import (
	"github.com/arthur-debert/pluglink/pkg/config"
	"github.com/arthur-debert/pluglink/pkg/discovery"
	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/linker"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/paths"
	"github.com/arthur-debert/pluglink/pkg/reconcile"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// GlobalOptions are the settings every command shares
type GlobalOptions struct {
	// ProjectRoot overrides project root detection
	ProjectRoot string
	// Dest overrides link.destination
	Dest string
	// Mode overrides link.mode
	Mode string
	// Format overrides output.format
	Format string
	// SkipUserConfig ignores the user config directory
	SkipUserConfig bool
}

// Session is a resolved project plus its effective configuration
type Session struct {
	Paths  paths.Paths
	Config *config.Loaded
	FS     types.FS
	// Dest is the absolute destination directory
	Dest string
}

// NewSession resolves paths and loads configuration for one command run
func NewSession(opts GlobalOptions) (*Session, error) {
	p, err := paths.New(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	sources := config.Sources{
		ProjectRoot: p.ProjectRoot(),
		Overrides:   opts.overrides(),
	}
	if !opts.SkipUserConfig {
		sources.UserConfigDir = p.ConfigDir()
	}
	cfg, err := config.Load(sources)
	if err != nil {
		return nil, err
	}

	s := &Session{
		Paths:  p,
		Config: cfg,
		FS:     filesystem.NewOS(),
		Dest:   p.DestDir(cfg.Link.Destination),
	}

	logger := logging.GetLogger("commands")
	logger.Debug().
		Str("project", p.ProjectRoot()).
		Str("dest", s.Dest).
		Str("mode", string(cfg.Link.Mode)).
		Strs("configFiles", cfg.Files).
		Msg("Session ready")
	return s, nil
}

func (o GlobalOptions) overrides() map[string]interface{} {
	m := make(map[string]interface{})
	if o.Dest != "" {
		m["link.destination"] = o.Dest
	}
	if o.Mode != "" {
		m["link.mode"] = o.Mode
	}
	if o.Format != "" {
		m["output.format"] = o.Format
	}
	return m
}

// Reconciler builds a reconciler wired to the session's configuration
func (s *Session) Reconciler() *reconcile.Reconciler {
	scanner := discovery.NewScanner(s.FS, s.Config.DiscoveryOptions())
	linkerOpts := s.Config.LinkerOptions()
	return reconcile.New(s.FS, scanner, func(mode types.LinkMode) linker.Operator {
		return linker.New(s.FS, mode, linkerOpts)
	})
}

// ReconcileOptions returns the base reconcile options for the session
func (s *Session) ReconcileOptions() reconcile.Options {
	return reconcile.Options{
		InstallRoot: s.Paths.ProjectRoot(),
		DestDir:     s.Dest,
		Mode:        s.Config.Link.Mode,
		Manager:     s.Config.Link.Manager,
	}
}

// ManifestPath returns where the session's manifest lives
func (s *Session) ManifestPath() string {
	return s.Paths.ManifestPath(s.Dest, s.Config.Link.Manager)
}
