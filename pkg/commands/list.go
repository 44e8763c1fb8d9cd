package commands

import (
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/manifest"
	"github.com/arthur-debert/pluglink/pkg/ui/display"
)

// List returns the plugins recorded in the destination's manifest
func List(s *Session) (*display.ListReport, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("dest", s.Dest).Msg("Executing command")

	if filesystem.Exists(s.FS, s.Dest) && !filesystem.IsDir(s.FS, s.Dest) {
		return nil, errors.Newf(errors.ErrDestAccess, "destination %s is not a directory", s.Dest)
	}

	links := manifest.Sorted(manifest.Load(s.FS, s.ManifestPath()))
	log.Info().Int("count", len(links)).Msg("Command finished")
	return &display.ListReport{Dest: s.Dest, Links: links}, nil
}

// Status reports how every discovered or managed plugin stands
func Status(s *Session) *display.StatusReport {
	log := logging.GetLogger("commands.status")
	log.Debug().Str("dest", s.Dest).Msg("Executing command")

	rows := s.Reconciler().Status(s.ReconcileOptions())
	return &display.StatusReport{Dest: s.Dest, Rows: rows}
}
