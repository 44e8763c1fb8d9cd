package commands

import (
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/ui/display"
)

// SyncOptions controls a sync or clean run
type SyncOptions struct {
	DryRun bool
	Force  bool
}

// Sync reconciles the destination with the installed packages. The report
// is returned even when the run fails so it can still be shown.
func Sync(s *Session, opts SyncOptions) (*display.SyncReport, error) {
	log := logging.GetLogger("commands.sync")
	log.Debug().Bool("dryRun", opts.DryRun).Bool("force", opts.Force).Msg("Executing command")

	ropts := s.ReconcileOptions()
	ropts.DryRun = opts.DryRun
	ropts.Force = opts.Force

	result := s.Reconciler().Sync(ropts)
	report := &display.SyncReport{Command: "sync", Dest: s.Dest, Result: result}
	if !result.OK {
		return report, errors.New(errors.ErrSyncFailed, result.Error)
	}

	log.Info().Str("summary", report.Summary()).Msg("Command finished")
	return report, nil
}

// Clean removes every managed entry from the destination
func Clean(s *Session, opts SyncOptions) (*display.SyncReport, error) {
	log := logging.GetLogger("commands.clean")
	log.Debug().Bool("dryRun", opts.DryRun).Msg("Executing command")

	ropts := s.ReconcileOptions()
	ropts.DryRun = opts.DryRun

	result := s.Reconciler().Clean(ropts)
	report := &display.SyncReport{Command: "clean", Dest: s.Dest, Result: result}
	if !result.OK {
		return report, errors.New(errors.ErrCleanFailed, result.Error)
	}

	log.Info().Str("summary", report.Summary()).Msg("Command finished")
	return report, nil
}
