package linker

import (
	"os/exec"
	"runtime"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// DefaultExclude lists path components never copied in copy mode
var DefaultExclude = []string{"node_modules", ".git", ".svn", ".hg"}

// Operator creates and removes one destination entry at a time
type Operator interface {
	// Strategy reports which primitive the operator uses
	Strategy() types.LinkStrategy
	// Create exposes source at dest
	Create(dest, source string) error
	// Remove deletes whatever Create left at dest
	Remove(dest string) error
}

// CommandRunner runs an external program and returns its combined output.
// A non-nil error means the program could not run or exited non-zero.
type CommandRunner func(name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(name string, args ...string) ([]byte, error) {
	logging.LogCommand(name, args)
	return exec.Command(name, args...).CombinedOutput()
}

// Options tunes operator construction
type Options struct {
	// Exclude overrides DefaultExclude for copy mode
	Exclude []string
	// Runner overrides ExecRunner for junction creation
	Runner CommandRunner
	// GOOS overrides runtime.GOOS for strategy selection
	GOOS string
}

// SelectStrategy maps a link mode onto the platform primitive
func SelectStrategy(mode types.LinkMode, goos string) types.LinkStrategy {
	if mode == types.LinkModeCopy {
		return types.StrategyCopy
	}
	if goos == "windows" {
		return types.StrategyJunction
	}
	return types.StrategySymlink
}

// New returns the operator for mode on the current (or overridden) platform
func New(fs types.FS, mode types.LinkMode, opts Options) Operator {
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	switch SelectStrategy(mode, goos) {
	case types.StrategyCopy:
		exclude := opts.Exclude
		if exclude == nil {
			exclude = DefaultExclude
		}
		return NewCopy(fs, exclude)
	case types.StrategyJunction:
		runner := opts.Runner
		if runner == nil {
			runner = ExecRunner
		}
		return NewJunction(fs, runner)
	default:
		return NewSymlink(fs)
	}
}

// removeAll is shared by every strategy. RemoveAll does not follow links,
// so symlinks and junctions are removed without touching their targets.
func removeAll(fs types.FS, dest string) error {
	if err := fs.RemoveAll(dest); err != nil {
		return errors.Wrapf(err, errors.ErrLinkRemove, "failed to remove %s", dest)
	}
	return nil
}
