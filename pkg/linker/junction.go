package linker

import (
	"strings"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/types"
)

type junctionOperator struct {
	fs  types.FS
	run CommandRunner
}

// NewJunction returns an operator creating Windows directory junctions
// through the shell's mklink builtin.
func NewJunction(fs types.FS, run CommandRunner) Operator {
	return &junctionOperator{fs: fs, run: run}
}

func (o *junctionOperator) Strategy() types.LinkStrategy {
	return types.StrategyJunction
}

func (o *junctionOperator) Create(dest, source string) error {
	out, err := o.run("cmd", "/c", "mklink", "/J", dest, source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrJunctionCreate, "failed to create junction %s", dest).
			WithDetail("source", source).
			WithDetail("output", strings.TrimSpace(string(out)))
	}
	return nil
}

func (o *junctionOperator) Remove(dest string) error {
	return removeAll(o.fs, dest)
}
