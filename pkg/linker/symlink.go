package linker

import (
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/types"
)

type symlinkOperator struct {
	fs types.FS
}

// NewSymlink returns an operator creating symbolic links
func NewSymlink(fs types.FS) Operator {
	return &symlinkOperator{fs: fs}
}

func (o *symlinkOperator) Strategy() types.LinkStrategy {
	return types.StrategySymlink
}

func (o *symlinkOperator) Create(dest, source string) error {
	if err := o.fs.Symlink(source, dest); err != nil {
		return errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", dest).
			WithDetail("source", source)
	}
	return nil
}

func (o *symlinkOperator) Remove(dest string) error {
	return removeAll(o.fs, dest)
}
