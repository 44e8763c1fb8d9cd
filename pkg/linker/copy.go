package linker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/rs/zerolog"
)

type copyOperator struct {
	fs      types.FS
	exclude map[string]bool
	logger  zerolog.Logger
}

// NewCopy returns an operator that copies plugin directories
func NewCopy(fsys types.FS, exclude []string) Operator {
	set := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		set[name] = true
	}
	return &copyOperator{
		fs:      fsys,
		exclude: set,
		logger:  logging.GetLogger("linker.copy"),
	}
}

func (o *copyOperator) Strategy() types.LinkStrategy {
	return types.StrategyCopy
}

// Create copies source into dest. A failed copy is removed again so the
// next run does not find a half-written, unmanaged directory.
func (o *copyOperator) Create(dest, source string) error {
	info, err := o.fs.Stat(source)
	if err != nil {
		return errors.Wrapf(err, errors.ErrCopyCreate, "cannot read copy source %s", source)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrCopyCreate, "copy source %s is not a directory", source)
	}

	if err := o.copyDir(source, dest, "", []fs.FileInfo{info}); err != nil {
		_ = o.fs.RemoveAll(dest)
		return errors.Wrapf(err, errors.ErrCopyCreate, "failed to copy %s", dest).
			WithDetail("source", source)
	}
	return nil
}

func (o *copyOperator) Remove(dest string) error {
	return removeAll(o.fs, dest)
}

// copyDir copies src to dst. rel is the path relative to the copy root on
// the destination side; exclusion is decided on it rather than on the
// source path, which may resolve somewhere else entirely. ancestors holds
// the directories on the current descent chain to stop link cycles.
func (o *copyOperator) copyDir(src, dst, rel string, ancestors []fs.FileInfo) error {
	dirInfo, err := o.fs.Stat(src)
	if err != nil {
		return err
	}
	if err := o.fs.MkdirAll(dst, dirInfo.Mode().Perm()|0700); err != nil {
		return err
	}

	entries, err := o.fs.ReadDir(src)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		childRel := filepath.Join(rel, entry.Name())
		if o.excluded(childRel) {
			continue
		}

		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows links so the copy holds real content.
		info, err := o.fs.Stat(srcPath)
		if err != nil {
			o.logger.Debug().Err(err).Str("path", srcPath).Msg("Skipping unresolvable entry")
			continue
		}

		if !info.IsDir() {
			if err := o.copyFile(srcPath, dstPath, info.Mode().Perm()); err != nil {
				return err
			}
			continue
		}

		if seenBefore(ancestors, info) {
			o.logger.Debug().Str("path", srcPath).Msg("Skipping directory link cycle")
			continue
		}
		chain := append(ancestors[:len(ancestors):len(ancestors)], info)
		if err := o.copyDir(srcPath, dstPath, childRel, chain); err != nil {
			return err
		}
	}
	return nil
}

func (o *copyOperator) copyFile(src, dst string, perm os.FileMode) error {
	data, err := o.fs.ReadFile(src)
	if err != nil {
		return err
	}
	return o.fs.WriteFile(dst, data, perm)
}

// excluded reports whether any component of the destination-relative path
// is in the exclude set.
func (o *copyOperator) excluded(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if o.exclude[part] {
			return true
		}
	}
	return false
}

func seenBefore(ancestors []fs.FileInfo, info fs.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(a, info) {
			return true
		}
	}
	return false
}
