package filesystem

import (
	"io/fs"
	"os"

	"github.com/arthur-debert/pluglink/pkg/types"
)

// Exists reports whether anything is present at path, including a dangling link.
func Exists(fsys types.FS, path string) bool {
	_, err := fsys.Lstat(path)
	return err == nil
}

// IsDir reports whether path resolves to a directory.
func IsDir(fsys types.FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// IsLink reports whether path is a symbolic link or a directory junction.
func IsLink(fsys types.FS, path string) bool {
	info, err := fsys.Lstat(path)
	if err != nil {
		return false
	}
	return IsLinkMode(info.Mode())
}

// IsLinkMode reports whether mode describes a symlink or a reparse point
// the platform treats as a link.
func IsLinkMode(mode fs.FileMode) bool {
	if mode&fs.ModeSymlink != 0 {
		return true
	}
	return isReparsePoint(mode)
}

// PointsTo reports whether link resolves to the same directory as target.
func PointsTo(fsys types.FS, link, target string) bool {
	linkInfo, err := fsys.Stat(link)
	if err != nil {
		return false
	}
	targetInfo, err := fsys.Stat(target)
	if err != nil {
		return false
	}
	return os.SameFile(linkInfo, targetInfo)
}
