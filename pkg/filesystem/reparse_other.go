//go:build !windows

package filesystem

import "io/fs"

func isReparsePoint(fs.FileMode) bool {
	return false
}
