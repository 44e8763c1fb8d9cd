//go:build windows

package filesystem

import "io/fs"

// Directory junctions are reported as irregular files since Go 1.23.
func isReparsePoint(mode fs.FileMode) bool {
	return mode&fs.ModeIrregular != 0
}
