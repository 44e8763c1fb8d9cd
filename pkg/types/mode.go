package types

import (
	"fmt"
	"strings"
)

// LinkMode is the user-facing choice of how plugins are exposed
type LinkMode string

const (
	// LinkModeAuto uses the platform-native link primitive
	LinkModeAuto LinkMode = "auto"

	// LinkModeCopy duplicates each plugin's package directory
	LinkModeCopy LinkMode = "copy"
)

// ParseLinkMode parses a string into a LinkMode value
func ParseLinkMode(s string) (LinkMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "link", "symlink":
		return LinkModeAuto, nil
	case "copy":
		return LinkModeCopy, nil
	default:
		return LinkModeAuto, fmt.Errorf("unknown link mode: %s", s)
	}
}

// LinkStrategy is the concrete primitive an operator uses.
// It is derived from LinkMode and the platform.
type LinkStrategy string

const (
	StrategySymlink  LinkStrategy = "symlink"
	StrategyJunction LinkStrategy = "junction"
	StrategyCopy     LinkStrategy = "copy"
)

// IsLink reports whether the strategy produces a filesystem link
func (s LinkStrategy) IsLink() bool {
	return s == StrategySymlink || s == StrategyJunction
}
