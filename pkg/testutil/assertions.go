package testutil

import (
	"strings"
	"testing"

	"github.com/arthur-debert/pluglink/pkg/filesystem"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/stretchr/testify/assert"
)

// AssertWarningContains checks that some warning mentions every fragment
func AssertWarningContains(t *testing.T, warnings []string, fragments ...string) bool {
	t.Helper()
	for _, w := range warnings {
		if containsAll(w, fragments) {
			return true
		}
	}
	return assert.Fail(t, "no matching warning", "want a warning containing %q, got %q", fragments, warnings)
}

// AssertLinkTo checks that path is a link resolving to target
func AssertLinkTo(t *testing.T, fs types.FS, path, target string) bool {
	t.Helper()
	if !assert.True(t, filesystem.IsLink(fs, path), "%s should be a link", path) {
		return false
	}
	return assert.True(t, filesystem.PointsTo(fs, path, target), "%s should point to %s", path, target)
}

// AssertRealDir checks that path is a directory and not a link
func AssertRealDir(t *testing.T, fs types.FS, path string) bool {
	t.Helper()
	if !assert.False(t, filesystem.IsLink(fs, path), "%s should not be a link", path) {
		return false
	}
	return assert.True(t, filesystem.IsDir(fs, path), "%s should be a directory", path)
}

func containsAll(s string, fragments []string) bool {
	for _, f := range fragments {
		if !strings.Contains(s, f) {
			return false
		}
	}
	return true
}
