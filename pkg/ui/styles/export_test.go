package styles

import "testing"

// EmbeddedStyles exposes the embedded file to external tests
func EmbeddedStyles(t *testing.T) []byte {
	t.Helper()
	return embeddedStyles
}
