package config

import (
	"strings"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Render serialises the configuration as toml or yaml
func (c *Config) Render(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "toml":
		out, err := toml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render config as toml")
		}
		return out, nil
	case "yaml", "yml":
		out, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInternal, "failed to render config as yaml")
		}
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "cannot render config as %q", format)
	}
}

// Template returns the embedded defaults with every value commented out,
// suitable as a starting .pluglink.toml
func Template() string {
	return commentOutConfigValues(DefaultsContent())
}

// commentOutConfigValues takes the TOML content and comments out all non-comment, non-blank lines
// that contain configuration values (assignments)
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [link], [discovery]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
