package commands

import (
	"path/filepath"

	"github.com/arthur-debert/pluglink/pkg/config"
	"github.com/arthur-debert/pluglink/pkg/errors"
)

// ShowConfig renders the effective configuration as toml or yaml
func ShowConfig(s *Session, format string) ([]byte, error) {
	return s.Config.Render(format)
}

// InitConfig writes a commented .pluglink.toml into the project root and
// returns its path. An existing file is never overwritten.
func InitConfig(s *Session) (string, error) {
	path := filepath.Join(s.Paths.ProjectRoot(), config.ProjectConfigFile)
	if _, err := s.FS.Stat(path); err == nil {
		return path, errors.Newf(errors.ErrPathExists, "%s already exists", path).
			WithDetail("path", path)
	}
	if err := s.FS.WriteFile(path, []byte(config.Template()), 0644); err != nil {
		return path, errors.Wrapf(err, errors.ErrFileAccess, "failed to write %s", path)
	}
	return path, nil
}
