package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/manifest"
)

// Environment variable names
const (
	// EnvProjectRoot points at the project that owns node_modules
	EnvProjectRoot = "PLUGLINK_PROJECT_ROOT"

	// EnvConfigDir overrides the XDG config directory for pluglink
	EnvConfigDir = "PLUGLINK_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for pluglink
	EnvStateDir = "PLUGLINK_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

const (
	// AppDirName is the directory name for pluglink-specific files
	AppDirName = "pluglink"

	// ProjectMarker identifies a project root when walking up from cwd
	ProjectMarker = "package.json"

	// DefaultDestination is the destination relative to the project root
	DefaultDestination = "Plugins/Packages"

	// LogFileName is the name of the log file
	LogFileName = "pluglink.log"
)

// Paths provides centralized path management for pluglink
type Paths interface {
	ProjectRoot() string
	UsedFallback() bool
	ConfigDir() string
	StateDir() string
	LogFilePath() string
	DestDir(configured string) string
	ManifestPath(destDir, manager string) string
}

type paths struct {
	projectRoot string
	xdgConfig   string
	xdgState    string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance with the given project root.
// If projectRoot is empty, it will be determined from the environment or the
// working directory.
func New(projectRoot string) (Paths, error) {
	p := &paths{}

	if projectRoot == "" {
		root, usedFallback, err := findProjectRoot()
		if err != nil {
			return nil, err
		}
		p.projectRoot = root
		p.usedFallback = usedFallback
	} else {
		p.projectRoot = expandHome(projectRoot)
	}

	absRoot, err := filepath.Abs(p.projectRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for project root")
	}
	p.projectRoot = absRoot

	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, AppDirName)
	} else {
		p.xdgState = filepath.Join(xdg.StateHome, AppDirName)
	}
}

// findProjectRoot determines the project root using the following priority:
// 1. PLUGLINK_PROJECT_ROOT environment variable
// 2. The nearest ancestor of the working directory holding package.json
// 3. The working directory itself (fallback)
func findProjectRoot() (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		return expandHome(root), false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, ProjectMarker)); err == nil {
			return dir, false, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return cwd, true, nil
}

func (p *paths) ProjectRoot() string { return p.projectRoot }
func (p *paths) UsedFallback() bool  { return p.usedFallback }
func (p *paths) ConfigDir() string   { return p.xdgConfig }
func (p *paths) StateDir() string    { return p.xdgState }

func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// DestDir resolves a configured destination. Relative destinations are
// anchored at the project root; an empty one means DefaultDestination.
func (p *paths) DestDir(configured string) string {
	if configured == "" {
		configured = DefaultDestination
	}
	configured = expandHome(configured)
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Join(p.projectRoot, filepath.FromSlash(configured))
}

func (p *paths) ManifestPath(destDir, manager string) string {
	return manifest.Path(destDir, manager)
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if path == "~" {
		return homeDir
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
