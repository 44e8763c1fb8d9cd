package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// DefaultContainer is the directory holding installed packages
	DefaultContainer = "node_modules"

	// DefaultExtension identifies plugin descriptor files
	DefaultExtension = ".uplugin"

	// DefaultPluginDir is the conventional plugin folder inside a package
	DefaultPluginDir = "Plugins"

	// DefaultMaxDepth bounds the recursive fallback search
	DefaultMaxDepth = 6

	// DefaultWorkers bounds how many packages are scanned at once
	DefaultWorkers = 8

	scopePrefix = "@"
)

// DefaultSkipDirs are never descended into by the recursive fallback
var DefaultSkipDirs = []string{"node_modules", ".git", ".svn", ".hg"}

// Options controls what the scanner looks for
type Options struct {
	Container string
	Extension string
	PluginDir string
	MaxDepth  int
	SkipDirs  []string
	Workers   int
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Container: DefaultContainer,
		Extension: DefaultExtension,
		PluginDir: DefaultPluginDir,
		MaxDepth:  DefaultMaxDepth,
		SkipDirs:  append([]string(nil), DefaultSkipDirs...),
		Workers:   DefaultWorkers,
	}
}

// Package is an installed package found under the container directory
type Package struct {
	// Name is the package identifier, "scope/name" for scoped packages
	Name string
	// Dir is the package's directory
	Dir string
}

// Scanner discovers plugin descriptors under an installation root
type Scanner struct {
	fs     types.FS
	opts   Options
	skip   map[string]bool
	logger zerolog.Logger
}

// NewScanner creates a scanner, filling unset options with defaults
func NewScanner(fsys types.FS, opts Options) *Scanner {
	defaults := DefaultOptions()
	if opts.Container == "" {
		opts.Container = defaults.Container
	}
	if opts.Extension == "" {
		opts.Extension = defaults.Extension
	}
	if opts.PluginDir == "" {
		opts.PluginDir = defaults.PluginDir
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.SkipDirs == nil {
		opts.SkipDirs = defaults.SkipDirs
	}
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}

	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, name := range opts.SkipDirs {
		skip[name] = true
	}

	return &Scanner{
		fs:     fsys,
		opts:   opts,
		skip:   skip,
		logger: logging.GetLogger("discovery"),
	}
}

// Options returns the effective scanner options
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan returns every plugin candidate under root, ordered by package name and
// then by discovery order within the package. A missing container directory
// yields an empty result.
func (s *Scanner) Scan(root string) []types.LinkRecord {
	packages := s.Packages(root)
	if len(packages) == 0 {
		return []types.LinkRecord{}
	}

	results := make([][]types.LinkRecord, len(packages))
	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := s.opts.Workers
	if workers > len(packages) {
		workers = len(packages)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.ScanPackage(packages[i])
			}
		}()
	}
	for i := range packages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	records := []types.LinkRecord{}
	for _, found := range results {
		records = append(records, found...)
	}

	s.logger.Debug().
		Str("root", root).
		Int("packages", len(packages)).
		Int("plugins", len(records)).
		Msg("Discovery finished")

	return records
}

// Packages lists the installed packages under root sorted by name.
// Dot entries are ignored and scope directories are expanded one level.
func (s *Scanner) Packages(root string) []Package {
	container := filepath.Join(root, s.opts.Container)
	entries, ok := s.readDir(container)
	if !ok {
		return nil
	}

	var packages []Package
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		dir := filepath.Join(container, name)
		if !s.isDir(entry, dir) {
			continue
		}

		if !strings.HasPrefix(name, scopePrefix) {
			packages = append(packages, Package{Name: name, Dir: dir})
			continue
		}

		scoped, ok := s.readDir(dir)
		if !ok {
			continue
		}
		for _, sub := range scoped {
			if strings.HasPrefix(sub.Name(), ".") {
				continue
			}
			subDir := filepath.Join(dir, sub.Name())
			if !s.isDir(sub, subDir) {
				continue
			}
			packages = append(packages, Package{Name: name + "/" + sub.Name(), Dir: subDir})
		}
	}

	sort.SliceStable(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})
	return packages
}

// ScanPackage locates the plugin descriptors of a single package
func (s *Scanner) ScanPackage(pkg Package) []types.LinkRecord {
	found := s.descriptorsIn(pkg.Dir)

	if len(found) == 0 {
		found = s.pluginFolder(pkg.Dir)
	}
	if len(found) == 0 {
		found = s.searchRecursive(pkg.Dir)
	}

	seen := make(map[string]bool, len(found))
	records := make([]types.LinkRecord, 0, len(found))
	for _, d := range found {
		if seen[d.name] {
			continue
		}
		seen[d.name] = true
		records = append(records, types.LinkRecord{
			PluginName:  d.name,
			PackageName: pkg.Name,
			TargetDir:   d.dir,
		})
	}

	if len(records) > 0 {
		s.logger.Debug().
			Str("package", pkg.Name).
			Int("plugins", len(records)).
			Msg("Found plugins in package")
	}
	return records
}

type descriptor struct {
	name string
	dir  string
}

// PluginName returns the plugin name for a descriptor filename, or false when
// the file is not a descriptor or its stem is not a usable entry name. The suffix is matched case-insensitively and
// stripped by length so the stem keeps its original spelling.
func PluginName(filename, extension string) (string, bool) {
	if len(filename) <= len(extension) {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(filename), strings.ToLower(extension)) {
		return "", false
	}
	name := filename[:len(filename)-len(extension)]
	if !types.ValidPluginName(name) {
		return "", false
	}
	return name, true
}

func (s *Scanner) descriptorsIn(dir string) []descriptor {
	entries, ok := s.readDir(dir)
	if !ok {
		return nil
	}

	var found []descriptor
	for _, entry := range entries {
		name, ok := PluginName(entry.Name(), s.opts.Extension)
		if !ok {
			continue
		}
		if s.isDir(entry, filepath.Join(dir, entry.Name())) {
			continue
		}
		found = append(found, descriptor{name: name, dir: dir})
	}
	return found
}

func (s *Scanner) pluginFolder(pkgDir string) []descriptor {
	pluginDir := filepath.Join(pkgDir, s.opts.PluginDir)
	entries, ok := s.readDir(pluginDir)
	if !ok {
		return nil
	}

	found := s.descriptorsIn(pluginDir)
	for _, entry := range entries {
		sub := filepath.Join(pluginDir, entry.Name())
		if !s.isDir(entry, sub) {
			continue
		}
		found = append(found, s.descriptorsIn(sub)...)
	}
	return found
}

// searchRecursive walks the package breadth first so shallower descriptors
// win over deeper ones with the same name. Linked directories are not
// followed.
func (s *Scanner) searchRecursive(pkgDir string) []descriptor {
	var found []descriptor
	seen := make(map[string]bool)

	level := []string{pkgDir}
	for depth := 0; depth <= s.opts.MaxDepth && len(level) > 0; depth++ {
		var next []string
		for _, dir := range level {
			entries, ok := s.readDir(dir)
			if !ok {
				continue
			}
			for _, entry := range entries {
				if entry.IsDir() {
					if !s.skip[entry.Name()] {
						next = append(next, filepath.Join(dir, entry.Name()))
					}
					continue
				}
				name, ok := PluginName(entry.Name(), s.opts.Extension)
				if !ok || seen[name] {
					continue
				}
				seen[name] = true
				found = append(found, descriptor{name: name, dir: dir})
			}
		}
		level = next
	}
	return found
}

func (s *Scanner) readDir(dir string) ([]fs.DirEntry, bool) {
	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		s.logger.Trace().Err(err).Str("dir", dir).Msg("Skipping unreadable directory")
		return nil, false
	}
	return entries, true
}

// isDir resolves links so that linked package directories count as packages.
func (s *Scanner) isDir(entry fs.DirEntry, path string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := s.fs.Stat(path)
	return err == nil && info.IsDir()
}
