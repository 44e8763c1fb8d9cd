// Package manifest persists the set of links pluglink created in a
// destination directory. The manifest is advisory: any failure to read it
// means "no prior state", never an error.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/types"
)

// DefaultManager is the manager name used in the manifest file name
const DefaultManager = "pluglink"

// File is the on-disk shape of the manifest
type File struct {
	Links []types.LinkRecord `json:"links"`
}

// FileName returns the manifest file name for a manager
func FileName(manager string) string {
	if manager == "" {
		manager = DefaultManager
	}
	return fmt.Sprintf(".%s_links.json", manager)
}

// Path returns the manifest location inside destDir
func Path(destDir, manager string) string {
	return filepath.Join(destDir, FileName(manager))
}

// Exists reports whether a manifest file is present
func Exists(fs types.FS, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// Load reads the manifest at path keyed by plugin name.
// Missing files, corrupt JSON and unexpected shapes all yield an empty map.
// Invalid entries are dropped one by one; for repeated names the first wins.
func Load(fs types.FS, path string) map[string]types.LinkRecord {
	logger := logging.GetLogger("manifest").With().Str("path", path).Logger()
	records := make(map[string]types.LinkRecord)

	data, err := fs.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Debug().Err(err).Msg("Manifest unreadable, treating as empty")
		}
		return records
	}

	var raw struct {
		Links []json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn().Err(err).Msg("Manifest is corrupt, treating as empty")
		return records
	}

	for i, msg := range raw.Links {
		var rec types.LinkRecord
		if err := json.Unmarshal(msg, &rec); err != nil || !rec.Valid() {
			logger.Debug().Int("index", i).Msg("Dropping malformed manifest entry")
			continue
		}
		if _, dup := records[rec.PluginName]; dup {
			logger.Debug().Str("plugin", rec.PluginName).Msg("Dropping duplicate manifest entry")
			continue
		}
		records[rec.PluginName] = rec
	}

	logger.Debug().Int("entries", len(records)).Msg("Manifest loaded")
	return records
}

// Sorted returns the records ordered by plugin name
func Sorted(records map[string]types.LinkRecord) []types.LinkRecord {
	list := make([]types.LinkRecord, 0, len(records))
	for _, rec := range records {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].PluginName < list[j].PluginName
	})
	return list
}

// Save replaces the manifest at path with records. The file is written to a
// temporary sibling first and renamed into place.
func Save(fs types.FS, path string, records map[string]types.LinkRecord) error {
	data, err := json.MarshalIndent(File{Links: Sorted(records)}, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrManifestEncode, "failed to encode manifest")
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to write manifest %s", path)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrManifestWrite, "failed to replace manifest %s", path)
	}

	logger := logging.GetLogger("manifest")
	logger.Debug().
		Str("path", path).
		Int("entries", len(records)).
		Msg("Manifest saved")
	return nil
}

// Remove deletes the manifest file; a missing file is not an error
func Remove(fs types.FS, path string) error {
	if err := fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrManifestRemove, "failed to remove manifest %s", path)
	}
	return nil
}
