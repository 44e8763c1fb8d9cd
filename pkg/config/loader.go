package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/arthur-debert/pluglink/pkg/errors"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides, PLUGLINK_<SECTION>_<KEY>
	EnvPrefix = "PLUGLINK_"

	// ProjectConfigFile is read from the project root
	ProjectConfigFile = ".pluglink.toml"
)

// userConfigFiles are tried in order inside the user config directory
var userConfigFiles = []string{"config.toml", "config.yaml", "config.yml"}

// Sources tells Load where to look beyond the embedded defaults
type Sources struct {
	// UserConfigDir holds config.toml or config.yaml; empty skips the layer
	UserConfigDir string
	// ProjectRoot holds .pluglink.toml; empty skips the layer
	ProjectRoot string
	// SkipEnv ignores PLUGLINK_ environment variables
	SkipEnv bool
	// Overrides are dotted keys from the command line, highest precedence
	Overrides map[string]interface{}
}

// Loaded is a validated configuration plus the files it was read from
type Loaded struct {
	*Config
	Files []string
}

// Load merges every configuration layer, lowest precedence first:
// embedded defaults, user config, project config, environment, overrides.
func Load(src Sources) (*Loaded, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load embedded defaults")
	}

	var files []string

	// 2. User config
	if src.UserConfigDir != "" {
		for _, name := range userConfigFiles {
			path := filepath.Join(src.UserConfigDir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			files = append(files, path)
			break
		}
	}

	// 3. Project config
	if src.ProjectRoot != "" {
		path := filepath.Join(src.ProjectRoot, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(k, path); err != nil {
				return nil, err
			}
			files = append(files, path)
		}
	}

	// 4. Environment
	if !src.SkipEnv {
		if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
		}
	}

	// 5. Command line
	if len(src.Overrides) > 0 {
		if err := k.Load(confmap.Provider(src.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load command line overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().Strs("files", files).Msg("Configuration loaded")
	return &Loaded{Config: cfg, Files: files}, nil
}

// Default returns the embedded defaults alone
func Default() *Config {
	loaded, err := Load(Sources{SkipEnv: true})
	if err != nil {
		// The embedded file is part of the binary
		panic(err)
	}
	return loaded.Config
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser = toml.Parser()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// envKey maps PLUGLINK_DISCOVERY_MAX_DEPTH to discovery.max_depth. Only the
// first underscore separates the section, keys keep theirs.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToLinkModeHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

// stringToLinkModeHookFunc accepts the aliases ParseLinkMode knows about
func stringToLinkModeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(types.LinkMode("")) {
			return data, nil
		}
		mode, err := types.ParseLinkMode(reflect.ValueOf(data).String())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid link.mode").
				WithDetail("key", "link.mode")
		}
		return mode, nil
	}
}
