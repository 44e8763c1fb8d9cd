package pluglink

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep a plugin folder in sync with installed packages"
	MsgSyncShort       = "Link plugins from installed packages"
	MsgListShort       = "List plugins recorded in the manifest"
	MsgStatusShort     = "Show the state of every plugin"
	MsgCleanShort      = "Remove every entry pluglink created"
	MsgConfigShort     = "Show the effective configuration"
	MsgConfigInitShort = "Write a commented .pluglink.toml to the project root"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgConfigCreated = "Created %s"
	MsgVersionFormat = "pluglink version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrInitPaths  = "failed to initialize project: %w"
	MsgErrRenderer   = "failed to create renderer: %w"
	MsgErrNoCommand  = "no command specified"
	MsgErrInitConfig = "failed to create config: %w"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without executing them"
	MsgFlagForce    = "Recreate managed entries even if they are up to date"
	MsgFlagProject  = "Project root holding node_modules (default: nearest package.json)"
	MsgFlagDest     = "Destination folder, relative to the project root unless absolute"
	MsgFlagMode     = "Link mode: auto (symlink or junction) or copy"
	MsgFlagFormat   = "Output format: auto, term, text, json or yaml"
	MsgFlagConfigAs = "Config output format: toml or yaml"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/sync-long.txt
	msgSyncLongRaw string
	MsgSyncLong    = strings.TrimSpace(msgSyncLongRaw)

	//go:embed msgs/sync-example.txt
	msgSyncExampleRaw string
	MsgSyncExample    = strings.TrimRight(msgSyncExampleRaw, "\n")

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/clean-long.txt
	msgCleanLongRaw string
	MsgCleanLong    = strings.TrimSpace(msgCleanLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/fallback-warning.txt
	msgFallbackWarningRaw string
	MsgFallbackWarning    = strings.TrimSpace(msgFallbackWarningRaw) + "\n"

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
