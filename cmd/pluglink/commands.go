package pluglink

import (
	"fmt"

	"github.com/arthur-debert/pluglink/internal/version"
	"github.com/arthur-debert/pluglink/pkg/commands"
	"github.com/arthur-debert/pluglink/pkg/logging"
	"github.com/arthur-debert/pluglink/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// initSession resolves the project and shows a warning if using fallback
func initSession(cmd *cobra.Command, flags *globalFlags) (*commands.Session, error) {
	s, err := commands.NewSession(commands.GlobalOptions{
		ProjectRoot: flags.project,
		Dest:        flags.dest,
		Mode:        flags.mode,
		Format:      flags.format,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	if s.Paths.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, s.Paths.ProjectRoot())
	}
	return s, nil
}

// newRenderer picks the renderer for the session's output format
func newRenderer(cmd *cobra.Command, s *commands.Session) (ui.Renderer, error) {
	format, err := ui.ParseFormat(s.Config.Output.Format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrRenderer, err)
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, fmt.Errorf(MsgErrRenderer, err)
	}
	return renderer, nil
}

func newSyncCmd(flags *globalFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "sync",
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}

			report, err := commands.Sync(s, commands.SyncOptions{DryRun: flags.dryRun, Force: force})
			if report != nil {
				if rerr := renderer.RenderResult(report); rerr != nil {
					log.Error().Err(rerr).Msg("Failed to render sync report")
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}

			report, err := commands.List(s)
			if err != nil {
				return err
			}
			return renderer.RenderResult(report)
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}
			return renderer.RenderResult(commands.Status(s))
		},
	}
}

func newCleanCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Short:   MsgCleanShort,
		Long:    MsgCleanLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}

			report, err := commands.Clean(s, commands.SyncOptions{DryRun: flags.dryRun})
			if report != nil {
				if rerr := renderer.RenderResult(report); rerr != nil {
					log.Error().Err(rerr).Msg("Failed to render clean report")
				}
			}
			return err
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}

			logger := logging.GetLogger("cmd.config")
			logger.Debug().Strs("files", s.Config.Files).Str("as", as).Msg("Rendering config")

			out, err := commands.ShowConfig(s, as)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&as, "as", "toml", MsgFlagConfigAs)
	_ = cmd.RegisterFlagCompletionFunc("as", fixedCompletion("toml", "yaml"))

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: MsgConfigInitShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initSession(cmd, flags)
			if err != nil {
				return err
			}
			renderer, err := newRenderer(cmd, s)
			if err != nil {
				return err
			}

			path, err := commands.InitConfig(s)
			if err != nil {
				return fmt.Errorf(MsgErrInitConfig, err)
			}
			return renderer.RenderMessage(fmt.Sprintf(MsgConfigCreated, path))
		},
	})

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: MsgCompletionShort,
		Long: `To load completions:

Bash:
  $ source <(pluglink completion bash)

Zsh:
  $ pluglink completion zsh > "${fpath[1]}/_pluglink"

Fish:
  $ pluglink completion fish | source

PowerShell:
  PS> pluglink completion powershell | Out-String | Invoke-Expression
`,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
