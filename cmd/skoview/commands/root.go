package commands

import (
	"context"

	"skoview/internal/config"
	"skoview/internal/dashboard"
	"skoview/internal/logging"
	"skoview/internal/preselect"
	"skoview/internal/state"
	"skoview/internal/tpdb"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	// newClient is replaced in tests.
	newClient = func(c tpdb.Config) tpdb.Client { return tpdb.NewClient(c) }
)

var rootCmd = &cobra.Command{
	Use:   "skoview",
	Short: "skoview serves the national service platform statistics dashboard as MCP tools",
	Long: `skoview reads integrations and call statistics from TPDB and exposes the
statistics dashboard (pre-selections, item selection, bookmarks) as an MCP server
on stdio. The stat and open subcommands give one-shot access from a terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(logging.Options{Verbose: verbose}); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration")
			return err
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("skoview starting")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), "")
	},
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.AddCommand(serveCmd, statCmd, openCmd)
}

// newSession wires a store and a TPDB client for one command run. The
// configured default statistics platform is applied before anything loads.
func newSession(observers ...state.Observer) *dashboard.Session {
	observers = append([]state.Observer{state.LogObserver}, observers...)
	store := state.NewStore(preselect.Builtin(), observers...)
	if cfg.DefaultStatTpID != 0 && cfg.DefaultStatTpID != state.KeepSelectionTpID {
		store.Dispatch(state.StatTpSelected{TpID: cfg.DefaultStatTpID})
	}
	return dashboard.NewSession(newClient(cfg.TPDB), store)
}
