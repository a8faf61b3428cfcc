package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"goalplan-backend/internal/config"
	"goalplan-backend/internal/goals"
	"goalplan-backend/internal/logging"
	"goalplan-backend/internal/storage"
)

type rootFlags struct {
	configPath string
	store      string
	dataDir    string
	redisURL   string
	relayURL   string
	verbose    bool
}

// app is built once per invocation in PersistentPreRunE.
type app struct {
	cfg    *config.ClientConfig
	logger *zap.Logger
	kv     storage.KV
	store  *goals.Store
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     = &app{}
	)

	root := &cobra.Command{
		Use:   "goals",
		Short: "Track personal goals and ask the relay for an improvement plan",
		Long: `goals keeps a personal goal list on this machine and asks the
generate-plan relay for an AI plan to reach them.

Goals are stored locally (file, sqlite or redis). The relay holds the Gemini
credential; when it has none it answers with a deterministic mock plan.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, flags)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/goalplan/config.yaml)")
	pf.StringVar(&flags.store, "store", "", "storage backend: file, sqlite, redis, memory")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory for file and sqlite storage")
	pf.StringVar(&flags.redisURL, "redis-url", "", "redis URL for the redis backend")
	pf.StringVar(&flags.relayURL, "relay", "", "generate-plan relay base URL")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newPlanCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, flags rootFlags) error {
	cfg, err := config.LoadClient(flags.configPath)
	if err != nil {
		return err
	}
	if flags.store != "" {
		cfg.Store.Backend = flags.store
	}
	if flags.dataDir != "" {
		cfg.Store.DataDir = flags.dataDir
	}
	if flags.redisURL != "" {
		cfg.Store.RedisURL = flags.redisURL
	}
	if flags.relayURL != "" {
		cfg.RelayURL = flags.relayURL
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	a.logger, err = logging.New(cfg.LogLevel, true)
	if err != nil {
		return err
	}

	a.kv, err = storage.Open(cmd.Context(), storage.Options{
		Backend:  cfg.Store.Backend,
		DataDir:  cfg.Store.DataDir,
		RedisURL: cfg.Store.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	a.logger.Debug("store opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("data_dir", cfg.Store.DataDir))

	a.store = goals.NewStore(a.kv, goals.WithLogger(a.logger.Named("goals")))
	a.store.Load(cmd.Context())
	return nil
}

func (a *app) close() {
	if a.kv != nil {
		_ = a.kv.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}
