package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/daybook/internal/config"
	"github.com/nhle/daybook/internal/graph"
	"github.com/nhle/daybook/internal/store"
)

var (
	configPath = config.DefaultPath()
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Daily checklists, item groups and end-of-day reports",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel == "" {
			return
		}
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			log.WithError(err).Fatal("cannot parse log-level")
		}
		log.SetLevel(level)
		log.Debug("debug logging enabled")
	},
	SilenceUsage: true,
}

// env is the opened application state shared by the subcommands.
type env struct {
	cfg   *config.Config
	store *store.SQLiteStore
	graph *graph.Store
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	if logLevel == "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return nil, errors.Wrap(err, "parsing log.level")
		}
		log.SetLevel(level)
	}

	path := cfg.DatabasePath()
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}
	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not open database")
	}

	snap, err := st.Load(ctx)
	if err != nil {
		st.Close()
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	g := graph.New(graph.WithPersister(st))
	if err := g.Import(snap); err != nil {
		st.Close()
		return nil, errors.Wrapf(err, "importing %s", path)
	}
	log.WithFields(log.Fields{"path": path, "nodes": len(snap.Nodes)}).Debug("opened database")
	return &env{cfg: cfg, store: st, graph: g}, nil
}

func (e *env) Close() {
	if err := e.store.Close(); err != nil {
		log.WithError(err).Warn("closing database")
	}
}

// withEnv adapts a command body that needs the opened application state.
func withEnv(run func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()
		return run(cmd, args, e)
	}
}

// parseDay reads a YYYY-MM-DD flag value; empty means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	day, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return day, nil
}

func main() {
	// Add some millisecond precision to log timestamps.
	formatter := new(log.TextFormatter)
	formatter.TimestampFormat = "2006-01-02T15:04:05.999Z07:00"
	formatter.FullTimestamp = true
	log.SetFormatter(formatter)

	rootCmd.AddCommand(
		NewChecklistCommand(),
		NewGroupCommand(),
		NewReportCommand(),
		NewRemindersCommand(),
		NewChatCommand(),
	)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", configPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (trace,debug,info,warn,error) (default from config)")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Fatal("could not execute root command")
	}
}
