package cmd

import (
	"context"
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonroom/internal/config"
	"github.com/abhisek/lessonroom/internal/llm"
	"github.com/abhisek/lessonroom/internal/logger"
	"github.com/abhisek/lessonroom/internal/pgstore"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
	"github.com/abhisek/lessonroom/internal/store"
)

var _ resume.Backend = (*store.ResumeRepo)(nil)

// env holds the collaborators shared by the commands.
type env struct {
	cfg    config.Config
	log    *logger.Logger
	store  *store.Store
	plans  planner.PlanRepo
	resume resume.Backend

	closers []func() error
}

// loadConfig reads --config and applies --db.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using the config (which already
// carries --db and LESSONROOM_DB), then the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if p := cfg.Store.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openEnv builds the logger, plan repository and resume backend from
// configuration. interactive selects a logger that never writes to the
// terminal unless a log file is configured.
func openEnv(ctx context.Context, cfg config.Config, interactive bool) (*env, error) {
	e := &env{cfg: cfg}

	switch {
	case interactive && cfg.Log.File == "":
		e.log = logger.Nop()
	default:
		l, err := logger.New(cfg.Log.Mode, cfg.Log.File)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		e.log = l
		e.closers = append(e.closers, func() error { l.Sync(); return nil })
	}

	switch cfg.Store.Driver {
	case config.StoreSQLite:
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		e.store = st
		e.plans = st.PlanRepo()
		e.closers = append(e.closers, st.Close)
	case config.StorePostgres:
		repo, err := pgstore.Open(cfg.Store.DSN)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		e.plans = repo
		e.closers = append(e.closers, repo.Close)
	case config.StoreMemory:
		e.plans = planner.NewMemoryRepo()
	default:
		e.Close()
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}

	switch cfg.Resume.Backend {
	case config.ResumeStore:
		if e.store == nil {
			e.Close()
			return nil, fmt.Errorf("resume backend %q needs the sqlite store", config.ResumeStore)
		}
		e.resume = e.store.ResumeRepo()
	case config.ResumeRedis:
		r, err := resume.DialRedis(ctx, cfg.Resume.Redis)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("connect resume backend: %w", err)
		}
		e.resume = r
		e.closers = append(e.closers, r.Close)
	default:
		e.resume = resume.NewMemory()
	}

	return e, nil
}

// events returns the LLM event repository, or nil when plans are not kept
// in SQLite.
func (e *env) events() store.EventRepo {
	if e.store == nil {
		return nil
	}
	return e.store.EventRepo()
}

// provider builds the configured LLM provider with retry and logging.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	return llm.NewProvider(ctx, e.cfg.LLM, e.events(), e.log)
}

// Close releases resources in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			fmt.Fprintln(os.Stderr, "close:", err)
		}
	}
	e.closers = nil
}

// identity returns the --user and --client flags, defaulting the user to
// the OS account name.
func identity(cmd *cobra.Command) (userID, clientID string) {
	userID, _ = cmd.Flags().GetString("user")
	clientID, _ = cmd.Flags().GetString("client")
	if userID == "" {
		if u, err := user.Current(); err == nil && u.Username != "" {
			userID = u.Username
		} else {
			userID = "local"
		}
	}
	if clientID == "" {
		clientID = "terminal"
	}
	return userID, clientID
}
