package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/httpapi"
	"github.com/abhisek/lessonroom/internal/llm"
)

const (
	pingTimeout       = 15 * time.Second
	janitorInterval   = time.Minute
	workspaceIdleTime = 30 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lesson planner HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := openEnv(ctx, cfg, false)
	if err != nil {
		return err
	}
	defer e.Close()
	log := e.log

	provider, err := e.provider(ctx)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	if cfg.LLM.Provider == llm.ProviderLMStudio {
		log.Info("checking local model server", "base_url", cfg.LLM.LMStudio.BaseURL)
		if err := llm.Ping(ctx, provider, pingTimeout); err != nil {
			return fmt.Errorf("LM Studio is not reachable: %w", err)
		}
	}

	tools := assistant.NewServer(provider, assistant.DefaultConfig(), log)
	workspaces := httpapi.NewWorkspaces(e.plans, e.resume, tools, log)
	srv := httpapi.NewServer(httpapi.RouterConfig{
		Auth:           httpapi.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.DevUser, log),
		Workspaces:     workspaces,
		Tools:          tools,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		Log:            log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.Server.Addr, "store", cfg.Store.Driver,
			"resume", cfg.Resume.Backend, "llm", cfg.LLM.Provider)
		return srv.Run(gctx, cfg.Server.Addr)
	})
	g.Go(func() error {
		return workspaces.Janitor(gctx, janitorInterval, workspaceIdleTime)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("server stopped")
	return nil
}
