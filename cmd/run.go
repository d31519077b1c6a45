package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonroom/internal/app"
	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/interpreter"
	"github.com/abhisek/lessonroom/internal/planner"
	"github.com/abhisek/lessonroom/internal/resume"
)

// runWizard opens the store, builds dependencies, and launches the TUI.
func runWizard(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateStorage(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	e, err := openEnv(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer e.Close()

	var tools assistant.Invoker
	provider, err := e.provider(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will be unavailable.")
		tools = assistant.Unavailable{Reason: err.Error()}
	} else {
		tools = assistant.NewServer(provider, assistant.DefaultConfig(), e.log)
	}

	userID, clientID := identity(cmd)
	log := e.log.With("user_id", userID, "client_id", clientID)
	mgr := planner.New(e.plans, resume.Scope(e.resume, clientID), planner.WithLogger(log))
	outDir, _ := cmd.Flags().GetString("out")

	return app.Run(ctx, app.Options{
		Manager:     mgr,
		Interpreter: interpreter.New(tools, mgr, log),
		Tools:       tools,
		UserID:      userID,
		ExportDir:   outDir,
		Log:         log,
	})
}
