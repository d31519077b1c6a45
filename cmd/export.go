package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonroom/internal/export"
	"github.com/abhisek/lessonroom/internal/plan"
	"github.com/abhisek/lessonroom/internal/resume"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a lesson plan as a text document",
	Long: `Write the active lesson plan of --user/--client, or the plan named by
--plan, as the plain-text document handed to instructors.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("plan", "", "Plan ID to export instead of the active plan")
	exportCmd.Flags().Bool("stdout", false, "Print the document instead of writing a file")
}

func runExport(cmd *cobra.Command, args []string) error {
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

	userID, clientID := identity(cmd)
	planID, _ := cmd.Flags().GetString("plan")
	if planID == "" {
		id, ok, err := resume.Scope(e.resume, clientID).Load(ctx, resume.KeyPlanID)
		if err != nil {
			return fmt.Errorf("read resume store: %w", err)
		}
		if !ok || id == "" {
			return fmt.Errorf("no active lesson plan for client %q", clientID)
		}
		planID = id
	}

	p, err := e.plans.Get(ctx, planID)
	if errors.Is(err, plan.ErrNotFound) {
		return fmt.Errorf("lesson plan %s not found", planID)
	}
	if err != nil {
		return fmt.Errorf("load lesson plan: %w", err)
	}
	if p.UserID != userID {
		return fmt.Errorf("lesson plan %s belongs to another user", planID)
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		return export.Write(cmd.OutOrStdout(), p)
	}
	dir, _ := cmd.Flags().GetString("out")
	path, err := export.WriteFile(dir, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "הקובץ נשמר:", path)
	return nil
}
