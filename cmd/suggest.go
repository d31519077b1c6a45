package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lessonroom/internal/assistant"
	"github.com/abhisek/lessonroom/internal/suggest"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Try generate_suggestion from the terminal (no plan is changed)",
	Long: `Ask the configured model for a field suggestion and refine it with
follow-up requests. Each follow-up sends the previous suggestion as the
current value. An empty line ends the session.

Nothing is written to a lesson plan.`,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().String("type", "", "Suggestion type: topic, content, goals, duration, activity")
	suggestCmd.Flags().String("field", "", "Field path to infer --type from (e.g. topic, main.0.content)")
	suggestCmd.Flags().String("context", "", "Context sent with the request")
	suggestCmd.Flags().String("value", "", "Current value of the field")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	kind, _ := cmd.Flags().GetString("type")
	field, _ := cmd.Flags().GetString("field")
	background, _ := cmd.Flags().GetString("context")
	current, _ := cmd.Flags().GetString("value")
	if kind == "" {
		if field == "" {
			return fmt.Errorf("one of --type or --field is required")
		}
		kind = suggest.TypeFor(field)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid LLM config: %w", err)
	}
	e, err := openEnv(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer e.Close()

	provider, err := e.provider(ctx)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	tools := assistant.NewServer(provider, assistant.DefaultConfig(), e.log)

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintf(out, "Type: %s  (model %s)\n\n", kind, provider.ModelID())

	message := ""
	for {
		req := map[string]any{
			"context":      background,
			"currentValue": current,
			"type":         kind,
		}
		if message != "" {
			req["message"] = message
		}
		res := tools.InvokeTool(ctx, assistant.ServerName, assistant.ToolGenerateSuggestion, req)
		if res.IsError() {
			return fmt.Errorf("%s: %s", res.Code, res.Error)
		}
		text := strings.TrimSpace(res.Text())
		if text == "" {
			fmt.Fprintln(out, suggest.MsgNoSuggestion)
		} else {
			fmt.Fprintln(out, text)
			current = text
		}

		fmt.Fprint(out, "\nבקשת המשתמש (Enter לסיום): ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		message = strings.TrimSpace(in.Text())
		if message == "" {
			return nil
		}
		fmt.Fprintln(out)
	}
}
