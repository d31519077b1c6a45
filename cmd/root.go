package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lessonroom",
	Short: "Lesson planner for the immersive room",
	Long:  "Lesson Room: plan lessons for the three-screen immersive classroom with an AI assistant.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWizard(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/lessonroom/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LESSONROOM_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "User id that owns the lesson plan (default: OS user)")
	rootCmd.PersistentFlags().String("client", "terminal", "Client id used to resume the last plan and step")
	rootCmd.PersistentFlags().String("out", ".", "Directory for exported lesson plans")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
