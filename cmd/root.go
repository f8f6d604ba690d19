package cmd

import (
	"os"

	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pdfquiz",
	Short: "Turn documents into replayable quizzes",
	Long:  "pdfquiz extracts multiple-choice questions from a PDF or text document and runs interactive quiz sessions over them in the terminal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is fine; variables already set take precedence.
		_ = godotenv.Load()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PDFQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("redis", "", "Redis URL for quiz, history and preference slots (overrides PDFQUIZ_REDIS_URL env var)")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PDFQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveRedisURL returns the --redis flag, then PDFQUIZ_REDIS_URL. Empty
// means slots live in SQLite.
func resolveRedisURL(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("redis"); u != "" {
		return u
	}
	return os.Getenv("PDFQUIZ_REDIS_URL")
}
