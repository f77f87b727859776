// Package main provides the entry point for the resume parser CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/logger"
)

var (
	configFile string
	debugLogs  bool
	jsonLogs   bool

	appConfig *config.Config
	appLogger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "resume_parser",
	Short: "Resume entity extraction and job compatibility scoring",
	Long: "resume_parser extracts structured entities (contact, education, experience, skills) from PDF, DOCX, " +
		"image, HTML and text resumes and scores them against job descriptions, from the command line or over HTTP.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Emit logs as JSON")
}

// setup loads configuration and builds the logger before any command runs
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("debug") {
		cfg.Log.Debug = debugLogs
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.Log.JSON = jsonLogs
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	appConfig = cfg
	appLogger = log
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	err := rootCmd.Execute()
	_ = appLogger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
