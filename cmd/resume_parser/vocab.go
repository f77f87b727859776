package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/db"
	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage the skill and company vocabularies",
}

var vocabImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import skill and company vocabularies into PostgreSQL",
	Long: "Create the vocabulary tables if needed and insert the skills and companies from the given files " +
		"(the embedded lists when a file is omitted). Existing entries are kept.",
	RunE: runVocabImport,
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the vocabulary the parser would load with the current config",
	RunE:  runVocabList,
}

var (
	vocabSkillsFile    string
	vocabCompaniesFile string
	vocabDatabaseURL   string
)

func init() {
	vocabImportCmd.Flags().StringVar(&vocabSkillsFile, "skills", "", "Skills JSON file ({\"skills\": [...]})")
	vocabImportCmd.Flags().StringVar(&vocabCompaniesFile, "companies", "", "Companies JSON file ({\"companies\": [...]})")
	vocabImportCmd.Flags().StringVar(&vocabDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL)")

	vocabCmd.AddCommand(vocabImportCmd, vocabListCmd)
	rootCmd.AddCommand(vocabCmd)
}

func runVocabImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	databaseURL := vocabDatabaseURL
	if databaseURL == "" {
		databaseURL = appConfig.DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or use --db-url)")
	}

	v, err := vocab.LoadFile(vocabSkillsFile, vocabCompaniesFile)
	if err != nil {
		return err
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureVocabularySchema(ctx); err != nil {
		return err
	}
	inserted, err := database.ImportVocabulary(ctx, v.Skills(), v.Companies())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new entries (%d skills, %d companies read)\n",
		inserted, len(v.Skills()), len(v.Companies()))
	return nil
}

func runVocabList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := pipeline.LoadVocabulary(ctx, appConfig)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), "", map[string][]string{
		"skills":    v.Skills(),
		"companies": v.Companies(),
	})
}
