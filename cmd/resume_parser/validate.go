package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a parse result against its JSON Schema",
	Long: "Validate a parse result (or a bare resume record) against the embedded JSON Schema. " +
		"Use --schema to validate against a schema file instead.",
	RunE: runValidate,
}

var (
	validateInput  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "JSON file to validate")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "JSON Schema file (default: embedded schema)")
	_ = validateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	var err error
	if validateSchema != "" {
		err = schemas.ValidateJSON(validateSchema, validateInput)
	} else {
		err = schemas.ValidateFile(validateInput)
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Fprintln(cmd.OutOrStdout(), "Validation failed")
		for _, fe := range validationErr.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s does not match the schema", validateInput)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
	return nil
}
