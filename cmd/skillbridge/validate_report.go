package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/skillbridge/internal/report"
	"github.com/jonathan/skillbridge/internal/schemas"
	"github.com/spf13/cobra"
)

var validateReportCmd = &cobra.Command{
	Use:   "validate-report",
	Short: "Check an exported report against the report schema",
	RunE:  runValidateReport,
}

var validateReportIn string

func init() {
	validateReportCmd.Flags().StringVarP(&validateReportIn, "in", "i", "", "Path to the report JSON (required)")
	_ = validateReportCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(validateReportCmd)
}

func runValidateReport(cmd *cobra.Command, _ []string) error {
	err := report.ValidateFile(validateReportIn)
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		for _, fe := range validationErr.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%s is not a valid report (%d problems)", validateReportIn, len(validationErr.Errors))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid report\n", validateReportIn)
	return nil
}
