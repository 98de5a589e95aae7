package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Extract analysis-ready text from a resume",
	Long:  "Extract, clean and truncate the text of a PDF, DOCX, HTML or plain text resume.",
	RunE:  runNormalize,
}

var (
	normalizeIn  string
	normalizeOut string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeIn, "in", "i", "", "Path to the resume document (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Output file for the cleaned text (default: stdout)")

	_ = normalizeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(normalizeIn)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", normalizeIn, err)
	}

	doc, err := ingestion.ExtractDocument(data, filepath.Base(normalizeIn), appConfig.DocumentOptions())
	if err != nil {
		return err
	}
	slog.Debug("document normalized",
		slog.String("format", string(doc.Format)),
		slog.Int("pages", doc.Pages),
		slog.Bool("truncated", doc.Truncated))

	if normalizeOut == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
		return err
	}
	if err := os.WriteFile(normalizeOut, []byte(doc.Text), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", normalizeOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleaned text: %s\n", normalizeOut)
	return nil
}
