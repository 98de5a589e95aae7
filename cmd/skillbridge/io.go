package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/skillbridge/internal/pipeline"
)

// readDocument reads a resume file for normalization.
func readDocument(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("--resume is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, filepath.Base(path), nil
}

// checkJobFlags requires exactly one of a job file or a job URL.
func checkJobFlags(jobFile, jobURL string) error {
	if jobFile == "" && jobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided")
	}
	if jobFile != "" && jobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	return nil
}

// readJob returns the normalized job description from a file or a URL.
func readJob(ctx context.Context, p *pipeline.Pipeline, jobFile, jobURL string, useBrowser bool) (string, error) {
	if jobURL != "" {
		return p.IngestJobURL(ctx, jobURL, useBrowser)
	}
	data, err := os.ReadFile(jobFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", jobFile, err)
	}
	return p.NormalizeJob(string(data))
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
