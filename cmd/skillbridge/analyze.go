package main

import (
	"github.com/jonathan/skillbridge/internal/ingestion"
	"github.com/jonathan/skillbridge/internal/observability"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare a resume against a job description",
	Long:  "Score how well a resume matches a job description and list the matching and missing skills.",
	RunE:  runAnalyze,
}

var (
	analyzeResume     string
	analyzeJob        string
	analyzeJobURL     string
	analyzeUseBrowser bool
	analyzeOut        string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the resume document (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to a text file with the job description")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL of the job posting")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render the job page in a headless browser when needed")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the skill gap JSON to this file")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	data, name, err := readDocument(analyzeResume)
	if err != nil {
		return err
	}
	if err := checkJobFlags(analyzeJob, analyzeJobURL); err != nil {
		return err
	}

	ctx := cmd.Context()
	d, err := buildDeps(ctx, appConfig, needs{analysis: true})
	if err != nil {
		return err
	}
	defer d.Close()

	doc, err := d.pipeline.NormalizeDocument(data, name)
	if err != nil {
		return err
	}
	job, err := readJob(ctx, d.pipeline, analyzeJob, analyzeJobURL, analyzeUseBrowser)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintWarnings(ingestion.ContentWarnings(doc.Text, job))

	gap, err := d.pipeline.Analyze(ctx, doc.Text, job)
	if err != nil {
		return err
	}

	if analyzeOut == "" {
		printer.PrintSkillGap(gap)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), analyzeOut, gap)
}
