package main

import (
	"fmt"
	"os"

	"github.com/jonathan/skillbridge/internal/observability"
	"github.com/jonathan/skillbridge/internal/pipeline"
	"github.com/jonathan/skillbridge/internal/report"
	"github.com/jonathan/skillbridge/internal/types"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline and export a report",
	Long: `Normalize the resume, analyze it against the job description, recommend
videos for the selected skill and export the combined report as JSON.
The first missing skill is selected unless --skill is given.`,
	RunE: runPipeline,
}

var (
	runResume     string
	runJob        string
	runJobURL     string
	runUseBrowser bool
	runSkill      string
	runSkipRecs   bool
	runOut        string
)

func init() {
	runCmd.Flags().StringVarP(&runResume, "resume", "r", "", "Path to the resume document (required)")
	runCmd.Flags().StringVarP(&runJob, "job", "j", "", "Path to a text file with the job description")
	runCmd.Flags().StringVarP(&runJobURL, "job-url", "u", "", "URL of the job posting")
	runCmd.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Render the job page in a headless browser when needed")
	runCmd.Flags().StringVarP(&runSkill, "skill", "s", "", "Skill to recommend videos for")
	runCmd.Flags().BoolVar(&runSkipRecs, "no-recommendations", false, "Stop after the analysis")
	runCmd.Flags().StringVarP(&runOut, "out", "o", "", "Report path (default: generated file name in the current directory)")

	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	data, name, err := readDocument(runResume)
	if err != nil {
		return err
	}
	if err := checkJobFlags(runJob, runJobURL); err != nil {
		return err
	}
	var jobText string
	if runJob != "" {
		raw, err := os.ReadFile(runJob)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", runJob, err)
		}
		jobText = string(raw)
	}

	ctx := cmd.Context()
	d, err := buildDeps(ctx, appConfig, needs{analysis: true, search: !runSkipRecs})
	if err != nil {
		return err
	}
	defer d.Close()

	printer := observability.NewPrinter(cmd.OutOrStdout())
	res, err := d.pipeline.Run(ctx, pipeline.RunOptions{
		ResumeData:          data,
		ResumeName:          name,
		JobText:             jobText,
		JobURL:              runJobURL,
		Skill:               runSkill,
		SkipRecommendations: runSkipRecs,
		UseBrowser:          runUseBrowser,
		OnProgress: func(ev pipeline.ProgressEvent) {
			if appConfig.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", ev.Step, ev.Message)
			}
		},
	})
	if err != nil {
		return err
	}

	printer.PrintWarnings(res.Warnings)
	printer.PrintSkillGap(res.SkillGap)
	if res.Recommendation != nil {
		printer.PrintRecommendations(res.Recommendation)
	}

	path, err := writeReport(res.Report, runOut)
	if err != nil {
		return err
	}
	printer.PrintReport(res.Report, path)
	return nil
}

// writeReport exports r to path, or to its generated file name in the
// current directory when path is empty, and returns where it was written.
func writeReport(r types.Report, path string) (string, error) {
	out, err := report.Export(r)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = report.Filename(r)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
