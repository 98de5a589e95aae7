package main

import (
	"github.com/jonathan/skillbridge/internal/observability"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Find learning videos for a skill",
	RunE:  runRecommend,
}

var (
	recommendSkill string
	recommendOut   string
)

func init() {
	recommendCmd.Flags().StringVarP(&recommendSkill, "skill", "s", "", "Skill to learn (required)")
	recommendCmd.Flags().StringVarP(&recommendOut, "out", "o", "", "Write the recommendation JSON to this file")

	_ = recommendCmd.MarkFlagRequired("skill")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	d, err := buildDeps(ctx, appConfig, needs{search: true})
	if err != nil {
		return err
	}
	defer d.Close()

	rec, err := d.pipeline.Recommend(ctx, recommendSkill)
	if err != nil {
		return err
	}

	if recommendOut == "" {
		observability.NewPrinter(cmd.OutOrStdout()).PrintRecommendations(rec)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), recommendOut, rec)
}
