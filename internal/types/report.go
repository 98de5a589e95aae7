// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Report is an exportable snapshot of one analysis and at most one recommendation set.
type Report struct {
	GeneratedAt    time.Time          `json:"generated_at"`
	SkillGap       *SkillGap          `json:"skill_gap"`
	Recommendation *RecommendationSet `json:"recommendation"`
}
