// Package types provides type definitions for structured data used throughout the skillbridge system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "slices"

// DefaultMaxCandidates is the number of videos kept in a RecommendationSet.
const DefaultMaxCandidates = 5

// VideoCandidate represents one recommended learning resource
type VideoCandidate struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Channel      string `json:"channel"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     string `json:"duration,omitempty"` // display string, e.g. "12:31"
}

// RecommendationSet is the ordered list of videos for one selected skill.
type RecommendationSet struct {
	SelectedSkill string           `json:"selected_skill"`
	Query         string           `json:"search_query"`
	Videos        []VideoCandidate `json:"videos"`
}

// Empty reports whether the set carries no videos.
func (r *RecommendationSet) Empty() bool {
	return r == nil || len(r.Videos) == 0
}

// Clone returns a deep copy of the set.
func (r *RecommendationSet) Clone() *RecommendationSet {
	if r == nil {
		return nil
	}
	out := *r
	out.Videos = slices.Clone(r.Videos)
	if out.Videos == nil {
		out.Videos = []VideoCandidate{}
	}
	return &out
}
