// Package models defines the data structures for the roommate matching engine.
package models

import (
	"time"
)

// MatchKind distinguishes roommate-to-roommate matches from profile-to-listing
// matches.
type MatchKind string

const (
	MatchKindRoommate MatchKind = "roommate"
	MatchKindListing  MatchKind = "listing"
)

// PreferenceSummary carries a candidate's resolved preference values for
// display alongside a roommate match.
type PreferenceSummary struct {
	Cleanliness    PreferenceLevel `json:"cleanliness"`
	Noise          PreferenceLevel `json:"noise_level"`
	StudyTime      PreferenceLevel `json:"study_time"`
	Social         PreferenceLevel `json:"social_level"`
	Sleep          PreferenceLevel `json:"sleep_schedule"`
	BudgetMidpoint float64         `json:"budget_midpoint,omitempty"`
	Year           string          `json:"year,omitempty"`
	Major          string          `json:"major,omitempty"`
}

// MatchResult is the output record for a single scored candidate. Constructed
// fresh per request and never persisted by the engine itself; callers may
// store results through the match repository.
type MatchResult struct {
	CandidateID string             `json:"candidate_id"`
	Score       float64            `json:"score"`
	Percentage  int                `json:"percentage"`
	Reasons     []string           `json:"reasons"`
	Preferences *PreferenceSummary `json:"preferences,omitempty"`
}

// Match represents a persisted match record.
type Match struct {
	ID          int64     `json:"id" db:"id"`
	SubjectID   string    `json:"subject_id" db:"subject_id"`
	CandidateID string    `json:"candidate_id" db:"candidate_id"`
	Kind        MatchKind `json:"kind" db:"kind"`
	Score       float64   `json:"score" db:"score"`
	Percentage  int       `json:"percentage" db:"percentage"`
	Reasons     []string  `json:"reasons" db:"reasons"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// MatchCreate represents data needed to persist a match result for a subject.
type MatchCreate struct {
	SubjectID   string    `json:"subject_id"`
	CandidateID string    `json:"candidate_id"`
	Kind        MatchKind `json:"kind"`
	Score       float64   `json:"score"`
	Percentage  int       `json:"percentage"`
	Reasons     []string  `json:"reasons"`
}

// MatchSummary contains aggregate statistics over the stored match table.
type MatchSummary struct {
	TotalMatches        int     `json:"total_matches"`
	SubjectsWithMatches int     `json:"subjects_with_matches"`
	RoommateMatches     int     `json:"roommate_matches"`
	ListingMatches      int     `json:"listing_matches"`
	AvgScore            float64 `json:"avg_score"`
}

// NewMatchCreate builds a persistable record from an in-memory result.
func NewMatchCreate(subjectID string, kind MatchKind, result *MatchResult) *MatchCreate {
	return &MatchCreate{
		SubjectID:   subjectID,
		CandidateID: result.CandidateID,
		Kind:        kind,
		Score:       result.Score,
		Percentage:  result.Percentage,
		Reasons:     result.Reasons,
	}
}
