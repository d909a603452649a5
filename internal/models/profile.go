// Package models defines the data structures for the roommate matching engine.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PreferenceLevel is a canonical lifestyle preference on the 1-5 scale.
type PreferenceLevel int

const (
	PreferenceVeryLow  PreferenceLevel = 1
	PreferenceLow      PreferenceLevel = 2
	PreferenceMedium   PreferenceLevel = 3
	PreferenceHigh     PreferenceLevel = 4
	PreferenceVeryHigh PreferenceLevel = 5
)

// preferenceLabels maps canonical labels to levels. Lookup is case-insensitive
// and tolerant of spaces and dashes as separators.
var preferenceLabels = map[string]PreferenceLevel{
	"very_low":  PreferenceVeryLow,
	"low":       PreferenceLow,
	"medium":    PreferenceMedium,
	"high":      PreferenceHigh,
	"very_high": PreferenceVeryHigh,
}

// IsValid checks that the level is on the 1-5 scale.
func (p PreferenceLevel) IsValid() bool {
	return p >= PreferenceVeryLow && p <= PreferenceVeryHigh
}

// String returns the canonical ordinal label.
func (p PreferenceLevel) String() string {
	switch p {
	case PreferenceVeryLow:
		return "VERY_LOW"
	case PreferenceLow:
		return "LOW"
	case PreferenceMedium:
		return "MEDIUM"
	case PreferenceHigh:
		return "HIGH"
	case PreferenceVeryHigh:
		return "VERY_HIGH"
	}
	return "UNKNOWN"
}

// ParsePreferenceLevel converts a raw ordinal label or numeric string to a
// PreferenceLevel. Returns ErrInvalidPreferenceValue for anything that does
// not map onto the 1-5 scale.
func ParsePreferenceLevel(raw string) (PreferenceLevel, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, " ", "_")
	normalized = strings.ReplaceAll(normalized, "-", "_")

	if level, ok := preferenceLabels[normalized]; ok {
		return level, nil
	}

	if n, err := strconv.Atoi(normalized); err == nil {
		level := PreferenceLevel(n)
		if level.IsValid() {
			return level, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrInvalidPreferenceValue, raw)
}

// RawPreference holds a lifestyle preference as supplied by a caller: either
// an ordinal label ("HIGH") or an integer 1-5. The zero value means unset.
// JSON input may carry either encoding; both resolve through Level.
type RawPreference struct {
	Label string
	Value int
	Set   bool
}

// Pref builds a set RawPreference from an integer level. Convenience for
// stored profiles and tests.
func Pref(value int) RawPreference {
	return RawPreference{Value: value, Set: true}
}

// PrefLabel builds a set RawPreference from an ordinal label.
func PrefLabel(label string) RawPreference {
	return RawPreference{Label: label, Set: true}
}

// Level resolves the raw preference to the canonical scale. Unset values
// default to the scale midpoint so incomplete profiles still score.
func (r RawPreference) Level() (PreferenceLevel, error) {
	if !r.Set {
		return PreferenceMedium, nil
	}
	if r.Label != "" {
		return ParsePreferenceLevel(r.Label)
	}
	level := PreferenceLevel(r.Value)
	if !level.IsValid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPreferenceValue, r.Value)
	}
	return level, nil
}

// UnmarshalJSON accepts a JSON string label, a JSON number, or null.
func (r *RawPreference) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" || trimmed == `""` {
		*r = RawPreference{}
		return nil
	}

	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*r = RawPreference{Label: label, Set: true}
		return nil
	}

	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPreferenceValue, trimmed)
	}
	*r = RawPreference{Value: value, Set: true}
	return nil
}

// MarshalJSON emits the canonical label when the value resolves, otherwise
// whatever raw form is held.
func (r RawPreference) MarshalJSON() ([]byte, error) {
	if !r.Set {
		return []byte("null"), nil
	}
	if level, err := r.Level(); err == nil {
		return json.Marshal(level.String())
	}
	if r.Label != "" {
		return json.Marshal(r.Label)
	}
	return json.Marshal(r.Value)
}

// Profile represents a prospective roommate's matching-relevant attributes.
// The engine only ever reads profiles; all mutation happens through the
// profile repository.
type Profile struct {
	ID                string         `json:"id" db:"id"`
	Name              string         `json:"name" db:"name"`
	Email             string         `json:"email,omitempty" db:"email"`
	Year              string         `json:"year,omitempty" db:"year"`
	Major             string         `json:"major,omitempty" db:"major"`
	BudgetMin         float64        `json:"budget_min" db:"budget_min"`
	BudgetMax         float64        `json:"budget_max" db:"budget_max"`
	PreferredBedrooms int            `json:"preferred_bedrooms" db:"preferred_bedrooms"`
	Cleanliness       RawPreference  `json:"cleanliness"`
	Noise             RawPreference  `json:"noise_level"`
	StudyTime         RawPreference  `json:"study_time"`
	Social            RawPreference  `json:"social_level"`
	Sleep             RawPreference  `json:"sleep_schedule"`
	PetFriendly       bool           `json:"pet_friendly" db:"pet_friendly"`
	Smoking           bool           `json:"smoking" db:"smoking"`
	Amenities         []string       `json:"amenities,omitempty" db:"amenities"`
	Tags              []string       `json:"tags,omitempty" db:"tags"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// ProfileCreate represents the data needed to create or update a profile.
type ProfileCreate struct {
	ID                string        `json:"id,omitempty"`
	Name              string        `json:"name"`
	Email             string        `json:"email,omitempty"`
	Year              string        `json:"year,omitempty"`
	Major             string        `json:"major,omitempty"`
	BudgetMin         float64       `json:"budget_min"`
	BudgetMax         float64       `json:"budget_max"`
	PreferredBedrooms int           `json:"preferred_bedrooms"`
	Cleanliness       RawPreference `json:"cleanliness"`
	Noise             RawPreference `json:"noise_level"`
	StudyTime         RawPreference `json:"study_time"`
	Social            RawPreference `json:"social_level"`
	Sleep             RawPreference `json:"sleep_schedule"`
	PetFriendly       bool          `json:"pet_friendly"`
	Smoking           bool          `json:"smoking"`
	Amenities         []string      `json:"amenities,omitempty"`
	Tags              []string      `json:"tags,omitempty"`
}

// ToProfile converts creation data to a Profile.
func (p *ProfileCreate) ToProfile() *Profile {
	return &Profile{
		ID:                p.ID,
		Name:              p.Name,
		Email:             p.Email,
		Year:              p.Year,
		Major:             p.Major,
		BudgetMin:         p.BudgetMin,
		BudgetMax:         p.BudgetMax,
		PreferredBedrooms: p.PreferredBedrooms,
		Cleanliness:       p.Cleanliness,
		Noise:             p.Noise,
		StudyTime:         p.StudyTime,
		Social:            p.Social,
		Sleep:             p.Sleep,
		PetFriendly:       p.PetFriendly,
		Smoking:           p.Smoking,
		Amenities:         p.Amenities,
		Tags:              p.Tags,
	}
}

// BulkInsertResult contains the results of a bulk insert operation.
type BulkInsertResult struct {
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors,omitempty"`
}
