// Package models defines the data structures for the roommate matching engine.
package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrInvalidPreferenceValue = errors.New("preference value must be an ordinal label or an integer between 1 and 5")
	ErrInvalidBudgetRange     = errors.New("budget minimum cannot exceed budget maximum")
	ErrInvalidBedroomCount    = errors.New("preferred bedroom count must be positive")
	ErrEmptyProfileName       = errors.New("profile name cannot be empty")
	ErrEmptyListingName       = errors.New("listing name cannot be empty")
)

// ValidateProfileCreate validates profile creation data. Lifestyle fields are
// intentionally not checked here: unset or partially filled preferences are
// legal and resolve to defaults at scoring time.
func ValidateProfileCreate(p *ProfileCreate) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyProfileName
	}

	if p.BudgetMin < 0 || p.BudgetMax < 0 {
		return ErrInvalidBudgetRange
	}

	if p.BudgetMin > 0 && p.BudgetMax > 0 && p.BudgetMin > p.BudgetMax {
		return ErrInvalidBudgetRange
	}

	if p.PreferredBedrooms < 0 {
		return ErrInvalidBedroomCount
	}

	return nil
}

// ValidateListingCreate validates listing creation data. Malformed numeric
// attributes (negative price or distance) are not rejected here; repositories
// and scorers treat them as unknown.
func ValidateListingCreate(l *ListingCreate) error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyListingName
	}
	return nil
}
