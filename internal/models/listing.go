// Package models defines the data structures for the roommate matching engine.
package models

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Listing represents a housing unit's matching-relevant attributes. Owned and
// mutated entirely by the listing store; read-only to the engine.
type Listing struct {
	ID               string    `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Address          string    `json:"address,omitempty" db:"address"`
	PriceMin         *float64  `json:"price_min,omitempty" db:"price_min"`
	PriceMax         *float64  `json:"price_max,omitempty" db:"price_max"`
	DistanceToCampus *float64  `json:"distance_to_campus,omitempty" db:"distance_to_campus"`
	Bedrooms         int       `json:"bedrooms" db:"bedrooms"`
	Amenities        []string  `json:"amenities,omitempty" db:"amenities"`
	PetsAllowed      bool      `json:"pets_allowed" db:"pets_allowed"`
	ParkingIncluded  bool      `json:"parking_included" db:"parking_included"`
	Phone            string    `json:"phone,omitempty" db:"phone"`
	Website          string    `json:"website,omitempty" db:"website"`
	BatchID          string    `json:"batch_id,omitempty" db:"batch_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// PriceMidpoint returns the representative monthly price for the listing and
// whether a usable price is known. "Contact for pricing" listings and
// malformed (negative) prices report unknown.
func (l *Listing) PriceMidpoint() (float64, bool) {
	min, max := l.PriceMin, l.PriceMax
	switch {
	case min != nil && max != nil:
		if *min < 0 || *max < 0 {
			return 0, false
		}
		return (*min + *max) / 2, true
	case min != nil:
		if *min < 0 {
			return 0, false
		}
		return *min, true
	case max != nil:
		if *max < 0 {
			return 0, false
		}
		return *max, true
	}
	return 0, false
}

// Distance returns the distance to the campus reference point in miles and
// whether it is known. Negative stored values report unknown.
func (l *Listing) Distance() (float64, bool) {
	if l.DistanceToCampus == nil || *l.DistanceToCampus < 0 {
		return 0, false
	}
	return *l.DistanceToCampus, true
}

// HasAmenity reports whether the listing carries the given amenity tag,
// compared case-insensitively.
func (l *Listing) HasAmenity(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, a := range l.Amenities {
		if strings.ToLower(strings.TrimSpace(a)) == tag {
			return true
		}
	}
	return false
}

// ListingCreate represents the data needed to create or update a listing.
type ListingCreate struct {
	ID               string   `json:"id,omitempty"`
	Name             string   `json:"name"`
	Address          string   `json:"address,omitempty"`
	PriceMin         *float64 `json:"price_min,omitempty"`
	PriceMax         *float64 `json:"price_max,omitempty"`
	DistanceToCampus *float64 `json:"distance_to_campus,omitempty"`
	Bedrooms         int      `json:"bedrooms"`
	Amenities        []string `json:"amenities,omitempty"`
	PetsAllowed      bool     `json:"pets_allowed"`
	ParkingIncluded  bool     `json:"parking_included"`
	Phone            string   `json:"phone,omitempty"`
	Website          string   `json:"website,omitempty"`
	BatchID          string   `json:"batch_id,omitempty"`
}

// ToListing converts creation data to a Listing.
func (l *ListingCreate) ToListing() *Listing {
	return &Listing{
		ID:               l.ID,
		Name:             l.Name,
		Address:          l.Address,
		PriceMin:         l.PriceMin,
		PriceMax:         l.PriceMax,
		DistanceToCampus: l.DistanceToCampus,
		Bedrooms:         l.Bedrooms,
		Amenities:        NormalizeAmenities(l.Amenities),
		PetsAllowed:      l.PetsAllowed,
		ParkingIncluded:  l.ParkingIncluded,
		Phone:            l.Phone,
		Website:          l.Website,
		BatchID:          l.BatchID,
	}
}

// NormalizeAmenities lowercases, trims, deduplicates and sorts an amenity tag
// set. Scoring is invariant to tag order and duplicates because every set
// passes through here first.
func NormalizeAmenities(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	normalized := make([]string, 0, len(tags))

	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		normalized = append(normalized, t)
	}

	sort.Strings(normalized)
	return normalized
}

var priceDigits = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePriceRange extracts a price range from a spreadsheet cell such as
// "$1,100", "$1100-$1650" or "1100 - 1650". Cells with no digits ("Contact
// for pricing", "N/A", empty) yield a nil range, meaning unknown.
func ParsePriceRange(raw string) (*float64, *float64) {
	matches := priceDigits.FindAllString(raw, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	values := make([]float64, 0, len(matches))
	for _, m := range matches {
		m = strings.ReplaceAll(m, ",", "")
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	min := values[0]
	if len(values) == 1 {
		return &min, nil
	}
	max := values[len(values)-1]
	if max < min {
		min, max = max, min
	}
	return &min, &max
}
