package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// CSVParser errors
var (
	ErrEmptyCSV       = errors.New("CSV content is empty")
	ErrMissingColumns = errors.New("missing required columns")
	ErrNoDataRows     = errors.New("CSV file contains no data rows")
)

// RequiredColumns defines the columns that must be present in a listing sheet.
var RequiredColumns = []string{
	"name",
}

// ColumnAliases maps alternative column names to standard names. Listing
// sheets come from hand-maintained spreadsheets, so headers vary a lot.
var ColumnAliases = map[string]string{
	// name aliases
	"apartment":      "name",
	"apartment name": "name",
	"apartment_name": "name",
	"property":       "name",
	"property_name":  "name",
	"complex":        "name",
	"listing":        "name",

	// address aliases
	"location":       "address",
	"street":         "address",
	"street_address": "address",

	// price aliases
	"rent":         "price",
	"monthly rent": "price",
	"monthly_rent": "price",
	"price range":  "price",
	"price_range":  "price",
	"cost":         "price",

	// bedrooms aliases
	"beds":    "bedrooms",
	"bedroom": "bedrooms",
	"br":      "bedrooms",
	"bed":     "bedrooms",
	"rooms":   "bedrooms",

	// distance aliases
	"distance":           "distance_to_campus",
	"distance to campus": "distance_to_campus",
	"miles":              "distance_to_campus",
	"miles_to_campus":    "distance_to_campus",
	"miles to campus":    "distance_to_campus",

	// amenities aliases
	"amenity":  "amenities",
	"features": "amenities",
	"perks":    "amenities",

	// contact aliases
	"phone number": "phone",
	"phone_number": "phone",
	"contact":      "phone",
	"url":          "website",
	"link":         "website",
	"site":         "website",

	// pets aliases
	"pets":         "pets_allowed",
	"pet friendly": "pets_allowed",
	"pet_friendly": "pets_allowed",

	// parking aliases
	"parking": "parking_included",
	"garage":  "parking_included",
}

// CSVParser handles parsing of listing spreadsheet exports.
type CSVParser struct {
	columnMapping map[string]int
}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{
		columnMapping: make(map[string]int),
	}
}

// ParseListings parses CSV content and returns a slice of ListingCreate
// objects. Rows that cannot be parsed are collected as errors and skipped;
// one bad row never fails the batch.
func (p *CSVParser) ParseListings(content string, batchID string) ([]*models.ListingCreate, []error) {
	if strings.TrimSpace(content) == "" {
		return nil, []error{ErrEmptyCSV}
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("failed to read header: %w", err)}
	}

	if err := p.buildColumnMapping(header); err != nil {
		return nil, []error{err}
	}

	var listings []*models.ListingCreate
	var parseErrors []error
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		listing, err := p.parseRow(record, batchID)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		if err := models.ValidateListingCreate(listing); err != nil {
			parseErrors = append(parseErrors, fmt.Errorf("line %d: %w", lineNum, err))
			continue
		}

		listings = append(listings, listing)
	}

	if len(listings) == 0 && len(parseErrors) > 0 {
		return nil, append([]error{ErrNoDataRows}, parseErrors...)
	}

	return listings, parseErrors
}

// buildColumnMapping creates a mapping of standard column names to their indices.
func (p *CSVParser) buildColumnMapping(header []string) error {
	p.columnMapping = make(map[string]int)

	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		p.columnMapping[normalized] = i
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := p.columnMapping[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return nil
}

// parseRow parses a single CSV row into a ListingCreate object.
func (p *CSVParser) parseRow(record []string, batchID string) (*models.ListingCreate, error) {
	getValue := func(column string) string {
		idx, ok := p.columnMapping[column]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := getValue("name")
	if name == "" {
		return nil, models.ErrEmptyListingName
	}

	listing := &models.ListingCreate{
		ID:      uuid.NewString(),
		Name:    name,
		Address: getValue("address"),
		Phone:   getValue("phone"),
		Website: getValue("website"),
		BatchID: batchID,
	}

	// Price cells like "$1100-$1650" or "Contact for pricing"; no digits
	// means unknown, never an error.
	listing.PriceMin, listing.PriceMax = models.ParsePriceRange(getValue("price"))

	if raw := getValue("bedrooms"); raw != "" {
		bedrooms, err := parseBedrooms(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid bedrooms: %w", err)
		}
		listing.Bedrooms = bedrooms
	}

	if raw := getValue("distance_to_campus"); raw != "" {
		miles, err := parseDistance(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid distance: %w", err)
		}
		if miles >= 0 {
			listing.DistanceToCampus = &miles
		}
	}

	if raw := getValue("amenities"); raw != "" {
		listing.Amenities = splitAmenities(raw)
	}

	listing.PetsAllowed = parseBool(getValue("pets_allowed"))
	listing.ParkingIncluded = parseBool(getValue("parking_included"))

	return listing, nil
}

// parseBedrooms handles cells like "2", "2BR", "2 bed" and "Studio".
func parseBedrooms(s string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "studio" {
		return 1, nil
	}

	digits := strings.TrimFunc(normalized, func(r rune) bool {
		return r < '0' || r > '9'
	})
	if digits == "" {
		return 0, fmt.Errorf("no bedroom count in %q", s)
	}
	return strconv.Atoi(digits)
}

// parseDistance handles cells like "2.4", "2.4 miles" and "2.4mi".
func parseDistance(s string) (float64, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.TrimSuffix(normalized, "miles")
	normalized = strings.TrimSuffix(normalized, "mile")
	normalized = strings.TrimSuffix(normalized, "mi")
	return strconv.ParseFloat(strings.TrimSpace(normalized), 64)
}

// splitAmenities splits a cell like "Pool; Gym; WiFi" or "pool, gym, wifi".
func splitAmenities(s string) []string {
	sep := ","
	if strings.Contains(s, ";") {
		sep = ";"
	}

	parts := strings.Split(s, sep)
	amenities := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			amenities = append(amenities, trimmed)
		}
	}
	return amenities
}

// parseBool handles the spreadsheet spellings of yes and no.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "1", "included":
		return true
	}
	return false
}

// ValidateCSVStructure performs a quick validation of CSV structure without full parsing.
func ValidateCSVStructure(content string) (*CSVValidationResult, error) {
	result := &CSVValidationResult{
		Valid:          false,
		RowCount:       0,
		Columns:        []string{},
		MissingColumns: []string{},
		Errors:         []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "empty file")
		return result, nil
	}

	reader := csv.NewReader(strings.NewReader(content))

	header, err := reader.Read()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to read header: %v", err))
		return result, nil
	}

	normalizedColumns := make(map[string]bool)
	for _, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		if alias, ok := ColumnAliases[normalized]; ok {
			normalized = alias
		}
		normalizedColumns[normalized] = true
		result.Columns = append(result.Columns, col)
	}

	for _, required := range RequiredColumns {
		if !normalizedColumns[required] {
			result.MissingColumns = append(result.MissingColumns, required)
		}
	}

	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row error: %v", err))
			continue
		}
		result.RowCount++
	}

	result.Valid = len(result.MissingColumns) == 0 && result.RowCount > 0

	return result, nil
}

// CSVValidationResult contains the results of CSV validation.
type CSVValidationResult struct {
	Valid          bool     `json:"valid"`
	RowCount       int      `json:"row_count"`
	Columns        []string `json:"columns"`
	MissingColumns []string `json:"missing_columns"`
	Errors         []string `json:"errors"`
}
