package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// ListingRepository handles housing listing database operations.
type ListingRepository struct {
	db *DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *DB) *ListingRepository {
	return &ListingRepository{db: db}
}

const listingColumns = `id, name, address, price_min, price_max, distance_to_campus, bedrooms,
	amenities, pets_allowed, parking_included, phone, website, batch_id, created_at, updated_at`

// Create inserts a new listing, generating an identifier if the caller did
// not supply one. Re-submitting an existing identifier updates in place.
func (r *ListingRepository) Create(ctx context.Context, listing *models.ListingCreate) (string, error) {
	if listing.ID == "" {
		listing.ID = uuid.NewString()
	}

	query := `
		INSERT INTO listings (id, name, address, price_min, price_max, distance_to_campus, bedrooms,
			amenities, pets_allowed, parking_included, phone, website, batch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			distance_to_campus = EXCLUDED.distance_to_campus,
			bedrooms = EXCLUDED.bedrooms,
			amenities = EXCLUDED.amenities,
			pets_allowed = EXCLUDED.pets_allowed,
			parking_included = EXCLUDED.parking_included,
			phone = EXCLUDED.phone,
			website = EXCLUDED.website,
			batch_id = EXCLUDED.batch_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		listing.ID,
		listing.Name,
		listing.Address,
		listing.PriceMin,
		listing.PriceMax,
		listing.DistanceToCampus,
		listing.Bedrooms,
		models.NormalizeAmenities(listing.Amenities),
		listing.PetsAllowed,
		listing.ParkingIncluded,
		listing.Phone,
		listing.Website,
		listing.BatchID,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	return id, nil
}

// BulkInsert inserts multiple listings in a single transaction. A listing
// that fails is reported and skipped without failing the batch.
func (r *ListingRepository) BulkInsert(ctx context.Context, listings []*models.ListingCreate) (*models.BulkInsertResult, error) {
	result := &models.BulkInsertResult{
		InsertedCount: 0,
		FailedCount:   0,
		Errors:        []string{},
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, listing := range listings {
			if listing.ID == "" {
				listing.ID = uuid.NewString()
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO listings (id, name, address, price_min, price_max, distance_to_campus, bedrooms,
					amenities, pets_allowed, parking_included, phone, website, batch_id, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					address = EXCLUDED.address,
					price_min = EXCLUDED.price_min,
					price_max = EXCLUDED.price_max,
					distance_to_campus = EXCLUDED.distance_to_campus,
					bedrooms = EXCLUDED.bedrooms,
					amenities = EXCLUDED.amenities,
					pets_allowed = EXCLUDED.pets_allowed,
					parking_included = EXCLUDED.parking_included,
					phone = EXCLUDED.phone,
					website = EXCLUDED.website,
					batch_id = EXCLUDED.batch_id,
					updated_at = EXCLUDED.updated_at`,
				listing.ID,
				listing.Name,
				listing.Address,
				listing.PriceMin,
				listing.PriceMax,
				listing.DistanceToCampus,
				listing.Bedrooms,
				models.NormalizeAmenities(listing.Amenities),
				listing.PetsAllowed,
				listing.ParkingIncluded,
				listing.Phone,
				listing.Website,
				listing.BatchID,
				time.Now().UTC(),
			)

			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("listing %s: %v", listing.Name, err))
			} else {
				result.InsertedCount++
			}
		}
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("bulk insert failed: %w", err)
	}

	return result, nil
}

func scanListing(row pgx.Row) (*models.Listing, error) {
	var listing models.Listing

	err := row.Scan(
		&listing.ID,
		&listing.Name,
		&listing.Address,
		&listing.PriceMin,
		&listing.PriceMax,
		&listing.DistanceToCampus,
		&listing.Bedrooms,
		&listing.Amenities,
		&listing.PetsAllowed,
		&listing.ParkingIncluded,
		&listing.Phone,
		&listing.Website,
		&listing.BatchID,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// GetByID retrieves a listing by its identifier. Returns nil when no listing
// exists.
func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1`, listingColumns)

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return listing, nil
}

// GetAll retrieves every stored listing ordered by identifier.
func (r *ListingRepository) GetAll(ctx context.Context) ([]*models.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings ORDER BY id`, listingColumns)
	return r.queryListings(ctx, query)
}

// GetByBatchID retrieves all listings imported in a specific batch.
func (r *ListingRepository) GetByBatchID(ctx context.Context, batchID string) ([]*models.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE batch_id = $1 ORDER BY id`, listingColumns)
	return r.queryListings(ctx, query, batchID)
}

func (r *ListingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, listing)
	}

	return listings, rows.Err()
}

// Delete removes a listing. Returns the number of rows removed.
func (r *ListingRepository) Delete(ctx context.Context, id string) (int64, error) {
	affected, err := r.db.ExecContext(ctx, "DELETE FROM listings WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete listing: %w", err)
	}
	return affected, nil
}

// Count returns the number of stored listings.
func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}
