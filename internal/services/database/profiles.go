package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// ProfileRepository handles roommate profile database operations.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, name, email, year, major, budget_min, budget_max, preferred_bedrooms,
	cleanliness, noise_level, study_time, social_level, sleep_schedule,
	pet_friendly, smoking, amenities, tags, created_at, updated_at`

// Preferences are stored as nullable smallints; NULL round-trips to an unset
// RawPreference so incomplete profiles keep their default-at-scoring-time
// behavior.
func prefValue(p models.RawPreference) (*int16, error) {
	if !p.Set {
		return nil, nil
	}
	level, err := p.Level()
	if err != nil {
		return nil, err
	}
	v := int16(level)
	return &v, nil
}

func prefFromValue(v *int16) models.RawPreference {
	if v == nil {
		return models.RawPreference{}
	}
	return models.Pref(int(*v))
}

// Create inserts a new profile, generating an identifier if the caller did
// not supply one. Re-submitting an existing identifier updates in place.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.ProfileCreate) (string, error) {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}

	prefs := make([]*int16, 0, 5)
	for _, raw := range []models.RawPreference{
		profile.Cleanliness, profile.Noise, profile.StudyTime, profile.Social, profile.Sleep,
	} {
		v, err := prefValue(raw)
		if err != nil {
			return "", fmt.Errorf("invalid preference: %w", err)
		}
		prefs = append(prefs, v)
	}

	query := `
		INSERT INTO profiles (id, name, email, year, major, budget_min, budget_max, preferred_bedrooms,
			cleanliness, noise_level, study_time, social_level, sleep_schedule,
			pet_friendly, smoking, amenities, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			year = EXCLUDED.year,
			major = EXCLUDED.major,
			budget_min = EXCLUDED.budget_min,
			budget_max = EXCLUDED.budget_max,
			preferred_bedrooms = EXCLUDED.preferred_bedrooms,
			cleanliness = EXCLUDED.cleanliness,
			noise_level = EXCLUDED.noise_level,
			study_time = EXCLUDED.study_time,
			social_level = EXCLUDED.social_level,
			sleep_schedule = EXCLUDED.sleep_schedule,
			pet_friendly = EXCLUDED.pet_friendly,
			smoking = EXCLUDED.smoking,
			amenities = EXCLUDED.amenities,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var id string
	err := r.db.QueryRowContext(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
		profile.Year,
		profile.Major,
		profile.BudgetMin,
		profile.BudgetMax,
		profile.PreferredBedrooms,
		prefs[0], prefs[1], prefs[2], prefs[3], prefs[4],
		profile.PetFriendly,
		profile.Smoking,
		models.NormalizeAmenities(profile.Amenities),
		profile.Tags,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create profile: %w", err)
	}

	return id, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var cleanliness, noise, study, social, sleep *int16

	err := row.Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.Year,
		&profile.Major,
		&profile.BudgetMin,
		&profile.BudgetMax,
		&profile.PreferredBedrooms,
		&cleanliness,
		&noise,
		&study,
		&social,
		&sleep,
		&profile.PetFriendly,
		&profile.Smoking,
		&profile.Amenities,
		&profile.Tags,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Cleanliness = prefFromValue(cleanliness)
	profile.Noise = prefFromValue(noise)
	profile.StudyTime = prefFromValue(study)
	profile.Social = prefFromValue(social)
	profile.Sleep = prefFromValue(sleep)
	return &profile, nil
}

// GetByID retrieves a profile by its identifier. Returns nil when no profile
// exists.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetAll retrieves every stored profile ordered by identifier.
func (r *ProfileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles ORDER BY id`, profileColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

// Delete removes a profile. Returns the number of rows removed.
func (r *ProfileRepository) Delete(ctx context.Context, id string) (int64, error) {
	affected, err := r.db.ExecContext(ctx, "DELETE FROM profiles WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete profile: %w", err)
	}
	return affected, nil
}

// Count returns the number of stored profiles.
func (r *ProfileRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
