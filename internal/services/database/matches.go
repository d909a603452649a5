package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Mishra-Manit/bedathon/internal/models"
)

// MatchRepository handles persisted match database operations.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create inserts a match result for a subject. Re-scoring the same pair
// updates the stored score in place.
func (r *MatchRepository) Create(ctx context.Context, match *models.MatchCreate) (int64, error) {
	query := `
		INSERT INTO matches (subject_id, candidate_id, kind, score, percentage, reasons, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (subject_id, candidate_id, kind) DO UPDATE SET
			score = EXCLUDED.score,
			percentage = EXCLUDED.percentage,
			reasons = EXCLUDED.reasons,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		match.SubjectID,
		match.CandidateID,
		string(match.Kind),
		match.Score,
		match.Percentage,
		match.Reasons,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create match: %w", err)
	}

	return id, nil
}

// BulkInsert persists a ranking run's results in a single transaction.
func (r *MatchRepository) BulkInsert(ctx context.Context, matches []*models.MatchCreate) (int, int, error) {
	inserted := 0
	failed := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		for _, match := range matches {
			_, err := tx.Exec(ctx, `
				INSERT INTO matches (subject_id, candidate_id, kind, score, percentage, reasons, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
				ON CONFLICT (subject_id, candidate_id, kind) DO UPDATE SET
					score = EXCLUDED.score,
					percentage = EXCLUDED.percentage,
					reasons = EXCLUDED.reasons,
					updated_at = EXCLUDED.updated_at`,
				match.SubjectID,
				match.CandidateID,
				string(match.Kind),
				match.Score,
				match.Percentage,
				match.Reasons,
				now,
			)

			if err != nil {
				failed++
			} else {
				inserted++
			}
		}
		return nil
	})

	return inserted, failed, err
}

// GetBySubjectID retrieves all stored matches for a subject, best first.
func (r *MatchRepository) GetBySubjectID(ctx context.Context, subjectID string, kind models.MatchKind) ([]models.Match, error) {
	query := `
		SELECT id, subject_id, candidate_id, kind, score, percentage, reasons, created_at, updated_at
		FROM matches
		WHERE subject_id = $1 AND kind = $2
		ORDER BY score DESC, candidate_id ASC`

	rows, err := r.db.QueryContext(ctx, query, subjectID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to get matches by subject: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// DeleteBySubjectID removes a subject's stored matches ahead of a re-run.
func (r *MatchRepository) DeleteBySubjectID(ctx context.Context, subjectID string) (int64, error) {
	affected, err := r.db.ExecContext(ctx, "DELETE FROM matches WHERE subject_id = $1", subjectID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete matches: %w", err)
	}
	return affected, nil
}

// GetSummary returns counts for the stored match table.
func (r *MatchRepository) GetSummary(ctx context.Context) (*models.MatchSummary, error) {
	summary := &models.MatchSummary{}

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_matches,
			COUNT(DISTINCT subject_id) AS subjects_with_matches,
			COUNT(CASE WHEN kind = 'roommate' THEN 1 END) AS roommate_matches,
			COUNT(CASE WHEN kind = 'listing' THEN 1 END) AS listing_matches,
			COALESCE(AVG(score), 0) AS avg_score
		FROM matches`).Scan(
		&summary.TotalMatches,
		&summary.SubjectsWithMatches,
		&summary.RoommateMatches,
		&summary.ListingMatches,
		&summary.AvgScore,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get match summary: %w", err)
	}

	return summary, nil
}

// scanMatches is a helper function to scan match rows into a Match slice.
func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	var matches []models.Match
	for rows.Next() {
		var m models.Match
		var kind string
		err := rows.Scan(
			&m.ID, &m.SubjectID, &m.CandidateID, &kind,
			&m.Score, &m.Percentage, &m.Reasons, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.Kind = models.MatchKind(kind)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
