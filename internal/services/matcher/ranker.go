package matcher

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/utils"
)

// DefaultMinCompatibility is the roommate ranking threshold applied when a
// caller does not supply one.
const DefaultMinCompatibility = 0.5

// Ranker fans scoring out over a candidate pool, applies hard filters and
// thresholds, and returns a capped ordered result. It holds no mutable state
// between calls and is safe for concurrent use.
type Ranker struct {
	compatWeights CompatibilityWeights
	fitWeights    ListingFitWeights
	logger        *zap.Logger
}

// NewRanker creates a ranker with the given weight sets. Invalid weights are
// a programming error surfaced immediately rather than skewing every score.
func NewRanker(compat CompatibilityWeights, fit ListingFitWeights, logger *zap.Logger) (*Ranker, error) {
	if err := compat.Validate(); err != nil {
		return nil, fmt.Errorf("compatibility weights: %w", err)
	}
	if err := fit.Validate(); err != nil {
		return nil, fmt.Errorf("listing fit weights: %w", err)
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Ranker{compatWeights: compat, fitWeights: fit, logger: logger}, nil
}

// NewDefaultRanker creates a ranker with the default weight distributions.
func NewDefaultRanker(logger *zap.Logger) *Ranker {
	r, err := NewRanker(DefaultCompatibilityWeights(), DefaultListingFitWeights(), logger)
	if err != nil {
		// Default weights are constants that sum to 1.0.
		panic(err)
	}
	return r
}

// RoommateOptions controls a roommate ranking pass.
type RoommateOptions struct {
	// MinCompatibility drops candidates scoring below it. Callers that want
	// the standard threshold pass DefaultMinCompatibility.
	MinCompatibility float64

	// Limit caps the result count; 0 means no cap.
	Limit int

	// IncludeSelf keeps a candidate sharing the subject's identifier.
	// Off by default: people should not be matched with themselves.
	IncludeSelf bool
}

// ListingOptions controls a listing ranking pass.
type ListingOptions struct {
	// PreferredBedrooms overrides the profile's own preference when > 0.
	PreferredBedrooms int

	// AnyBedrooms disables the bedroom-count hard filter entirely.
	AnyBedrooms bool

	// MaxDistance excludes listings known to be farther from campus, in
	// miles; 0 means no cap. Listings with unknown distance always pass.
	MaxDistance float64

	// MinScore drops listings scoring below it.
	MinScore float64

	// Limit caps the result count; 0 means no cap.
	Limit int
}

// RankRoommates scores every candidate profile against the subject and
// returns the filtered, ordered results. A candidate that fails
// normalization is skipped and logged; it never aborts the batch. An empty
// pool, or a pool where nothing clears the threshold, yields an empty slice.
func (r *Ranker) RankRoommates(subject *models.Profile, candidates []*models.Profile, opts RoommateOptions) ([]models.MatchResult, error) {
	subjectVec, err := Normalize(subject)
	if err != nil {
		return nil, fmt.Errorf("normalize subject %s: %w", subject.ID, err)
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if !opts.IncludeSelf && candidate.ID == subject.ID {
			continue
		}

		candidateVec, err := Normalize(candidate)
		if err != nil {
			r.logger.Warn("skipping candidate with invalid preferences",
				zap.String("candidate_id", candidate.ID),
				zap.Error(err))
			continue
		}

		score, breakdown := ScoreCompatibility(subjectVec, candidateVec, r.compatWeights)
		if score < opts.MinCompatibility {
			continue
		}

		results = append(results, models.MatchResult{
			CandidateID: candidate.ID,
			Score:       score,
			Percentage:  Percentage(score),
			Reasons:     Reasons(breakdown),
			Preferences: candidateVec.Summary(),
		})
	}

	return finalize(results, opts.Limit), nil
}

// RankListings scores every listing against the subject profile and returns
// the filtered, ordered results. The bedroom-count hard filter runs before
// scoring; listings with an unknown bedroom count are excluded unless
// AnyBedrooms is set.
func (r *Ranker) RankListings(subject *models.Profile, listings []*models.Listing, opts ListingOptions) ([]models.MatchResult, error) {
	subjectVec, err := Normalize(subject)
	if err != nil {
		return nil, fmt.Errorf("normalize subject %s: %w", subject.ID, err)
	}

	wantBedrooms := opts.PreferredBedrooms
	if wantBedrooms <= 0 {
		wantBedrooms = subjectVec.PreferredBedrooms
	}

	results := make([]models.MatchResult, 0, len(listings))
	for _, listing := range listings {
		if !opts.AnyBedrooms && wantBedrooms > 0 && listing.Bedrooms != wantBedrooms {
			continue
		}
		if opts.MaxDistance > 0 {
			if miles, known := listing.Distance(); known && miles > opts.MaxDistance {
				continue
			}
		}

		score, breakdown := ScoreListingFit(subjectVec, listing, r.fitWeights)
		if score < opts.MinScore {
			continue
		}

		results = append(results, models.MatchResult{
			CandidateID: listing.ID,
			Score:       score,
			Percentage:  Percentage(score),
			Reasons:     Reasons(breakdown),
		})
	}

	return finalize(results, opts.Limit), nil
}

// Percentage converts an internal [0,1] score to the 0-100 integer reported
// to callers, rounding half up. Display and sort order always derive from
// the same score.
func Percentage(score float64) int {
	return int(math.Floor(score*100 + 0.5))
}

// finalize sorts descending by score with an ascending-identifier tie-break
// so equal scores order deterministically, then truncates to the cap.
func finalize(results []models.MatchResult, limit int) []models.MatchResult {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}
