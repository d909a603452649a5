// Package main provides a local HTTP server for development and testing.
// It exposes the API endpoints the frontend needs for profile management,
// listing CSV upload and roommate/listing match ranking.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Mishra-Manit/bedathon/internal/config"
	"github.com/Mishra-Manit/bedathon/internal/models"
	"github.com/Mishra-Manit/bedathon/internal/services/database"
	"github.com/Mishra-Manit/bedathon/internal/services/matcher"
	sesservice "github.com/Mishra-Manit/bedathon/internal/services/ses"
	"github.com/Mishra-Manit/bedathon/internal/utils"

	"github.com/rs/cors"
)

// Server holds all dependencies
type Server struct {
	db          *database.DB
	profileRepo *database.ProfileRepository
	listingRepo *database.ListingRepository
	matchRepo   *database.MatchRepository
	ranker      *matcher.Ranker
	emailSvc    *sesservice.Service
	config      *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UploadResponse contains CSV upload processing results
type UploadResponse struct {
	BatchID       string `json:"batch_id"`
	TotalRows     int    `json:"total_rows"`
	ValidListings int    `json:"valid_listings"`
	Errors        int    `json:"errors"`
	Inserted      int    `json:"inserted"`
	ProcessingMs  int64  `json:"processing_ms"`
}

// PresignedURLRequest represents the request for presigned URL
type PresignedURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// PresignedURLResponse contains the presigned URL data
type PresignedURLResponse struct {
	URL     string `json:"url"`
	Key     string `json:"key"`
	Expires int    `json:"expires"`
}

// RankRequest selects a subject profile and tuning knobs for a ranking pass
type RankRequest struct {
	ProfileID        string   `json:"profile_id"`
	Limit            int      `json:"limit"`
	MinCompatibility *float64 `json:"min_compatibility,omitempty"`
	MinScore         *float64 `json:"min_score,omitempty"`
	Bedrooms         int      `json:"bedrooms,omitempty"`
	AnyBedrooms      bool     `json:"any_bedrooms,omitempty"`
	MaxDistance      float64  `json:"max_distance,omitempty"`
	Save             bool     `json:"save,omitempty"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger("info"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Logger.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config from environment: %v", err)
		cfg = &config.Config{}
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Server will run in demo mode without database")
	}

	server := &Server{
		db:     db,
		config: cfg,
		ranker: matcher.NewDefaultRanker(utils.GetLogger()),
	}

	if db != nil {
		server.profileRepo = database.NewProfileRepository(db)
		server.listingRepo = database.NewListingRepository(db)
		server.matchRepo = database.NewMatchRepository(db)
	}

	// Initialize SES (may fail without AWS credentials)
	emailSvc, err := sesservice.NewService(context.Background())
	if err != nil {
		log.Printf("Warning: Could not initialize email service: %v", err)
	}
	server.emailSvc = emailSvc

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Presigned URL endpoint (for S3 uploads)
	mux.HandleFunc("/api/presigned-url", server.presignedURLHandler)

	// Direct CSV upload endpoint (for local testing)
	mux.HandleFunc("/api/upload", server.uploadHandler)

	// Profiles
	mux.HandleFunc("/api/profiles", server.profilesHandler)
	mux.HandleFunc("/api/profiles/", server.profileByIDHandler)

	// Listings
	mux.HandleFunc("/api/listings", server.listingsHandler)

	// Ranking
	mux.HandleFunc("/api/matches/roommates", server.rankRoommatesHandler)
	mux.HandleFunc("/api/matches/listings", server.rankListingsHandler)

	// Saved matches
	mux.HandleFunc("/api/matches", server.matchesHandler)
	mux.HandleFunc("/api/matches/summary", server.matchSummaryHandler)

	// Recommendations across all profiles
	mux.HandleFunc("/api/recommendations", server.recommendationsHandler)

	// Email digest
	mux.HandleFunc("/api/notify", server.notifyHandler)

	// Clear data endpoint
	mux.HandleFunc("/api/clear-data", server.clearDataHandler)

	// Serve static files (frontend)
	mux.HandleFunc("/", server.staticHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	port := getEnvOrDefault("PORT", "8080")
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("Bedathon Roommate Matching API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Frontend: http://localhost:%s/", port)
	log.Printf("Health: http://localhost:%s/health", port)
	log.Println("")

	// Start server (this blocks until error)
	log.Printf("Starting HTTP server on %s...", addr)
	serverErr := http.ListenAndServe(addr, handler)
	if serverErr != nil {
		log.Fatalf("Server failed: %v", serverErr)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err == nil {
			dbStatus = "connected"
		}
	}

	response := Response{
		Success: true,
		Message: "Bedathon Roommate Matching API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) presignedURLHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PresignedURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	// For local development, return a mock presigned URL that points to our upload endpoint
	key := fmt.Sprintf("uploads/%d_%s", time.Now().Unix(), req.Filename)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data: PresignedURLResponse{
			URL:     fmt.Sprintf("http://localhost:%s/api/upload?key=%s", getEnvOrDefault("PORT", "8080"), key),
			Key:     key,
			Expires: 3600,
		},
	})
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPut {
		// Handle presigned URL upload (S3-style)
		s.handlePresignedUpload(w, r)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	log.Printf("📤 CSV Upload request received")

	// Handle multipart form upload
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		log.Printf("Failed to parse form: %v", err)
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Failed to parse form: " + err.Error(),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Printf("No file in form: %v", err)
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "No file provided",
		})
		return
	}
	defer file.Close()

	log.Printf("📄 Processing file: %s (%.2f KB)", header.Filename, float64(header.Size)/1024)

	// Validate file type
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Only CSV files are allowed",
		})
		return
	}

	// Read file content
	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to read file",
		})
		return
	}

	// Process the CSV
	result, err := s.processCSVContent(r.Context(), content, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "CSV processed successfully",
		Data:    result,
	})
}

func (s *Server) handlePresignedUpload(w http.ResponseWriter, r *http.Request) {
	// Read the raw body (CSV content)
	content, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusInternalServerError)
		return
	}
	defer r.Body.Close()

	// Store temporarily for processing
	key := r.URL.Query().Get("key")
	filename := filepath.Base(key)
	if filename == "" {
		filename = "upload.csv"
	}

	// Save to temp file
	tempDir := os.TempDir()
	tempFile := filepath.Join(tempDir, filename)
	if err := os.WriteFile(tempFile, content, 0644); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) processCSVContent(ctx context.Context, content []byte, filename string) (*UploadResponse, error) {
	startTime := time.Now()
	batchID := fmt.Sprintf("batch_%d", time.Now().Unix())

	log.Printf("Processing CSV: %s (BatchID: %s)", filename, batchID)

	// Parse CSV
	parser := utils.NewCSVParser()
	listings, parseErrors := parser.ParseListings(string(content), batchID)

	log.Printf("Parsed: %d valid listings, %d errors", len(listings), len(parseErrors))

	// Log first few errors for debugging
	if len(parseErrors) > 0 {
		log.Printf("Parse errors:")
		for i, err := range parseErrors {
			if i >= 5 { // Only log first 5 errors
				log.Printf("   ... and %d more errors", len(parseErrors)-5)
				break
			}
			log.Printf("   - %v", err)
		}
	}

	result := &UploadResponse{
		BatchID:       batchID,
		TotalRows:     len(listings) + len(parseErrors),
		ValidListings: len(listings),
		Errors:        len(parseErrors),
	}

	// If no database connection, return parse-only results
	if s.db == nil || s.listingRepo == nil {
		result.ProcessingMs = time.Since(startTime).Milliseconds()
		return result, nil
	}

	insertResult, err := s.listingRepo.BulkInsert(ctx, listings)
	if err != nil {
		return nil, fmt.Errorf("failed to save listings: %w", err)
	}
	result.Inserted = insertResult.InsertedCount

	log.Printf("💾 Saved %d listings to database (batch %s)", insertResult.InsertedCount, batchID)

	result.ProcessingMs = time.Since(startTime).Milliseconds()
	return result, nil
}

func (s *Server) profilesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.profileRepo == nil {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: []*models.Profile{}})
			return
		}

		profiles, err := s.profileRepo.GetAll(r.Context())
		if err != nil {
			log.Printf("Error fetching profiles: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to fetch profiles",
			})
			return
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Data: profiles})

	case http.MethodPost:
		var req models.ProfileCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid request body: " + err.Error(),
			})
			return
		}

		if err := models.ValidateProfileCreate(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		if s.profileRepo == nil {
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database not available",
			})
			return
		}

		id, err := s.profileRepo.Create(r.Context(), &req)
		if err != nil {
			log.Printf("Error creating profile: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to create profile",
			})
			return
		}

		writeJSON(w, http.StatusCreated, Response{
			Success: true,
			Message: "Profile created",
			Data:    map[string]interface{}{"id": id},
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) profileByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if s.profileRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database not available",
		})
		return
	}

	switch r.Method {
	case http.MethodGet:
		profile, err := s.profileRepo.GetByID(r.Context(), id)
		if err != nil {
			log.Printf("Error fetching profile %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to fetch profile",
			})
			return
		}
		if profile == nil {
			writeJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Profile not found",
			})
			return
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Data: profile})

	case http.MethodDelete:
		deleted, err := s.profileRepo.Delete(r.Context(), id)
		if err != nil {
			log.Printf("Error deleting profile %s: %v", id, err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to delete profile",
			})
			return
		}
		if deleted == 0 {
			writeJSON(w, http.StatusNotFound, Response{
				Success: false,
				Error:   "Profile not found",
			})
			return
		}

		// Saved matches referencing the profile go with it
		if s.matchRepo != nil {
			if _, err := s.matchRepo.DeleteBySubjectID(r.Context(), id); err != nil {
				log.Printf("Warning: could not delete matches for %s: %v", id, err)
			}
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Message: "Profile deleted"})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) listingsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.listingRepo == nil {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: []*models.Listing{}})
			return
		}

		var (
			listings []*models.Listing
			err      error
		)
		if batchID := r.URL.Query().Get("batch_id"); batchID != "" {
			listings, err = s.listingRepo.GetByBatchID(r.Context(), batchID)
		} else {
			listings, err = s.listingRepo.GetAll(r.Context())
		}
		if err != nil {
			log.Printf("Error fetching listings: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to fetch listings",
			})
			return
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Data: listings})

	case http.MethodPost:
		var req models.ListingCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid request body: " + err.Error(),
			})
			return
		}

		if err := models.ValidateListingCreate(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}

		if s.listingRepo == nil {
			writeJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database not available",
			})
			return
		}

		id, err := s.listingRepo.Create(r.Context(), &req)
		if err != nil {
			log.Printf("Error creating listing: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{
				Success: false,
				Error:   "Failed to create listing",
			})
			return
		}

		writeJSON(w, http.StatusCreated, Response{
			Success: true,
			Message: "Listing created",
			Data:    map[string]interface{}{"id": id},
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) rankRoommatesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, subject, ok := s.loadRankRequest(w, r)
	if !ok {
		return
	}

	candidates, err := s.profileRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("Error fetching candidates: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch candidate profiles",
		})
		return
	}

	opts := matcher.RoommateOptions{
		MinCompatibility: s.config.MinCompatibility,
		Limit:            req.Limit,
	}
	if req.MinCompatibility != nil {
		opts.MinCompatibility = *req.MinCompatibility
	}
	if opts.Limit == 0 {
		opts.Limit = s.config.MatchLimit
	}

	results, err := s.ranker.RankRoommates(subject, candidates, opts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	s.saveResults(r.Context(), req, subject.ID, models.MatchKindRoommate, results)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Found %d compatible roommates", len(results)),
		Data:    results,
	})
}

func (s *Server) rankListingsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, subject, ok := s.loadRankRequest(w, r)
	if !ok {
		return
	}

	listings, err := s.listingRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("Error fetching listings: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch listings",
		})
		return
	}

	opts := matcher.ListingOptions{
		PreferredBedrooms: req.Bedrooms,
		AnyBedrooms:       req.AnyBedrooms,
		MaxDistance:       req.MaxDistance,
		MinScore:          s.config.MinListingScore,
		Limit:             req.Limit,
	}
	if req.MinScore != nil {
		opts.MinScore = *req.MinScore
	}
	if opts.Limit == 0 {
		opts.Limit = s.config.MatchLimit
	}

	results, err := s.ranker.RankListings(subject, listings, opts)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	s.saveResults(r.Context(), req, subject.ID, models.MatchKindListing, results)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: fmt.Sprintf("Found %d matching listings", len(results)),
		Data:    results,
	})
}

// loadRankRequest decodes a ranking request and fetches its subject profile.
// On failure it writes the error response and returns ok=false.
func (s *Server) loadRankRequest(w http.ResponseWriter, r *http.Request) (*RankRequest, *models.Profile, bool) {
	var req RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body: " + err.Error(),
		})
		return nil, nil, false
	}

	if req.ProfileID == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "profile_id is required",
		})
		return nil, nil, false
	}

	if s.profileRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database not available",
		})
		return nil, nil, false
	}

	subject, err := s.profileRepo.GetByID(r.Context(), req.ProfileID)
	if err != nil {
		log.Printf("Error fetching profile %s: %v", req.ProfileID, err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch profile",
		})
		return nil, nil, false
	}
	if subject == nil {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Profile not found",
		})
		return nil, nil, false
	}

	return &req, subject, true
}

func (s *Server) saveResults(ctx context.Context, req *RankRequest, subjectID string, kind models.MatchKind, results []models.MatchResult) {
	if !req.Save || s.matchRepo == nil || len(results) == 0 {
		return
	}

	creates := make([]*models.MatchCreate, 0, len(results))
	for i := range results {
		creates = append(creates, models.NewMatchCreate(subjectID, kind, &results[i]))
	}

	saved, failed, err := s.matchRepo.BulkInsert(ctx, creates)
	if err != nil {
		log.Printf("Warning: could not save matches for %s: %v", subjectID, err)
		return
	}
	log.Printf("💾 Saved %d %s matches for %s (%d failed)", saved, kind, subjectID, failed)
}

// ProfileRecommendations bundles one profile's roommate and listing matches
type ProfileRecommendations struct {
	ProfileID string               `json:"profile_id"`
	Name      string               `json:"name"`
	Roommates []models.MatchResult `json:"roommates"`
	Listings  []models.MatchResult `json:"listings"`
}

func (s *Server) recommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.profileRepo == nil || s.listingRepo == nil {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: []ProfileRecommendations{}})
		return
	}

	ctx := r.Context()

	limit := 3
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	profiles, err := s.profileRepo.GetAll(ctx)
	if err != nil {
		log.Printf("Error fetching profiles: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch profiles",
		})
		return
	}

	listings, err := s.listingRepo.GetAll(ctx)
	if err != nil {
		log.Printf("Error fetching listings: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch listings",
		})
		return
	}

	recommendations := make([]ProfileRecommendations, 0, len(profiles))
	for _, subject := range profiles {
		rec := ProfileRecommendations{
			ProfileID: subject.ID,
			Name:      subject.Name,
			Roommates: []models.MatchResult{},
			Listings:  []models.MatchResult{},
		}

		roommates, err := s.ranker.RankRoommates(subject, profiles, matcher.RoommateOptions{
			MinCompatibility: s.config.MinCompatibility,
			Limit:            limit,
		})
		if err != nil {
			// Subjects with bad preference data get empty recommendations
			log.Printf("Warning: could not rank roommates for %s: %v", subject.ID, err)
			recommendations = append(recommendations, rec)
			continue
		}
		rec.Roommates = roommates

		fits, err := s.ranker.RankListings(subject, listings, matcher.ListingOptions{
			MinScore: s.config.MinListingScore,
			Limit:    limit,
		})
		if err != nil {
			log.Printf("Warning: could not rank listings for %s: %v", subject.ID, err)
		} else {
			rec.Listings = fits
		}

		recommendations = append(recommendations, rec)
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: recommendations})
}

func (s *Server) matchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.matchRepo == nil {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: []models.Match{}})
		return
	}

	subjectID := r.URL.Query().Get("subject_id")
	if subjectID == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "subject_id query parameter is required",
		})
		return
	}

	kind := models.MatchKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = models.MatchKindRoommate
	}

	matches, err := s.matchRepo.GetBySubjectID(r.Context(), subjectID, kind)
	if err != nil {
		log.Printf("Error fetching matches: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch matches",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: matches})
}

func (s *Server) matchSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.matchRepo == nil {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: &models.MatchSummary{}})
		return
	}

	summary, err := s.matchRepo.GetSummary(r.Context())
	if err != nil {
		log.Printf("Error fetching match summary: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch match summary",
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: summary})
}

func (s *Server) notifyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	var req struct {
		ProfileID string `json:"profile_id"`
		Kind      string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if s.db == nil || s.profileRepo == nil || s.matchRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database not available",
		})
		return
	}

	if s.emailSvc == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Email service not available",
		})
		return
	}

	log.Printf("Notification request for profile: %s", req.ProfileID)

	subject, err := s.profileRepo.GetByID(ctx, req.ProfileID)
	if err != nil || subject == nil {
		writeJSON(w, http.StatusNotFound, Response{
			Success: false,
			Error:   "Profile not found",
		})
		return
	}
	if subject.Email == "" {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Profile has no email address",
		})
		return
	}

	kind := models.MatchKind(req.Kind)
	if kind == "" {
		kind = models.MatchKindRoommate
	}

	matches, err := s.matchRepo.GetBySubjectID(ctx, req.ProfileID, kind)
	if err != nil {
		log.Printf("Failed to fetch matches: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to fetch saved matches",
		})
		return
	}

	if len(matches) == 0 {
		writeJSON(w, http.StatusOK, Response{
			Success: false,
			Error:   "No saved matches for this profile. Run a ranking with save=true first.",
		})
		return
	}

	// Resolve candidate names for the digest
	names := make(map[string]string)
	results := make([]models.MatchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.MatchResult{
			CandidateID: m.CandidateID,
			Score:       m.Score,
			Percentage:  m.Percentage,
			Reasons:     m.Reasons,
		})

		switch kind {
		case models.MatchKindListing:
			if listing, err := s.listingRepo.GetByID(ctx, m.CandidateID); err == nil && listing != nil {
				names[m.CandidateID] = listing.Name
			}
		default:
			if candidate, err := s.profileRepo.GetByID(ctx, m.CandidateID); err == nil && candidate != nil {
				names[m.CandidateID] = candidate.Name
			}
		}
	}

	dashboardURL := getEnvOrDefault("DASHBOARD_URL", fmt.Sprintf("http://localhost:%s/", getEnvOrDefault("PORT", "8080")))
	params := sesservice.BuildMatchDigestParams(subject.Name, subject.Email, kind, results, names, dashboardURL)

	result, err := s.emailSvc.SendMatchDigest(ctx, params)
	if err != nil {
		log.Printf("Failed to send digest to %s: %v", subject.Email, err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to send digest email: " + err.Error(),
		})
		return
	}

	log.Printf("Sent digest to %s (message %s)", subject.Email, result.MessageID)

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Digest email sent",
		Data: map[string]interface{}{
			"message_id":  result.MessageID,
			"match_count": len(matches),
		},
	})
}

func (s *Server) clearDataHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Database not available",
		})
		return
	}

	log.Printf("Clearing all data (profiles, listings and matches)")

	// Clear matches table first
	if _, err := s.db.ExecContext(r.Context(), "DELETE FROM matches"); err != nil {
		log.Printf("Error clearing matches: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to clear matches: " + err.Error(),
		})
		return
	}

	// Clear profiles table
	if _, err := s.db.ExecContext(r.Context(), "DELETE FROM profiles"); err != nil {
		log.Printf("Error clearing profiles: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to clear profiles: " + err.Error(),
		})
		return
	}

	// Clear listings table
	if _, err := s.db.ExecContext(r.Context(), "DELETE FROM listings"); err != nil {
		log.Printf("Error clearing listings: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to clear listings: " + err.Error(),
		})
		return
	}

	log.Printf("All data cleared successfully")

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "All data cleared successfully",
	})
}

func (s *Server) staticHandler(w http.ResponseWriter, r *http.Request) {
	// Serve frontend files - use absolute path or relative to executable
	frontendDir := "./frontend"

	// Try to find frontend directory
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		// If not found, try parent directory (when running from bin/)
		frontendDir = "../frontend"
	}

	path := r.URL.Path
	if path == "/" {
		path = "/index.html"
	}

	filePath := filepath.Join(frontendDir, path)

	// Security check: prevent directory traversal
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}

	absFrontendDir, _ := filepath.Abs(frontendDir)
	if !strings.HasPrefix(absPath, absFrontendDir) {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		// Serve index.html for SPA routing or return 404
		indexPath := filepath.Join(frontendDir, "index.html")
		if _, err := os.Stat(indexPath); os.IsNotExist(err) {
			http.Error(w, "Frontend not found", http.StatusNotFound)
			return
		}
		filePath = indexPath
	}

	http.ServeFile(w, r, filePath)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
