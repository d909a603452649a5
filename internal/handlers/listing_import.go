// Package handlers provides Lambda entrypoint handlers for the roommate
// matching service.
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "github.com/Mishra-Manit/bedathon/internal/config"
	"github.com/Mishra-Manit/bedathon/internal/services/database"
	s3service "github.com/Mishra-Manit/bedathon/internal/services/s3"
	"github.com/Mishra-Manit/bedathon/internal/utils"
)

// ListingImportHandler handles S3 events for listing sheet imports.
type ListingImportHandler struct {
	s3Service   *s3service.Service
	db          *database.DB
	listingRepo *database.ListingRepository
}

// NewListingImportHandler creates a new listing import handler.
func NewListingImportHandler() (*ListingImportHandler, error) {
	s3Svc, err := s3service.NewService(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 service: %w", err)
	}

	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &ListingImportHandler{
		s3Service:   s3Svc,
		db:          db,
		listingRepo: database.NewListingRepository(db),
	}, nil
}

// ListingImportResult is the result of importing a listing sheet.
type ListingImportResult struct {
	Message  string   `json:"message"`
	BatchID  string   `json:"batch_id"`
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded listing sheets.
func (h *ListingImportHandler) Handle(ctx context.Context, s3Event events.S3Event) (ListingImportResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return ListingImportResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return ListingImportResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	logger.Info("Processing listing sheet",
		utils.String("bucket", record.S3.Bucket.Name),
		utils.String("key", key))

	data, err := h.s3Service.DownloadFile(ctx, key)
	if err != nil {
		logger.Error("Failed to download listing sheet", utils.Error(err))
		return ListingImportResult{}, fmt.Errorf("failed to download listing sheet: %w", err)
	}
	csvContent := string(data)
	if csvContent == "" {
		return ListingImportResult{}, fmt.Errorf("listing sheet is empty")
	}

	batchID := generateBatchID(key)

	parser := utils.NewCSVParser()
	listings, parseErrors := parser.ParseListings(csvContent, batchID)

	if len(listings) == 0 {
		errMsgs := make([]string, len(parseErrors))
		for i, e := range parseErrors {
			errMsgs[i] = e.Error()
		}
		return ListingImportResult{
			Message: "No valid listings found in sheet",
			BatchID: batchID,
			Errors:  errMsgs,
		}, nil
	}

	logger.Info("Parsed listing sheet",
		utils.String("batchID", batchID),
		utils.Int("validListings", len(listings)),
		utils.Int("parseErrors", len(parseErrors)))

	result, err := h.listingRepo.BulkInsert(ctx, listings)
	if err != nil {
		logger.Error("Failed to insert listings", utils.Error(err))
		return ListingImportResult{}, fmt.Errorf("failed to insert listings: %w", err)
	}

	logger.Info("Inserted listings",
		utils.String("batchID", batchID),
		utils.Int("inserted", result.InsertedCount),
		utils.Int("failed", result.FailedCount))

	// Archive processed file so re-delivered events do not re-import it
	if err := h.s3Service.ArchiveFile(ctx, key); err != nil {
		logger.Warn("Failed to archive file", utils.Error(err))
	}

	// Combine parse errors with insert errors
	allErrors := make([]string, 0)
	for _, e := range parseErrors {
		allErrors = append(allErrors, e.Error())
	}
	allErrors = append(allErrors, result.Errors...)

	// Limit errors in response
	if len(allErrors) > 10 {
		allErrors = allErrors[:10]
	}

	return ListingImportResult{
		Message:  "Listing sheet processed successfully",
		BatchID:  batchID,
		Inserted: result.InsertedCount,
		Failed:   result.FailedCount + len(parseErrors),
		Errors:   allErrors,
	}, nil
}

// generateBatchID generates a unique batch ID for this upload.
func generateBatchID(key string) string {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	hash := sha256.Sum256([]byte(key + timestamp))
	return hex.EncodeToString(hash[:])[:16]
}

// Close cleans up resources.
func (h *ListingImportHandler) Close() {
	if h.db != nil {
		h.db.Close()
	}
}

// HandleWithConfig processes S3 events connected to a specific database (for testing).
func HandleWithConfig(ctx context.Context, s3Event events.S3Event, dbURL string) (ListingImportResult, error) {
	db, err := database.NewFromURL(dbURL)
	if err != nil {
		return ListingImportResult{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	s3Svc, err := s3service.NewService(ctx)
	if err != nil {
		return ListingImportResult{}, fmt.Errorf("failed to create S3 service: %w", err)
	}

	handler := &ListingImportHandler{
		s3Service:   s3Svc,
		db:          db,
		listingRepo: database.NewListingRepository(db),
	}

	return handler.Handle(ctx, s3Event)
}
