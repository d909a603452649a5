// Listing Import Lambda entry point, triggered by S3 object-created events
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/Mishra-Manit/bedathon/internal/handlers"
	"github.com/Mishra-Manit/bedathon/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	// Create handler
	handler, err := handlers.NewListingImportHandler()
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}
	defer handler.Close()

	// Start Lambda
	lambda.Start(handler.Handle)
}
