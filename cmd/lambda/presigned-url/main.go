// Presigned URL Lambda entry point, backs the CSV upload flow
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
	handler, err := handlers.NewPresignedURLHandler()
	if err != nil {
		panic("Failed to create handler: " + err.Error())
	}

	// Start Lambda
	lambda.Start(handler.Handle)
}
