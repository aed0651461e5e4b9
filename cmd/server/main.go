// Command server runs the pressroom HTTP API and its gRPC health endpoint.
package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/pressroom/internal/server"
	"github.com/dmitrijs2005/pressroom/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app.Run(ctx)
}
