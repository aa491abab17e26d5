package main

import (
	"context"
	"log"

	"github.com/verkhov/picvault/internal/server"
	"github.com/verkhov/picvault/internal/server/config"
)

func main() {
	ctx := context.Background()

	app, err := server.NewApp(ctx, config.LoadConfig())
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app.Run(ctx)
}
