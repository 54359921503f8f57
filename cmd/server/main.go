package main

import (
	"context"
	"log"

	"media_relay/config"
	"media_relay/internal/server"

	_ "media_relay/cmd/server/docs"
)

// @title           Media relay API
// @version         1.0
// @description     Forwards browser requests to third-party media APIs.

// @BasePath  /

func main() {
	// Configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	ctx := context.Background()
	s := server.NewServer(cfg)
	if err := s.Run(ctx, cfg); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
