package main

import (
	"context"
	"log"

	"github.com/ahmetclq/web-final-projesi/internal/config"
	"github.com/ahmetclq/web-final-projesi/internal/db"
	"github.com/ahmetclq/web-final-projesi/internal/model"
	"github.com/ahmetclq/web-final-projesi/internal/server"
	"github.com/ahmetclq/web-final-projesi/internal/storage"
	"github.com/joho/godotenv"
)

// Set via -ldflags at build time.
var (
	gitSHA    = "dev"
	buildTime = "unknown"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	if err := conn.AutoMigrate(&model.User{}, &model.Item{}, &model.ItemImage{}, &model.TradeOffer{}); err != nil {
		log.Fatalf("auto migrate error: %v", err)
	}

	blobs, err := storage.NewGCSStore(ctx, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer blobs.Close()

	srv, err := server.New(ctx, cfg, conn, blobs, gitSHA, buildTime)
	if err != nil {
		log.Fatalf("server init error: %v", err)
	}

	addr := ":" + cfg.Port
	log.Printf("starting server on %s", addr)
	if err := srv.Start(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
