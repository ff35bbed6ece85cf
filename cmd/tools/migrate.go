package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/baxromumarov/jobscout/internal/app"
)

func main() {
	dsn := flag.String("db", envOr("JOBSCOUT_STORE_DSN", "jobscout.db"), "Cache DSN: postgres:// URL or SQLite file path")
	prune := flag.Duration("prune", 0, "Also delete cache rows older than this age (e.g. 168h)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := app.OpenStore(ctx, *dsn)
	if err != nil {
		log.Fatalf("Failed to prepare cache: %v", err)
	}
	defer db.Close()

	log.Printf("Migrations executed successfully (%s)", db.Driver())

	if *prune > 0 {
		n, err := db.PruneStale(ctx, *prune)
		if err != nil {
			log.Fatalf("Failed to prune cache: %v", err)
		}
		log.Printf("Pruned %d cache rows older than %s", n, *prune)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
