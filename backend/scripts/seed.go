package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"gamenet/backend/internal/graph"
	"gamenet/backend/internal/network"
	"gamenet/backend/internal/source"
	"gamenet/backend/pkg/config"
	"gamenet/backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	location := flag.String("source", "", "Network text file or URL (defaults to NETWORK_SOURCE)")
	dryRun := flag.Bool("dry-run", false, "Parse and report without touching Neo4j")
	strict := flag.Bool("strict", false, "Refuse to seed a network with dangling connections")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development", ""); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting graph seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *location == "" {
		*location = cfg.NetworkSource
	}
	if *location == "" {
		log.Fatal("No network source given (use -source or NETWORK_SOURCE)")
	}

	ctx := context.Background()

	text, err := source.NewLoader(nil).Load(ctx, *location)
	if err != nil {
		log.Fatal("Failed to read network source", zap.Error(err))
	}

	n, err := network.Parse(text)
	if err != nil {
		log.Fatal("Failed to parse network", zap.Error(err))
	}
	log.Info("Network parsed", zap.Int("people", n.Len()))

	if err := n.Validate(); err != nil {
		if *strict {
			log.Fatal("Network has dangling connections", zap.Error(err))
		}
		log.Warn("Network has dangling connections", zap.Int("count", len(n.DanglingReferences())))
	}

	if *dryRun {
		fmt.Print(n.String())
		os.Exit(0)
	}

	// Initialize Neo4j driver
	driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
	if err != nil {
		log.Fatal("Failed to connect to Neo4j", zap.Error(err))
	}

	repo := graph.NewRepository(driver)
	defer repo.Close()

	// Create constraints and indexes
	log.Info("Creating constraints...")
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	result, err := repo.SyncNetwork(ctx, n)
	if err != nil {
		log.Fatal("Failed to sync network", zap.Error(err))
	}

	// Read the mirror back and make sure it reproduces the parsed network
	loaded, err := repo.LoadNetwork(ctx)
	if err != nil {
		log.Fatal("Failed to read back network", zap.Error(err))
	}
	if loaded.String() != n.String() {
		log.Fatal("Graph mirror does not match parsed network",
			zap.Int("parsed", n.Len()),
			zap.Int("loaded", loaded.Len()),
		)
	}

	log.Info("Seeding completed successfully!",
		zap.String("sync_id", result.SyncID),
		zap.Int("people", result.People),
		zap.Int("games", result.Games),
		zap.Int("removed", result.Removed),
	)
}
