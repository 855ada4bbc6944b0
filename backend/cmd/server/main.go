package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamenet/backend/internal/api"
	"gamenet/backend/internal/graph"
	"gamenet/backend/internal/network"
	"gamenet/backend/internal/source"
	"gamenet/backend/pkg/config"
	"gamenet/backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	// Initialize logger
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting gamer network API server...", zap.String("env", cfg.Env))

	ctx := context.Background()

	// Build the network from its text description
	n, err := loadNetwork(ctx, cfg.NetworkSource, source.NewLoader(nil), log)
	if err != nil {
		log.Fatal("Failed to load network", zap.Error(err))
	}
	store := network.NewStore(n)

	// Optional Neo4j mirror
	var mirror api.Mirror
	if cfg.Neo4jSync {
		driver, err := graph.Connect(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			log.Fatal("Failed to connect to Neo4j", zap.Error(err))
		}
		repo := graph.NewRepository(driver)
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			log.Warn("Failed to ensure graph schema", zap.Error(err))
		}
		if _, err := repo.SyncNetwork(ctx, store.Snapshot()); err != nil {
			log.Fatal("Failed initial graph sync", zap.Error(err))
		}
		mirror = repo
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(store, mirror, log))

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port), zap.Int("people", n.Len()))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// textLoader is satisfied by *source.Loader
type textLoader interface {
	Load(ctx context.Context, location string) (string, error)
}

// loadNetwork parses the network found at location. An empty location
// yields an empty network. Dangling connections are logged, not fatal.
func loadNetwork(ctx context.Context, location string, loader textLoader, log *zap.Logger) (*network.Network, error) {
	if location == "" {
		log.Warn("NETWORK_SOURCE not set, starting with an empty network")
		return network.New(), nil
	}

	text, err := loader.Load(ctx, location)
	if err != nil {
		return nil, err
	}

	n, err := network.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", location, err)
	}

	for _, ref := range n.DanglingReferences() {
		log.Warn("Connection to unknown user",
			zap.String("user", ref.User),
			zap.String("connection", ref.Connection),
		)
	}

	log.Info("Network loaded", zap.String("source", location), zap.Int("people", n.Len()))
	return n, nil
}
