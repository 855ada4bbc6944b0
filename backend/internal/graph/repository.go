package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "gamenet/backend/pkg/errors"
	"gamenet/backend/pkg/logger"
)

// Repository mirrors gamer networks into Neo4j
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger

	// syncMu serializes SyncNetwork so one run's cleanup never sees another's nodes
	syncMu sync.Mutex
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Connect creates a driver and verifies the server is reachable
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureSchema creates the uniqueness constraints the mirror relies on.
// Safe to call repeatedly.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		"CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE",
		"CREATE CONSTRAINT game_name_unique IF NOT EXISTS FOR (g:Game) REQUIRE g.name IS UNIQUE",
		"CREATE INDEX person_sync_id IF NOT EXISTS FOR (p:Person) ON (p.sync_id)",
	}

	for _, stmt := range statements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return apperrors.NewGraphQueryFailed("ensure schema", fmt.Errorf("%s: %w", stmt, err))
		}
	}

	r.logger.Info("Graph schema ensured", zap.Int("statements", len(statements)))
	return nil
}
