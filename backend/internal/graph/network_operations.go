package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gamenet/backend/internal/network"
	apperrors "gamenet/backend/pkg/errors"
)

// MaxConcurrentWrites bounds the sessions SyncNetwork keeps open at once
const MaxConcurrentWrites = 4

// ============================================================================
// Network Mirror Operations
// ============================================================================

// SyncNetwork replaces the mirrored network with n. Every person becomes a
// Person node carrying its raw lists (so LoadNetwork can rebuild it exactly),
// liked games become LIKES edges to Game nodes, and connections to members
// become CONNECTED_TO edges. People left over from earlier syncs are removed.
func (r *Repository) SyncNetwork(ctx context.Context, n *network.Network) (*SyncResult, error) {
	r.syncMu.Lock()
	defer r.syncMu.Unlock()

	start := time.Now()
	syncID := uuid.New().String()
	now := start.UTC().Format(time.RFC3339)

	rows := personRows(n)

	// People and games first, so every CONNECTED_TO target exists below
	if err := r.forEachPerson(ctx, rows, func(ctx context.Context, row personRow) error {
		return r.writePerson(ctx, row, syncID, now)
	}); err != nil {
		return nil, err
	}

	if err := r.forEachPerson(ctx, rows, func(ctx context.Context, row personRow) error {
		return r.writeConnections(ctx, row)
	}); err != nil {
		return nil, err
	}

	removed, err := r.removeStale(ctx, syncID)
	if err != nil {
		return nil, err
	}

	games := make([][]string, 0, len(rows))
	connections := 0
	for _, row := range rows {
		games = append(games, row.Games)
		connections += len(row.Connections)
	}

	result := &SyncResult{
		SyncID:      syncID,
		People:      len(rows),
		Games:       distinctCount(games...),
		Connections: connections,
		Dangling:    len(n.DanglingReferences()),
		Removed:     removed,
		Duration:    time.Since(start),
	}

	r.logger.Info("Network synced to graph",
		zap.String("sync_id", syncID),
		zap.Int("people", result.People),
		zap.Int("games", result.Games),
		zap.Int("connections", result.Connections),
		zap.Int("dangling", result.Dangling),
		zap.Int("removed", result.Removed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// LoadNetwork rebuilds the most recently synced network
func (r *Repository) LoadNetwork(ctx context.Context) (*network.Network, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (p:Person)
		RETURN p.name as name, p.connections as connections, p.games as games
		ORDER BY p.position
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, apperrors.NewGraphQueryFailed("load network", err)
	}

	n := network.New()
	for result.Next(ctx) {
		record := result.Record()
		name := getStringFromRecord(record, "name")
		if name == "" {
			continue
		}
		n.Put(name, network.Person{
			Connections: getStringSliceFromRecord(record, "connections"),
			Games:       getStringSliceFromRecord(record, "games"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewGraphQueryFailed("load network", err)
	}

	r.logger.Debug("Network loaded from graph", zap.Int("people", n.Len()))
	return n, nil
}

func personRows(n *network.Network) []personRow {
	names := n.Names()
	rows := make([]personRow, 0, len(names))
	for i, name := range names {
		p, _ := n.Person(name)
		rows = append(rows, personRow{
			Name:        name,
			Position:    i,
			Connections: p.Connections,
			Games:       p.Games,
		})
	}
	return rows
}

// forEachPerson runs fn for every row with bounded concurrency
func (r *Repository) forEachPerson(ctx context.Context, rows []personRow, fn func(context.Context, personRow) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentWrites)

	for _, row := range rows {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, row)
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return apperrors.NewContextCancelled("sync network", err)
		}
		return err
	}
	return nil
}

func (r *Repository) writePerson(ctx context.Context, row personRow, syncID, now string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	params := row.params(syncID, now)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		upsert := `
			MERGE (p:Person {name: $name})
			SET p.position = $position,
			    p.connections = $connections,
			    p.games = $games,
			    p.sync_id = $syncID,
			    p.synced_at = datetime($now)
		`
		if _, err := tx.Run(ctx, upsert, params); err != nil {
			return nil, err
		}

		reset := `
			MATCH (p:Person {name: $name})-[e:LIKES|CONNECTED_TO]->()
			DELETE e
		`
		if _, err := tx.Run(ctx, reset, params); err != nil {
			return nil, err
		}

		if len(row.Games) == 0 {
			return nil, nil
		}
		likes := `
			MATCH (p:Person {name: $name})
			UNWIND range(0, size($games) - 1) AS rank
			MERGE (g:Game {name: $games[rank]})
			MERGE (p)-[l:LIKES]->(g)
			SET l.rank = rank
		`
		_, err := tx.Run(ctx, likes, params)
		return nil, err
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed(fmt.Sprintf("sync person %s", row.Name), err)
	}
	return nil
}

func (r *Repository) writeConnections(ctx context.Context, row personRow) error {
	if len(row.Connections) == 0 {
		return nil
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	// Dangling names match nothing and produce no edge
	query := `
		MATCH (p:Person {name: $name})
		UNWIND range(0, size($connections) - 1) AS rank
		MATCH (c:Person {name: $connections[rank]})
		MERGE (p)-[e:CONNECTED_TO]->(c)
		SET e.rank = rank
	`

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, query, map[string]interface{}{
			"name":        row.Name,
			"connections": row.Connections,
		})
		return nil, err
	})
	if err != nil {
		return apperrors.NewGraphQueryFailed(fmt.Sprintf("sync connections of %s", row.Name), err)
	}
	return nil
}

// removeStale deletes people from earlier syncs and games nobody likes
func (r *Repository) removeStale(ctx context.Context, syncID string) (int, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	removed, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (p:Person)
			WHERE p.sync_id IS NULL OR p.sync_id <> $syncID
			DETACH DELETE p
		`, map[string]interface{}{"syncID": syncID})
		if err != nil {
			return 0, err
		}
		summary, err := result.Consume(ctx)
		if err != nil {
			return 0, err
		}

		if _, err := tx.Run(ctx, `
			MATCH (g:Game)
			WHERE NOT (g)<-[:LIKES]-()
			DELETE g
		`, nil); err != nil {
			return 0, err
		}
		return summary.Counters().NodesDeleted(), nil
	})
	if err != nil {
		return 0, apperrors.NewGraphQueryFailed("remove stale people", err)
	}
	return removed.(int), nil
}
