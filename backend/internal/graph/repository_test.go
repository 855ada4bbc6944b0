package graph

import (
	"context"
	"os"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenet/backend/internal/network"
)

const testNetwork = "John is connected to Bryant, Debra, Ghost.\n" +
	"John likes to play The Movie: The Game, Dinosaur Diner.\n" +
	"Bryant is connected to John.\n" +
	"Bryant likes to play Dinosaur Diner.\n" +
	"Debra is connected to.\n" +
	"Debra likes to play.\n"

func TestPersonRows(t *testing.T) {
	n, err := network.Parse(testNetwork)
	require.NoError(t, err)

	rows := personRows(n)
	require.Len(t, rows, 3)
	assert.Equal(t, personRow{
		Name:        "John",
		Position:    0,
		Connections: []string{"Bryant", "Debra", "Ghost"},
		Games:       []string{"The Movie: The Game", "Dinosaur Diner"},
	}, rows[0])
	assert.Equal(t, 2, rows[2].Position)
	assert.Empty(t, rows[2].Games)

	params := rows[1].params("sync-1", "2026-01-01T00:00:00Z")
	assert.Equal(t, "Bryant", params["name"])
	assert.Equal(t, "sync-1", params["syncID"])
	assert.Equal(t, []string{"John"}, params["connections"])
}

func TestDistinctCount(t *testing.T) {
	assert.Equal(t, 0, distinctCount())
	assert.Equal(t, 3, distinctCount([]string{"a", "b"}, []string{"b", "c"}, nil))
}

func TestGetStringSliceFromRecord(t *testing.T) {
	record := &neo4j.Record{
		Keys:   []string{"anys", "strings", "null", "wrong"},
		Values: []any{[]any{"a", 1, "b"}, []string{"x"}, nil, "scalar"},
	}

	assert.Equal(t, []string{"a", "b"}, getStringSliceFromRecord(record, "anys"))
	assert.Equal(t, []string{"x"}, getStringSliceFromRecord(record, "strings"))
	assert.Equal(t, []string{}, getStringSliceFromRecord(record, "null"))
	assert.Equal(t, []string{}, getStringSliceFromRecord(record, "wrong"))
	assert.Equal(t, []string{}, getStringSliceFromRecord(record, "missing"))
	assert.Equal(t, "scalar", getStringFromRecord(record, "wrong"))
	assert.Equal(t, "", getStringFromRecord(record, "null"))
}

// The tests below require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables.
// They wipe Person and Game nodes, so never point them at real data.

func TestRepository_SyncAndLoadNetwork(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	n, err := network.Parse(testNetwork)
	require.NoError(t, err)

	result, err := repo.SyncNetwork(ctx, n)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SyncID)
	assert.Equal(t, 3, result.People)
	assert.Equal(t, 2, result.Games)
	assert.Equal(t, 4, result.Connections)
	assert.Equal(t, 1, result.Dangling)

	loaded, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, n.String(), loaded.String())

	// Only the two resolvable connections of John plus Bryant's become edges
	edges := countRelationships(t, repo, "CONNECTED_TO")
	assert.Equal(t, int64(3), edges)
}

func TestRepository_SyncRemovesStalePeople(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := network.Parse(testNetwork)
	require.NoError(t, err)
	_, err = repo.SyncNetwork(ctx, first)
	require.NoError(t, err)

	second, err := network.Parse("Alice is connected to. Alice likes to play Chess.")
	require.NoError(t, err)
	result, err := repo.SyncNetwork(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Removed)

	loaded, err := repo.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice"}, loaded.Names())
	assert.Equal(t, int64(0), countRelationships(t, repo, "CONNECTED_TO"))
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := Connect(ctx,
		envOr("NEO4J_URI", "bolt://localhost:7687"),
		envOr("NEO4J_USER", "neo4j"),
		envOr("NEO4J_PASSWORD", "password"),
	)
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}

	repo := NewRepository(driver)
	require.NoError(t, repo.EnsureSchema(ctx))
	wipe(t, driver)

	t.Cleanup(func() {
		wipe(t, driver)
		_ = repo.Close()
	})
	return repo
}

func wipe(t *testing.T, driver neo4j.DriverWithContext) {
	ctx := context.Background()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, err := session.Run(ctx, "MATCH (n) WHERE n:Person OR n:Game DETACH DELETE n", nil)
	require.NoError(t, err)
}

func countRelationships(t *testing.T, repo *Repository, relType string) int64 {
	ctx := context.Background()
	session := repo.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH ()-[r]->() WHERE type(r) = $type RETURN count(r) as c",
		map[string]interface{}{"type": relType})
	require.NoError(t, err)
	record, err := result.Single(ctx)
	require.NoError(t, err)
	count, _ := record.Get("c")
	return count.(int64)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
