package network

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Operations(t *testing.T) {
	s := NewStore(mustParse(t, sampleText))

	conns, ok := s.GetConnections("Robin")
	require.True(t, ok)
	assert.Equal(t, []string{"Ollie"}, conns)

	games, ok := s.GetGamesLiked("Robin")
	require.True(t, ok)
	assert.Equal(t, []string{"Call of Arms", "Dwarves and Swords"}, games)

	assert.True(t, s.AddNewUser("Alice", []string{"Chess"}))
	assert.True(t, s.AddConnection("Robin", "Alice"))
	assert.False(t, s.AddConnection("Robin", "Nobody"))

	secondary, ok := s.GetSecondaryConnections("Robin")
	require.True(t, ok)
	assert.Equal(t, []string{"Mercedes", "Freda", "Bryant"}, secondary)

	assert.Contains(t, s.Names(), "Alice")
	assert.Contains(t, s.String(), "Robin is connected to Ollie, Alice.")
}

func TestStore_ReplaceNilEmpties(t *testing.T) {
	s := NewStore(mustParse(t, sampleText))
	s.Replace(nil)

	assert.Empty(t, s.Names())
	assert.Empty(t, s.DanglingReferences())
	assert.Equal(t, "", s.String())
	assert.True(t, s.AddNewUser("Alice", nil))
}

func TestStore_NilStartsEmpty(t *testing.T) {
	s := NewStore(nil)
	assert.Empty(t, s.Names())

	_, ok := s.GetConnections("John")
	assert.False(t, ok)
}

func TestStore_ReplaceAndSnapshot(t *testing.T) {
	s := NewStore(mustParse(t, sampleText))
	snap := s.Snapshot()

	s.Replace(mustParse(t, "Alice is connected to. Alice likes to play Chess."))
	assert.Equal(t, []string{"Alice"}, s.Names())

	// the snapshot taken earlier is unaffected
	assert.Equal(t, 11, snap.Len())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore(mustParse(t, sampleText))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := fmt.Sprintf("player-%d", i)
			s.AddNewUser(user, []string{"Chess"})
			s.AddConnection(user, "John")
			s.AddConnection("John", user)
			s.GetSecondaryConnections("John")
			_ = s.String()
		}(i)
	}
	wg.Wait()

	conns, ok := s.GetConnections("John")
	require.True(t, ok)
	assert.Len(t, conns, 3+20)
}
