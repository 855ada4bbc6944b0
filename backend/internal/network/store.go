package network

import (
	"sync"
)

// Store owns a Network and serializes access to it, for callers that share
// one network between goroutines.
type Store struct {
	mu      sync.RWMutex
	network *Network
}

// NewStore takes ownership of n. A nil n starts the store empty.
func NewStore(n *Network) *Store {
	if n == nil {
		n = New()
	}
	return &Store{network: n}
}

// Replace swaps in a new network, typically one freshly parsed from text.
// A nil n empties the store.
func (s *Store) Replace(n *Network) {
	if n == nil {
		n = New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.network = n
}

// Snapshot returns a deep copy of the current network.
func (s *Store) Snapshot() *Network {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.Clone()
}

func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.Names()
}

func (s *Store) Person(user string) (Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.Person(user)
}

func (s *Store) DanglingReferences() []Reference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.DanglingReferences()
}

func (s *Store) GetConnections(user string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.GetConnections(user)
}

func (s *Store) GetGamesLiked(user string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.GetGamesLiked(user)
}

func (s *Store) GetSecondaryConnections(user string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.GetSecondaryConnections(user)
}

func (s *Store) AddConnection(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.AddConnection(from, to)
}

func (s *Store) AddNewUser(user string, games []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.network.AddNewUser(user, games)
}

func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.network.String()
}
