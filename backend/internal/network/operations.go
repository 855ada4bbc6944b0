package network

import (
	"slices"
)

// GetConnections returns the people user is directly connected to. ok is
// false when user is not in the network.
func (n *Network) GetConnections(user string) (connections []string, ok bool) {
	p, ok := n.people[user]
	if !ok {
		return nil, false
	}
	return cloneStrings(p.Connections), true
}

// GetGamesLiked returns the games user likes. ok is false when user is not in
// the network.
func (n *Network) GetGamesLiked(user string) (games []string, ok bool) {
	p, ok := n.people[user]
	if !ok {
		return nil, false
	}
	return cloneStrings(p.Games), true
}

// AddConnection appends to to from's connections. It returns false, leaving
// the network untouched, when either person is missing. Adding an existing
// connection is a successful no-op.
func (n *Network) AddConnection(from, to string) bool {
	p, ok := n.people[from]
	if !ok || !n.Has(to) {
		return false
	}
	if !slices.Contains(p.Connections, to) {
		p.Connections = append(p.Connections, to)
	}
	return true
}

// AddNewUser adds user with the given games and no connections. An existing
// user keeps their record unchanged and false is returned.
func (n *Network) AddNewUser(user string, games []string) bool {
	if n.Has(user) {
		return false
	}
	n.put(user, &Person{
		Connections: []string{},
		Games:       cloneStrings(games),
	})
	return true
}

// GetSecondaryConnections returns, for each direct connection of user in
// order, that connection's own connections in order. Duplicates are kept, so
// user and their direct connections may appear in the result. A direct
// connection listed more than once contributes its list only once.
//
// Connections naming someone outside the network contribute nothing; use
// DanglingReferences to find them. ok is false when user is not in the
// network.
func (n *Network) GetSecondaryConnections(user string) (secondary []string, ok bool) {
	p, ok := n.people[user]
	if !ok {
		return nil, false
	}

	secondary = []string{}
	seen := make(map[string]struct{}, len(p.Connections))
	for _, c := range p.Connections {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}

		friend, exists := n.people[c]
		if !exists {
			continue
		}
		secondary = append(secondary, friend.Connections...)
	}
	return secondary, true
}
