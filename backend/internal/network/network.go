// Package network parses the two-sentence-per-person description of a gamer
// social network and answers connection and game queries over it.
package network

// Person is the record kept for each member of a Network.
type Person struct {
	Connections []string `json:"connections"`
	Games       []string `json:"games"`
}

// Network maps a person's name to their record. Names are compared exactly
// and remember the order they were first added in.
//
// A Network is not safe for concurrent use; wrap it in a Store when more
// than one goroutine needs it.
type Network struct {
	people map[string]*Person
	order  []string
}

// New returns an empty Network.
func New() *Network {
	return &Network{people: make(map[string]*Person)}
}

// Len returns the number of people in the network.
func (n *Network) Len() int {
	return len(n.order)
}

// Names returns every person's name in insertion order.
func (n *Network) Names() []string {
	return cloneStrings(n.order)
}

// Has reports whether user is a member of the network.
func (n *Network) Has(user string) bool {
	_, ok := n.people[user]
	return ok
}

// Person returns a copy of user's record.
func (n *Network) Person(user string) (Person, bool) {
	p, ok := n.people[user]
	if !ok {
		return Person{}, false
	}
	return Person{
		Connections: cloneStrings(p.Connections),
		Games:       cloneStrings(p.Games),
	}, true
}

// Clone returns a deep copy of the network.
func (n *Network) Clone() *Network {
	c := &Network{
		people: make(map[string]*Person, len(n.people)),
		order:  cloneStrings(n.order),
	}
	for name, p := range n.people {
		c.people[name] = &Person{
			Connections: cloneStrings(p.Connections),
			Games:       cloneStrings(p.Games),
		}
	}
	return c
}

// Put stores a copy of p under user, replacing any existing record while
// keeping its position. Nil lists are stored as empty ones.
func (n *Network) Put(user string, p Person) {
	n.put(user, &Person{
		Connections: cloneStrings(p.Connections),
		Games:       cloneStrings(p.Games),
	})
}

// put stores p under name, replacing any earlier record in place.
func (n *Network) put(name string, p *Person) {
	if _, exists := n.people[name]; !exists {
		n.order = append(n.order, name)
	}
	n.people[name] = p
}

func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
