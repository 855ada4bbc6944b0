package network

import (
	"errors"

	apperrors "gamenet/backend/pkg/errors"
)

// Reference is a connection from User to someone who is not in the network.
type Reference struct {
	User       string `json:"user"`
	Connection string `json:"connection"`
}

// DanglingReferences lists every connection whose target is not a member of
// the network, in insertion order.
func (n *Network) DanglingReferences() []Reference {
	var refs []Reference
	for _, name := range n.order {
		for _, c := range n.people[name].Connections {
			if !n.Has(c) {
				refs = append(refs, Reference{User: name, Connection: c})
			}
		}
	}
	return refs
}

// Validate returns one *errors.ErrDanglingReference per dangling connection,
// joined, or nil when every connection resolves.
func (n *Network) Validate() error {
	var errs []error
	for _, ref := range n.DanglingReferences() {
		errs = append(errs, apperrors.NewDanglingReference(ref.User, ref.Connection))
	}
	return errors.Join(errs...)
}
