package service

import "even/internal/models"

// Actor is the authenticated caller a request acts for. Handlers build it
// from the auth middleware's locals; services never read request state.
type Actor struct {
	ID uint
}

// Authenticated reports whether the actor carries a user id.
func (a Actor) Authenticated() bool {
	return a.ID != 0
}

func requireActor(a Actor) error {
	if !a.Authenticated() {
		return models.NewUnauthorizedError("Authentication required")
	}
	return nil
}
