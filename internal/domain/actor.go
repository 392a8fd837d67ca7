package domain

// Actor is the per-request identity supplied by the authentication
// collaborator. The core never authenticates anyone itself; it only
// evaluates permissions against these pre-verified facts. A nil *Actor
// is a valid anonymous caller.
type Actor struct {
	ID            uint64
	Name          string
	Email         string
	Authenticated bool
	Staff         bool
	Superuser     bool
}

// Anonymous returns the unauthenticated actor
func Anonymous() *Actor {
	return &Actor{}
}

// IsAuthenticated is nil-safe: a missing actor is anonymous
func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.Authenticated
}

// IsStaff is nil-safe
func (a *Actor) IsStaff() bool {
	return a != nil && a.Staff
}

// IsSuperuser is nil-safe
func (a *Actor) IsSuperuser() bool {
	return a != nil && a.Superuser
}
