package domain

// Actor is the caller of an operation as supplied by the identity
// collaborator: an opaque id, an optional display name and whether the
// platform treats them as an administrator.
type Actor struct {
	ID    string
	Name  string
	Admin bool
}

// DisplayName falls back to the id when no name was supplied.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}
