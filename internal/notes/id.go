package notes

import "github.com/google/uuid"

// IDProvider issues identifiers for newly created notes.
type IDProvider interface {
	NewID() string
}

type uuidProvider struct{}

// NewUUIDProvider constructs an IDProvider that issues UUIDv7 identifiers.
func NewUUIDProvider() IDProvider {
	return &uuidProvider{}
}

func (p *uuidProvider) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
