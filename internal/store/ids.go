package store

import "github.com/google/uuid"

// IDGenerator produces run ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids, so ordering runs
// by id orders them by creation time.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return NewRunID()
}

// NewRunID returns a new UUIDv7 string.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
