package utils

import "github.com/google/uuid"

// UUIDGenerator hands out request trace ids.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a v7 UUID, which sorts by creation time in the logs.
// If the clock source fails it falls back to a random v4.
func (*UUIDGenerator) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
