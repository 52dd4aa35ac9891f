package pkg

import "github.com/google/uuid"

// GenerateClientID - generates a unique identifier for a new connection.
func GenerateClientID() string {
	return uuid.NewString()
}
