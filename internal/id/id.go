// Package id provides unique identifier generation for request logging.
package id

import "github.com/google/uuid"

// Request returns a new random request identifier (UUID v4).
func Request() string {
	return uuid.NewString()
}
