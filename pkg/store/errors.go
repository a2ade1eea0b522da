package store

import "fmt"

// NotFoundError is returned when an update targets an id that is absent
// from a collection. Reads report absence by returning nil instead.
type NotFoundError struct {
	Model string
	ID    int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model %q has no record with id %d", e.Model, e.ID)
}
