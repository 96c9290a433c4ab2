package event

import "context"

type Repository interface {
	Append(ctx context.Context, e *Event) error
	// ListAfter returns up to limit events with id > afterID, ordered by id.
	ListAfter(ctx context.Context, afterID uint64, limit int) ([]Event, error)
}
