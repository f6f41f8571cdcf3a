package events

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("event not found")

// Repository es el set "Storage" curado a mano (CRUD común, sin invariantes de pipeline).
type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, filter Filter) ([]Event, error)
}
