package plans

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("plan not found")

type Repository interface {
	Create(ctx context.Context, p Plan) error
	Update(ctx context.Context, p Plan) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Plan, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Plan, error)
}
