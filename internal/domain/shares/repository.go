package shares

import "context"

type Repository interface {
	Create(ctx context.Context, s Share) error
	Update(ctx context.Context, s Share) error
	GetByID(ctx context.Context, id string) (Share, error)
	ListByPlan(ctx context.Context, planID string) ([]Share, error)
	ListByGrantee(ctx context.Context, granteeUserID string) ([]Share, error)

	// GetActiveShare devuelve el share activo más reciente de (plan, grantee).
	GetActiveShare(ctx context.Context, planID, granteeUserID string) (Share, error)
}
