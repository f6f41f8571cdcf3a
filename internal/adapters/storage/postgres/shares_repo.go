package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"nightspark/internal/domain/shares"
)

type SharesRepo struct {
	db *sql.DB
}

func NewSharesRepo(db *sql.DB) *SharesRepo {
	return &SharesRepo{db: db}
}

const shareColumns = `
	id, plan_id, owner_user_id, grantee_user_id,
	scopes, status,
	created_at, updated_at, revoked_at`

func (r *SharesRepo) Create(ctx context.Context, s shares.Share) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO plan_shares (`+shareColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		s.ID,
		s.PlanID,
		s.OwnerUserID,
		s.GranteeUserID,
		scopesToTextArray(s.Scopes),
		string(s.Status),
		s.CreatedAt,
		s.UpdatedAt,
		toNullTime(s.RevokedAt),
	)
	return err
}

func (r *SharesRepo) Update(ctx context.Context, s shares.Share) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE plan_shares
		SET
			scopes = $2,
			status = $3,
			updated_at = $4,
			revoked_at = $5
		WHERE id = $1
	`,
		s.ID,
		scopesToTextArray(s.Scopes),
		string(s.Status),
		s.UpdatedAt,
		toNullTime(s.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SharesRepo) GetByID(ctx context.Context, id string) (shares.Share, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shares.Share{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+shareColumns+` FROM plan_shares WHERE id = $1`, id)
	return scanShareRow(row)
}

func (r *SharesRepo) ListByPlan(ctx context.Context, planID string) ([]shares.Share, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+shareColumns+`
		FROM plan_shares
		WHERE plan_id = $1
		ORDER BY created_at ASC, id ASC
	`, planID)
}

func (r *SharesRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]shares.Share, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+shareColumns+`
		FROM plan_shares
		WHERE grantee_user_id = $1
		ORDER BY created_at ASC, id ASC
	`, granteeUserID)
}

func (r *SharesRepo) GetActiveShare(ctx context.Context, planID, granteeUserID string) (shares.Share, error) {
	planID = strings.TrimSpace(planID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if planID == "" || granteeUserID == "" {
		return shares.Share{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+shareColumns+`
		FROM plan_shares
		WHERE plan_id = $1
		  AND grantee_user_id = $2
		  AND status = 'active'
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1
	`, planID, granteeUserID)
	return scanShareRow(row)
}

func (r *SharesRepo) list(ctx context.Context, query string, args ...any) ([]shares.Share, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]shares.Share, 0)
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanShareRow(row *sql.Row) (shares.Share, error) {
	s, err := scanShare(row)
	if errors.Is(err, sql.ErrNoRows) {
		return shares.Share{}, ErrNotFound
	}
	return s, err
}

func scanShare(row rowScanner) (shares.Share, error) {
	var s shares.Share
	var status string
	var scopes []string
	var revokedAt sql.NullTime

	if err := row.Scan(
		&s.ID,
		&s.PlanID,
		&s.OwnerUserID,
		&s.GranteeUserID,
		textArray(&scopes),
		&status,
		&s.CreatedAt,
		&s.UpdatedAt,
		&revokedAt,
	); err != nil {
		return shares.Share{}, err
	}

	s.Status = shares.Status(status)
	s.Scopes = textArrayToScopes(scopes)
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	return s, nil
}

// helpers
func scopesToTextArray(in []shares.Scope) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func textArrayToScopes(in []string) []shares.Scope {
	out := make([]shares.Scope, 0, len(in))
	for _, s := range in {
		out = append(out, shares.Scope(s))
	}
	return out
}
