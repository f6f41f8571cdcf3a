package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"nightspark/internal/domain/plans"
)

// PlansRepo guarda el plan en `plans` y sus items (snapshot JSONB) en
// `plan_items`. Update reemplaza los items dentro de una transacción.
type PlansRepo struct {
	db *sql.DB
}

func NewPlansRepo(db *sql.DB) *PlansRepo {
	return &PlansRepo{db: db}
}

func (r *PlansRepo) Create(ctx context.Context, p plans.Plan) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plans (id, owner_user_id, name, plan_date, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, p.ID, p.OwnerUserID, p.Name, p.Date, p.CreatedAt, p.UpdatedAt); err != nil {
			return err
		}
		return insertItems(ctx, tx, p)
	})
}

func (r *PlansRepo) Update(ctx context.Context, p plans.Plan) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE plans
			SET name = $2, plan_date = $3, updated_at = $4
			WHERE id = $1
		`, p.ID, p.Name, p.Date, p.UpdatedAt)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return plans.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM plan_items WHERE plan_id = $1`, p.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, p)
	})
}

func (r *PlansRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return plans.ErrNotFound
	}
	return nil
}

func (r *PlansRepo) GetByID(ctx context.Context, id string) (plans.Plan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return plans.Plan{}, plans.ErrNotFound
	}

	var p plans.Plan
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, name, plan_date, created_at, updated_at
		FROM plans
		WHERE id = $1
	`, id).Scan(&p.ID, &p.OwnerUserID, &p.Name, &p.Date, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return plans.Plan{}, plans.ErrNotFound
		}
		return plans.Plan{}, err
	}

	items, err := r.loadItems(ctx, p.ID)
	if err != nil {
		return plans.Plan{}, err
	}
	p.Items = items
	return p, nil
}

// ListByOwner: más nuevo primero.
func (r *PlansRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]plans.Plan, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, name, plan_date, created_at, updated_at
		FROM plans
		WHERE owner_user_id = $1
		ORDER BY created_at DESC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plans.Plan, 0)
	for rows.Next() {
		var p plans.Plan
		if err := rows.Scan(&p.ID, &p.OwnerUserID, &p.Name, &p.Date, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.loadItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

// loadItems respeta el orden guardado (position), que el service ya dejó por startTime.
func (r *PlansRepo) loadItems(ctx context.Context, planID string) ([]plans.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT event, added_at
		FROM plan_items
		WHERE plan_id = $1
		ORDER BY position ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]plans.Item, 0)
	for rows.Next() {
		var raw []byte
		var it plans.Item
		if err := rows.Scan(&raw, &it.AddedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &it.Event); err != nil {
			return nil, fmt.Errorf("decode plan item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func insertItems(ctx context.Context, tx *sql.Tx, p plans.Plan) error {
	for i, it := range p.Items {
		raw, err := json.Marshal(it.Event)
		if err != nil {
			return fmt.Errorf("encode plan item %s: %w", it.Event.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO plan_items (plan_id, event_id, position, event, added_at)
			VALUES ($1,$2,$3,$4,$5)
		`, p.ID, it.Event.ID, i, string(raw), it.AddedAt); err != nil {
			return err
		}
	}
	return nil
}

func (r *PlansRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
