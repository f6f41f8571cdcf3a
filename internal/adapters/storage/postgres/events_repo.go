package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"nightspark/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, name, venue, address, city, state,
	start_time, end_time,
	price, age_requirement,
	categories, ticket_links,
	image_url, description,
	current_attendees, max_capacity,
	kind, created_at, updated_at`

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	links, err := json.Marshal(nonNilLinks(e.TicketLinks))
	if err != nil {
		return fmt.Errorf("encode ticket links: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		e.ID,
		e.Name,
		e.Venue,
		e.Address,
		e.City,
		e.State,
		e.StartTime,
		toNullString(e.EndTime),
		e.Price,
		string(e.AgeRequirement),
		categoriesToTextArray(e.Categories),
		string(links),
		e.ImageURL,
		e.Description,
		toNullInt(e.CurrentAttendees),
		toNullInt(e.MaxCapacity),
		string(e.Kind),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) Update(ctx context.Context, e events.Event) error {
	links, err := json.Marshal(nonNilLinks(e.TicketLinks))
	if err != nil {
		return fmt.Errorf("encode ticket links: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET
			name = $2,
			venue = $3,
			address = $4,
			city = $5,
			state = $6,
			start_time = $7,
			end_time = $8,
			price = $9,
			age_requirement = $10,
			categories = $11,
			ticket_links = $12,
			image_url = $13,
			description = $14,
			current_attendees = $15,
			max_capacity = $16,
			kind = $17,
			updated_at = $18
		WHERE id = $1
	`,
		e.ID,
		e.Name,
		e.Venue,
		e.Address,
		e.City,
		e.State,
		e.StartTime,
		toNullString(e.EndTime),
		e.Price,
		string(e.AgeRequirement),
		categoriesToTextArray(e.Categories),
		string(links),
		e.ImageURL,
		e.Description,
		toNullInt(e.CurrentAttendees),
		toNullInt(e.MaxCapacity),
		string(e.Kind),
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return events.Event{}, events.ErrNotFound
	}
	return e, err
}

// List aplica el filtro en SQL con la misma semántica que Filter.Match.
// start_time se ordena con collation "C" (comparación de bytes, como en memoria).
func (r *EventsRepo) List(ctx context.Context, filter events.Filter) ([]events.Event, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Categories) > 0 {
		where = append(where, "categories && "+arg(categoriesToTextArray(filter.Categories))+"::text[]")
	}
	if filter.AgeRequirement != "" {
		where = append(where, "age_requirement = "+arg(string(filter.AgeRequirement)))
	}
	if filter.MinPrice != nil {
		where = append(where, "price >= "+arg(*filter.MinPrice))
	}
	if filter.MaxPrice != nil {
		where = append(where, "price <= "+arg(*filter.MaxPrice))
	}

	q := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY start_time COLLATE "C" ASC, id COLLATE "C" ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (events.Event, error) {
	var e events.Event
	var (
		endTime    sql.NullString
		age, kind  string
		categories []string
		links      []byte
		current    sql.NullInt64
		capacity   sql.NullInt64
		createdAt  time.Time
		updatedAt  time.Time
	)

	if err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Venue,
		&e.Address,
		&e.City,
		&e.State,
		&e.StartTime,
		&endTime,
		&e.Price,
		&age,
		textArray(&categories),
		&links,
		&e.ImageURL,
		&e.Description,
		&current,
		&capacity,
		&kind,
		&createdAt,
		&updatedAt,
	); err != nil {
		return events.Event{}, err
	}

	e.AgeRequirement = events.AgeRequirement(age)
	e.Kind = events.Kind(kind)
	e.Categories = textArrayToCategories(categories)
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	if endTime.Valid {
		v := endTime.String
		e.EndTime = &v
	}
	if current.Valid {
		v := int(current.Int64)
		e.CurrentAttendees = &v
	}
	if capacity.Valid {
		v := int(capacity.Int64)
		e.MaxCapacity = &v
	}

	e.TicketLinks = map[string]string{}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &e.TicketLinks); err != nil {
			return events.Event{}, fmt.Errorf("decode ticket links %s: %w", e.ID, err)
		}
	}
	return e, nil
}

// helpers
func categoriesToTextArray(in []events.Category) []string {
	out := make([]string, 0, len(in))
	for _, c := range in {
		out = append(out, string(c))
	}
	return out
}

func textArrayToCategories(in []string) []events.Category {
	out := make([]events.Category, 0, len(in))
	for _, s := range in {
		out = append(out, events.Category(s))
	}
	return out
}

func nonNilLinks(in map[string]string) map[string]string {
	if in == nil {
		return map[string]string{}
	}
	return in
}
