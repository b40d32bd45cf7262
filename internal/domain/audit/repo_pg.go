package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hhm/maternity/internal/domain/errs"
	"github.com/hhm/maternity/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, user_id, user_name, action, entity, entity_id, description,
	before_state, after_state, ip_address, user_agent, request_id, timestamp`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.UserName, &e.Action, &e.Entity, &e.EntityID, &e.Description,
		&e.BeforeState, &e.AfterState, &e.IPAddress, &e.UserAgent, &e.RequestID, &e.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &e, err
}

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO audit_entry (id, user_id, user_name, action, entity, entity_id,
			description, before_state, after_state, ip_address, user_agent, request_id, timestamp)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		e.ID, e.UserID, e.UserName, e.Action, e.Entity, e.EntityID,
		e.Description, e.BeforeState, e.AfterState, e.IPAddress, e.UserAgent, e.RequestID, e.Timestamp)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return scanEntry(r.conn(ctx).QueryRow(ctx, `SELECT `+entryCols+` FROM audit_entry WHERE id = $1`, id))
}

func (r *repoPG) Search(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if f.UserID != "" {
		args = append(args, f.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if f.Action != "" {
		args = append(args, f.Action)
		where += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if f.Entity != "" {
		args = append(args, f.Entity)
		where += fmt.Sprintf(" AND entity = $%d", len(args))
	}
	if f.EntityID != "" {
		args = append(args, f.EntityID)
		where += fmt.Sprintf(" AND entity_id = $%d", len(args))
	}
	if !f.From.IsZero() {
		args = append(args, f.From)
		where += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if !f.To.IsZero() {
		args = append(args, f.To)
		where += fmt.Sprintf(" AND timestamp < $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM audit_entry`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT ` + entryCols + ` FROM audit_entry` + where +
		fmt.Sprintf(` ORDER BY timestamp DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}
