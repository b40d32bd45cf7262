package alert

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

const alertCols = `id, alert_type, urgency, state, title, description, notes,
	newborn_id, birth_event_id, patient_id, raised_by, attended_by,
	raised_at, attended_at, resolved_at, updated_at`

// urgencyOrder sorts critical first without promoting urgency to its own
// table. Keep in sync with the urgency constants.
const urgencyOrder = `CASE urgency
	WHEN 'critical' THEN 4 WHEN 'high' THEN 3 WHEN 'medium' THEN 2 ELSE 1 END DESC`

func scanAlert(row pgx.Row) (*Alert, error) {
	var a Alert
	err := row.Scan(&a.ID, &a.AlertType, &a.Urgency, &a.State, &a.Title, &a.Description, &a.Notes,
		&a.NewbornID, &a.BirthEventID, &a.PatientID, &a.RaisedBy, &a.AttendedBy,
		&a.RaisedAt, &a.AttendedAt, &a.ResolvedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alert (id, alert_type, urgency, state, title, description, notes,
			newborn_id, birth_event_id, patient_id, raised_by, raised_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.AlertType, a.Urgency, a.State, a.Title, a.Description, a.Notes,
		a.NewbornID, a.BirthEventID, a.PatientID, a.RaisedBy, a.RaisedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Alert, error) {
	return scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM alert WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Alert) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE alert SET state=$2, notes=$3, attended_by=$4, attended_at=$5, resolved_at=$6,
			updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.State, a.Notes, a.AttendedBy, a.AttendedAt, a.ResolvedAt)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Alert, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	if f.State != "" {
		args = append(args, f.State)
		where += fmt.Sprintf(" AND state = $%d", len(args))
	}
	if f.Urgency != "" {
		args = append(args, f.Urgency)
		where += fmt.Sprintf(" AND urgency = $%d", len(args))
	}
	if f.AlertType != "" {
		args = append(args, f.AlertType)
		where += fmt.Sprintf(" AND alert_type = $%d", len(args))
	}
	if f.NewbornID != nil {
		args = append(args, *f.NewbornID)
		where += fmt.Sprintf(" AND newborn_id = $%d", len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM alert`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	query := `SELECT ` + alertCols + ` FROM alert` + where +
		` ORDER BY ` + urgencyOrder + `, raised_at DESC` +
		fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *repoPG) HasOpenOfType(ctx context.Context, alertType string, newbornID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alert
			WHERE alert_type = $1 AND newborn_id = $2 AND state IN ('active', 'in_attention')
		)`, alertType, newbornID).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountByStateAndUrgency(ctx context.Context) ([]StateUrgencyCount, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT state, urgency, COUNT(*) FROM alert
		GROUP BY state, urgency
		ORDER BY state, `+urgencyOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var counts []StateUrgencyCount
	for rows.Next() {
		var c StateUrgencyCount
		if err := rows.Scan(&c.State, &c.Urgency, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
