package patient

import (
	"context"
	"errors"

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

const patientCols = `id, rut, first_name, last_name_paternal, last_name_maternal,
	birth_date, marital_status, education, indigenous_origin,
	address, commune, region, insurance, origin_clinic, phone,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.RUT, &p.FirstName, &p.LastNamePaternal, &p.LastNameMaternal,
		&p.BirthDate, &p.MaritalStatus, &p.Education, &p.IndigenousOrigin,
		&p.Address, &p.Commune, &p.Region, &p.Insurance, &p.OriginClinic, &p.Phone,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, rut, first_name, last_name_paternal, last_name_maternal,
			birth_date, marital_status, education, indigenous_origin,
			address, commune, region, insurance, origin_clinic, phone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		p.ID, p.RUT, p.FirstName, p.LastNamePaternal, p.LastNameMaternal,
		p.BirthDate, p.MaritalStatus, p.Education, p.IndigenousOrigin,
		p.Address, p.Commune, p.Region, p.Insurance, p.OriginClinic, p.Phone)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *repoPG) GetByRUT(ctx context.Context, rut string) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE rut = $1`, rut))
}

func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET first_name=$2, last_name_paternal=$3, last_name_maternal=$4,
			marital_status=$5, education=$6, indigenous_origin=$7,
			address=$8, commune=$9, region=$10, insurance=$11, origin_clinic=$12,
			phone=$13, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastNamePaternal, p.LastNameMaternal,
		p.MaritalStatus, p.Education, p.IndigenousOrigin,
		p.Address, p.Commune, p.Region, p.Insurance, p.OriginClinic,
		p.Phone)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *repoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	pattern := "%" + query + "%"
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM patient
		WHERE rut ILIKE $1 OR first_name ILIKE $1 OR last_name_paternal ILIKE $1`,
		pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+patientCols+` FROM patient
		WHERE rut ILIKE $1 OR first_name ILIKE $1 OR last_name_paternal ILIKE $1
		ORDER BY last_name_paternal, first_name LIMIT $2 OFFSET $3`,
		pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
