package newborn

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

// =========== Newborn Repository ===========

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

const newbornCols = `id, birth_event_id, sex, weight_grams, length_cm, head_circumference_cm,
	apgar_1, apgar_5, apgar_10, resuscitation, resuscitation_type,
	malformation, malformation_detail, cord_clamping, skin_to_skin,
	vitamin_k, eye_prophylaxis, hep_b_vaccine, destination, vital_status,
	evaluated_by, created_at, updated_at`

func scanNewborn(row pgx.Row) (*Newborn, error) {
	var n Newborn
	err := row.Scan(&n.ID, &n.BirthEventID, &n.Sex, &n.WeightGrams, &n.LengthCM, &n.HeadCircumferenceCM,
		&n.Apgar1, &n.Apgar5, &n.Apgar10, &n.Resuscitation, &n.ResuscitationType,
		&n.Malformation, &n.MalformationDetail, &n.CordClamping, &n.SkinToSkin,
		&n.VitaminK, &n.EyeProphylaxis, &n.HepBVaccine, &n.Destination, &n.VitalStatus,
		&n.EvaluatedBy, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &n, err
}

func (r *repoPG) Create(ctx context.Context, n *Newborn) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO newborn (id, birth_event_id, sex, weight_grams, length_cm, head_circumference_cm,
			apgar_1, apgar_5, apgar_10, resuscitation, resuscitation_type,
			malformation, malformation_detail, cord_clamping, skin_to_skin,
			vitamin_k, eye_prophylaxis, hep_b_vaccine, destination, vital_status, evaluated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		n.ID, n.BirthEventID, n.Sex, n.WeightGrams, n.LengthCM, n.HeadCircumferenceCM,
		n.Apgar1, n.Apgar5, n.Apgar10, n.Resuscitation, n.ResuscitationType,
		n.Malformation, n.MalformationDetail, n.CordClamping, n.SkinToSkin,
		n.VitaminK, n.EyeProphylaxis, n.HepBVaccine, n.Destination, n.VitalStatus, n.EvaluatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Newborn, error) {
	return scanNewborn(r.conn(ctx).QueryRow(ctx, `SELECT `+newbornCols+` FROM newborn WHERE id = $1`, id))
}

func (r *repoPG) GetByBirthEvent(ctx context.Context, birthEventID uuid.UUID) (*Newborn, error) {
	return scanNewborn(r.conn(ctx).QueryRow(ctx, `SELECT `+newbornCols+` FROM newborn WHERE birth_event_id = $1`, birthEventID))
}

func (r *repoPG) Update(ctx context.Context, n *Newborn) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE newborn SET sex=$2, weight_grams=$3, length_cm=$4, head_circumference_cm=$5,
			resuscitation=$6, resuscitation_type=$7, malformation=$8, malformation_detail=$9,
			cord_clamping=$10, skin_to_skin=$11, vitamin_k=$12, eye_prophylaxis=$13,
			hep_b_vaccine=$14, destination=$15, vital_status=$16, updated_at=NOW()
		WHERE id = $1`,
		n.ID, n.Sex, n.WeightGrams, n.LengthCM, n.HeadCircumferenceCM,
		n.Resuscitation, n.ResuscitationType, n.Malformation, n.MalformationDetail,
		n.CordClamping, n.SkinToSkin, n.VitaminK, n.EyeProphylaxis,
		n.HepBVaccine, n.Destination, n.VitalStatus)
	return err
}

func (r *repoPG) SetApgar(ctx context.Context, id uuid.UUID, minute, total int) error {
	var col string
	switch minute {
	case 1:
		col = "apgar_1"
	case 5:
		col = "apgar_5"
	case 10:
		col = "apgar_10"
	default:
		return errs.Validationf("minute", "invalid value: %d", minute)
	}
	_, err := r.conn(ctx).Exec(ctx, `UPDATE newborn SET `+col+`=$2, updated_at=NOW() WHERE id = $1`, id, total)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM newborn WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Newborn, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM newborn`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+newbornCols+` FROM newborn ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Newborn
	for rows.Next() {
		n, err := scanNewborn(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, n)
	}
	return items, total, nil
}

// =========== APGAR Detail Repository ===========

type apgarRepoPG struct{ pool *pgxpool.Pool }

func NewAPGARDetailRepoPG(pool *pgxpool.Pool) APGARDetailRepository {
	return &apgarRepoPG{pool: pool}
}

func (r *apgarRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const apgarCols = `id, newborn_id, minute, heart_rate, respiratory_effort, muscle_tone,
	reflex_irritability, skin_color, evaluated_by, created_at`

func scanAPGARDetail(row pgx.Row) (*APGARDetail, error) {
	var d APGARDetail
	err := row.Scan(&d.ID, &d.NewbornID, &d.Minute, &d.HeartRate, &d.RespiratoryEffort, &d.MuscleTone,
		&d.ReflexIrritability, &d.SkinColor, &d.EvaluatedBy, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &d, err
}

func (r *apgarRepoPG) Create(ctx context.Context, d *APGARDetail) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO apgar_detail (id, newborn_id, minute, heart_rate, respiratory_effort,
			muscle_tone, reflex_irritability, skin_color, evaluated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.NewbornID, d.Minute, d.HeartRate, d.RespiratoryEffort,
		d.MuscleTone, d.ReflexIrritability, d.SkinColor, d.EvaluatedBy)
	return err
}

func (r *apgarRepoPG) ExistsForMinute(ctx context.Context, newbornID uuid.UUID, minute int) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM apgar_detail WHERE newborn_id = $1 AND minute = $2)`,
		newbornID, minute).Scan(&exists)
	return exists, err
}

func (r *apgarRepoPG) ListByNewborn(ctx context.Context, newbornID uuid.UUID) ([]*APGARDetail, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apgarCols+` FROM apgar_detail WHERE newborn_id = $1 ORDER BY minute`, newbornID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*APGARDetail
	for rows.Next() {
		d, err := scanAPGARDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, nil
}

// =========== Complication Repository ===========

type complicationRepoPG struct{ pool *pgxpool.Pool }

func NewComplicationRepoPG(pool *pgxpool.Pool) ComplicationRepository {
	return &complicationRepoPG{pool: pool}
}

func (r *complicationRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const ncCols = `id, newborn_id, complication_type, icd10_code, severity,
	required_nicu, ventilation, phototherapy, recorded_by, created_at`

func scanNeonatalComplication(row pgx.Row) (*NeonatalComplication, error) {
	var nc NeonatalComplication
	err := row.Scan(&nc.ID, &nc.NewbornID, &nc.ComplicationType, &nc.ICD10Code, &nc.Severity,
		&nc.RequiredNICU, &nc.Ventilation, &nc.Phototherapy, &nc.RecordedBy, &nc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &nc, err
}

func (r *complicationRepoPG) Create(ctx context.Context, nc *NeonatalComplication) error {
	nc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO neonatal_complication (id, newborn_id, complication_type, icd10_code,
			severity, required_nicu, ventilation, phototherapy, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		nc.ID, nc.NewbornID, nc.ComplicationType, nc.ICD10Code,
		nc.Severity, nc.RequiredNICU, nc.Ventilation, nc.Phototherapy, nc.RecordedBy)
	return err
}

func (r *complicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*NeonatalComplication, error) {
	return scanNeonatalComplication(r.conn(ctx).QueryRow(ctx, `SELECT `+ncCols+` FROM neonatal_complication WHERE id = $1`, id))
}

func (r *complicationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM neonatal_complication WHERE id = $1`, id)
	return err
}

func (r *complicationRepoPG) ListByNewborn(ctx context.Context, newbornID uuid.UUID) ([]*NeonatalComplication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+ncCols+` FROM neonatal_complication WHERE newborn_id = $1 ORDER BY created_at DESC`, newbornID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*NeonatalComplication
	for rows.Next() {
		nc, err := scanNeonatalComplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, nc)
	}
	return items, nil
}
