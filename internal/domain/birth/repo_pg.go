package birth

import (
	"context"
	"errors"
	"time"

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

// =========== Event Repository ===========

type eventRepoPG struct{ pool *pgxpool.Pool }

func NewEventRepoPG(pool *pgxpool.Pool) EventRepository {
	return &eventRepoPG{pool: pool}
}

func (r *eventRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const eventCols = `id, patient_id, prenatal_control_id, recorded_by, birth_datetime,
	gestational_weeks, gestational_days, delivery_type, presentation, labor_onset,
	primipara, prior_uterine_scar, multiple_pregnancy,
	membrane_rupture, amniotic_fluid, anesthesia, cesarean_indication, place_of_care,
	complications, robson_group, created_at, updated_at`

func scanEvent(row pgx.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.PatientID, &e.PrenatalControlID, &e.RecordedBy, &e.BirthDateTime,
		&e.GestationalWeeks, &e.GestationalDays, &e.DeliveryType, &e.Presentation, &e.LaborOnset,
		&e.Primipara, &e.PriorUterineScar, &e.MultiplePregnancy,
		&e.MembraneRupture, &e.AmnioticFluid, &e.Anesthesia, &e.CesareanIndication, &e.PlaceOfCare,
		&e.Complications, &e.RobsonGroup, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &e, err
}

func (r *eventRepoPG) Create(ctx context.Context, e *Event) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO birth_event (id, patient_id, prenatal_control_id, recorded_by, birth_datetime,
			gestational_weeks, gestational_days, delivery_type, presentation, labor_onset,
			primipara, prior_uterine_scar, multiple_pregnancy,
			membrane_rupture, amniotic_fluid, anesthesia, cesarean_indication, place_of_care,
			complications, robson_group)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		e.ID, e.PatientID, e.PrenatalControlID, e.RecordedBy, e.BirthDateTime,
		e.GestationalWeeks, e.GestationalDays, e.DeliveryType, e.Presentation, e.LaborOnset,
		e.Primipara, e.PriorUterineScar, e.MultiplePregnancy,
		e.MembraneRupture, e.AmnioticFluid, e.Anesthesia, e.CesareanIndication, e.PlaceOfCare,
		e.Complications, e.RobsonGroup)
	return err
}

func (r *eventRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	return scanEvent(r.conn(ctx).QueryRow(ctx, `SELECT `+eventCols+` FROM birth_event WHERE id = $1`, id))
}

func (r *eventRepoPG) Update(ctx context.Context, e *Event) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE birth_event SET birth_datetime=$2, gestational_weeks=$3, gestational_days=$4,
			delivery_type=$5, presentation=$6, labor_onset=$7,
			primipara=$8, prior_uterine_scar=$9, multiple_pregnancy=$10,
			membrane_rupture=$11, amniotic_fluid=$12, anesthesia=$13,
			cesarean_indication=$14, place_of_care=$15, complications=$16,
			robson_group=$17, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.BirthDateTime, e.GestationalWeeks, e.GestationalDays,
		e.DeliveryType, e.Presentation, e.LaborOnset,
		e.Primipara, e.PriorUterineScar, e.MultiplePregnancy,
		e.MembraneRupture, e.AmnioticFluid, e.Anesthesia,
		e.CesareanIndication, e.PlaceOfCare, e.Complications,
		e.RobsonGroup)
	return err
}

func (r *eventRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM birth_event WHERE id = $1`, id)
	return err
}

func (r *eventRepoPG) List(ctx context.Context, limit, offset int) ([]*Event, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM birth_event`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+eventCols+` FROM birth_event ORDER BY birth_datetime DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *eventRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Event, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM birth_event WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+eventCols+` FROM birth_event WHERE patient_id = $1 ORDER BY birth_datetime DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *eventRepoPG) CountByRobsonGroup(ctx context.Context, from, to time.Time) (map[int]int, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT robson_group, COUNT(*) FROM birth_event
		WHERE birth_datetime >= $1 AND birth_datetime < $2
		GROUP BY robson_group`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[int]int)
	for rows.Next() {
		var group, count int
		if err := rows.Scan(&group, &count); err != nil {
			return nil, err
		}
		counts[group] = count
	}
	return counts, rows.Err()
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

const complicationCols = `id, birth_event_id, complication_type, icd10_code, severity,
	treatment, required_icu, transfusion, surgery, recorded_by, created_at`

func scanComplication(row pgx.Row) (*MaternalComplication, error) {
	var mc MaternalComplication
	err := row.Scan(&mc.ID, &mc.BirthEventID, &mc.ComplicationType, &mc.ICD10Code, &mc.Severity,
		&mc.Treatment, &mc.RequiredICU, &mc.Transfusion, &mc.Surgery, &mc.RecordedBy, &mc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &mc, err
}

func (r *complicationRepoPG) Create(ctx context.Context, mc *MaternalComplication) error {
	mc.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO maternal_complication (id, birth_event_id, complication_type, icd10_code,
			severity, treatment, required_icu, transfusion, surgery, recorded_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		mc.ID, mc.BirthEventID, mc.ComplicationType, mc.ICD10Code,
		mc.Severity, mc.Treatment, mc.RequiredICU, mc.Transfusion, mc.Surgery, mc.RecordedBy)
	return err
}

func (r *complicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*MaternalComplication, error) {
	return scanComplication(r.conn(ctx).QueryRow(ctx, `SELECT `+complicationCols+` FROM maternal_complication WHERE id = $1`, id))
}

func (r *complicationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM maternal_complication WHERE id = $1`, id)
	return err
}

func (r *complicationRepoPG) ListByBirthEvent(ctx context.Context, birthEventID uuid.UUID) ([]*MaternalComplication, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+complicationCols+` FROM maternal_complication WHERE birth_event_id = $1 ORDER BY created_at DESC`, birthEventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MaternalComplication
	for rows.Next() {
		mc, err := scanComplication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, mc)
	}
	return items, nil
}
