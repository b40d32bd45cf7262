package prenatal

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

// =========== Control Repository ===========

type controlRepoPG struct{ pool *pgxpool.Pool }

func NewControlRepoPG(pool *pgxpool.Pool) ControlRepository {
	return &controlRepoPG{pool: pool}
}

func (r *controlRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const controlCols = `id, patient_id, lmp_date, first_control_date, controls_performed,
	blood_group, rh_factor, hemoglobin_g_dl, glycemia_mg_dl,
	prior_gestations, prior_births, prior_cesareans, prior_abortions,
	twin_pregnancy, hypertension, gestational_diabetes, preeclampsia,
	created_at, updated_at`

func scanControl(row pgx.Row) (*Control, error) {
	var c Control
	err := row.Scan(&c.ID, &c.PatientID, &c.LMPDate, &c.FirstControlDate, &c.ControlsPerformed,
		&c.BloodGroup, &c.RhFactor, &c.HemoglobinGDL, &c.GlycemiaMGDL,
		&c.PriorGestations, &c.PriorBirths, &c.PriorCesareans, &c.PriorAbortions,
		&c.TwinPregnancy, &c.Hypertension, &c.GestationalDiabetes, &c.Preeclampsia,
		&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &c, err
}

func (r *controlRepoPG) Create(ctx context.Context, c *Control) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prenatal_control (id, patient_id, lmp_date, first_control_date, controls_performed,
			blood_group, rh_factor, hemoglobin_g_dl, glycemia_mg_dl,
			prior_gestations, prior_births, prior_cesareans, prior_abortions,
			twin_pregnancy, hypertension, gestational_diabetes, preeclampsia)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		c.ID, c.PatientID, c.LMPDate, c.FirstControlDate, c.ControlsPerformed,
		c.BloodGroup, c.RhFactor, c.HemoglobinGDL, c.GlycemiaMGDL,
		c.PriorGestations, c.PriorBirths, c.PriorCesareans, c.PriorAbortions,
		c.TwinPregnancy, c.Hypertension, c.GestationalDiabetes, c.Preeclampsia)
	return err
}

func (r *controlRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Control, error) {
	return scanControl(r.conn(ctx).QueryRow(ctx, `SELECT `+controlCols+` FROM prenatal_control WHERE id = $1`, id))
}

func (r *controlRepoPG) Update(ctx context.Context, c *Control) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prenatal_control SET first_control_date=$2, controls_performed=$3,
			blood_group=$4, rh_factor=$5, hemoglobin_g_dl=$6, glycemia_mg_dl=$7,
			prior_gestations=$8, prior_births=$9, prior_cesareans=$10, prior_abortions=$11,
			twin_pregnancy=$12, hypertension=$13, gestational_diabetes=$14, preeclampsia=$15,
			updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.FirstControlDate, c.ControlsPerformed,
		c.BloodGroup, c.RhFactor, c.HemoglobinGDL, c.GlycemiaMGDL,
		c.PriorGestations, c.PriorBirths, c.PriorCesareans, c.PriorAbortions,
		c.TwinPregnancy, c.Hypertension, c.GestationalDiabetes, c.Preeclampsia)
	return err
}

func (r *controlRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prenatal_control WHERE id = $1`, id)
	return err
}

func (r *controlRepoPG) List(ctx context.Context, limit, offset int) ([]*Control, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prenatal_control`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+controlCols+` FROM prenatal_control ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Control
	for rows.Next() {
		c, err := scanControl(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *controlRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Control, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prenatal_control WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+controlCols+` FROM prenatal_control WHERE patient_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Control
	for rows.Next() {
		c, err := scanControl(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

// =========== Exam Repository ===========

type examRepoPG struct{ pool *pgxpool.Pool }

func NewExamRepoPG(pool *pgxpool.Pool) ExamRepository {
	return &examRepoPG{pool: pool}
}

func (r *examRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const examCols = `id, control_id, exam_type, result, exam_date, notes, created_at`

func scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.ControlID, &e.ExamType, &e.Result, &e.ExamDate, &e.Notes, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &e, err
}

func (r *examRepoPG) Create(ctx context.Context, e *Exam) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prenatal_exam (id, control_id, exam_type, result, exam_date, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.ControlID, e.ExamType, e.Result, e.ExamDate, e.Notes)
	return err
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return scanExam(r.conn(ctx).QueryRow(ctx, `SELECT `+examCols+` FROM prenatal_exam WHERE id = $1`, id))
}

func (r *examRepoPG) Update(ctx context.Context, e *Exam) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prenatal_exam SET result=$2, exam_date=$3, notes=$4
		WHERE id = $1`,
		e.ID, e.Result, e.ExamDate, e.Notes)
	return err
}

func (r *examRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prenatal_exam WHERE id = $1`, id)
	return err
}

func (r *examRepoPG) ListByControl(ctx context.Context, controlID uuid.UUID) ([]*Exam, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+examCols+` FROM prenatal_exam WHERE control_id = $1 ORDER BY exam_date DESC NULLS LAST`, controlID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, nil
}
