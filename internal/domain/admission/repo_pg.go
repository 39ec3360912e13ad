package admission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicore/hms/internal/platform/apperr"
	"github.com/medicore/hms/internal/platform/db"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const admCols = `id, patient_id, doctor_id, current_bed_id, status, admission_date,
	discharge_date, diagnosis, reason, notes, created_at, updated_at`

// Create relies on the partial unique index on (patient_id) WHERE
// status='ADMITTED' to back the one-active-admission rule under concurrency.
func (r *repoPG) Create(ctx context.Context, a *Admission) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO admission (id, patient_id, doctor_id, current_bed_id, status,
			admission_date, diagnosis, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		a.ID, a.PatientID, a.DoctorID, a.CurrentBedID, a.Status,
		a.AdmissionDate, a.Diagnosis, a.Reason, a.Notes,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("patient already admitted")
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Admission, error) {
	a, err := scanAdm(r.conn(ctx).QueryRow(ctx, `SELECT `+admCols+` FROM admission WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("admission %s not found", id)
	}
	return a, err
}

func (r *repoPG) GetActiveByPatient(ctx context.Context, patientID uuid.UUID) (*Admission, error) {
	a, err := scanAdm(r.conn(ctx).QueryRow(ctx,
		`SELECT `+admCols+` FROM admission WHERE patient_id = $1 AND status = $2`,
		patientID, StatusAdmitted))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no active admission for patient %s", patientID)
	}
	return a, err
}

func (r *repoPG) Update(ctx context.Context, a *Admission) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE admission SET current_bed_id=$2, status=$3, discharge_date=$4,
			diagnosis=$5, reason=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.CurrentBedID, a.Status, a.DischargeDate, a.Diagnosis, a.Reason, a.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("admission %s not found", a.ID)
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admCols+` FROM admission ORDER BY admission_date DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdms(rows, total)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admCols+` FROM admission WHERE patient_id = $1 ORDER BY admission_date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdms(rows, total)
}

func (r *repoPG) ListByStatus(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM admission WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+admCols+` FROM admission WHERE status = $1 ORDER BY admission_date DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectAdms(rows, total)
}

func (r *repoPG) AddTreatmentNote(ctx context.Context, n *TreatmentNote) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO treatment_note (id, admission_id, treatment_date, doctor_id, notes, treatment_plan)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.AdmissionID, n.TreatmentDate, n.DoctorID, n.Notes, n.TreatmentPlan,
	)
	return err
}

func (r *repoPG) ListTreatmentNotes(ctx context.Context, admissionID uuid.UUID) ([]*TreatmentNote, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, admission_id, treatment_date, doctor_id, notes, treatment_plan, created_at
		FROM treatment_note WHERE admission_id = $1 ORDER BY treatment_date`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []*TreatmentNote
	for rows.Next() {
		var n TreatmentNote
		if err := rows.Scan(&n.ID, &n.AdmissionID, &n.TreatmentDate, &n.DoctorID, &n.Notes, &n.TreatmentPlan, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, nil
}

func (r *repoPG) CreateDischargeSummary(ctx context.Context, s *DischargeSummary) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO discharge_summary (admission_id, discharge_date, final_diagnosis,
			treatment_given, condition_at_discharge, follow_up_advice)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		s.AdmissionID, s.DischargeDate, s.FinalDiagnosis,
		s.TreatmentGiven, s.ConditionAtDischarge, s.FollowUpAdvice,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.Conflict("discharge summary already exists")
	}
	return err
}

func (r *repoPG) GetDischargeSummary(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error) {
	var s DischargeSummary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT admission_id, discharge_date, final_diagnosis, treatment_given,
			condition_at_discharge, follow_up_advice, created_at
		FROM discharge_summary WHERE admission_id = $1`, admissionID,
	).Scan(&s.AdmissionID, &s.DischargeDate, &s.FinalDiagnosis, &s.TreatmentGiven,
		&s.ConditionAtDischarge, &s.FollowUpAdvice, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("no discharge summary for admission %s", admissionID)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) AddTransfer(ctx context.Context, t *BedTransfer) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bed_transfer (id, admission_id, from_bed_id, to_bed_id, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.AdmissionID, t.FromBedID, t.ToBedID, t.Reason, t.Notes,
	)
	return err
}

func (r *repoPG) ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*BedTransfer, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, admission_id, from_bed_id, to_bed_id, reason, notes, created_at
		FROM bed_transfer WHERE admission_id = $1 ORDER BY created_at`, admissionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []*BedTransfer
	for rows.Next() {
		var t BedTransfer
		if err := rows.Scan(&t.ID, &t.AdmissionID, &t.FromBedID, &t.ToBedID, &t.Reason, &t.Notes, &t.CreatedAt); err != nil {
			return nil, err
		}
		transfers = append(transfers, &t)
	}
	return transfers, nil
}

func scanAdm(row pgx.Row) (*Admission, error) {
	var a Admission
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.CurrentBedID, &a.Status,
		&a.AdmissionDate, &a.DischargeDate, &a.Diagnosis, &a.Reason, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAdms(rows pgx.Rows, total int) ([]*Admission, int, error) {
	var adms []*Admission
	for rows.Next() {
		var a Admission
		err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.CurrentBedID, &a.Status,
			&a.AdmissionDate, &a.DischargeDate, &a.Diagnosis, &a.Reason, &a.Notes,
			&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		adms = append(adms, &a)
	}
	return adms, total, nil
}
