package admission

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAdmitted   Status = "ADMITTED"
	StatusDischarged Status = "DISCHARGED"
)

// Admission maps to the admission table. CurrentBedID is set for the whole
// ADMITTED span and cleared on discharge.
type Admission struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID      uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	CurrentBedID  *uuid.UUID `db:"current_bed_id" json:"current_bed_id,omitempty"`
	Status        Status     `db:"status" json:"status"`
	AdmissionDate time.Time  `db:"admission_date" json:"admission_date"`
	DischargeDate *time.Time `db:"discharge_date" json:"discharge_date,omitempty"`
	Diagnosis     *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	Reason        string     `db:"reason" json:"reason"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

func (a *Admission) Active() bool {
	return a.Status == StatusAdmitted
}

// TreatmentNote is append-only; rows are never updated or deleted.
type TreatmentNote struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AdmissionID   uuid.UUID `db:"admission_id" json:"admission_id"`
	TreatmentDate time.Time `db:"treatment_date" json:"treatment_date"`
	DoctorID      uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Notes         string    `db:"notes" json:"notes"`
	TreatmentPlan *string   `db:"treatment_plan" json:"treatment_plan,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// DischargeSummary is written exactly once per admission, at discharge.
type DischargeSummary struct {
	AdmissionID          uuid.UUID `db:"admission_id" json:"admission_id"`
	DischargeDate        time.Time `db:"discharge_date" json:"discharge_date"`
	FinalDiagnosis       string    `db:"final_diagnosis" json:"final_diagnosis"`
	TreatmentGiven       *string   `db:"treatment_given" json:"treatment_given,omitempty"`
	ConditionAtDischarge *string   `db:"condition_at_discharge" json:"condition_at_discharge,omitempty"`
	FollowUpAdvice       *string   `db:"follow_up_advice" json:"follow_up_advice,omitempty"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// BedTransfer is the audit record of one bed change during an admission.
type BedTransfer struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AdmissionID uuid.UUID `db:"admission_id" json:"admission_id"`
	FromBedID   uuid.UUID `db:"from_bed_id" json:"from_bed_id"`
	ToBedID     uuid.UUID `db:"to_bed_id" json:"to_bed_id"`
	Reason      string    `db:"reason" json:"reason"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
