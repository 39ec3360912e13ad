package admission

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medicore/hms/internal/platform/apperr"
	"github.com/medicore/hms/internal/platform/db"
	"github.com/medicore/hms/internal/platform/events"
)

type Service struct {
	repo    Repository
	beds    BedAllocator
	tx      TxRunner
	sink    EventSink
	counter EventCounter
	log     zerolog.Logger
}

func NewService(repo Repository, beds BedAllocator, tx TxRunner) *Service {
	return &Service{repo: repo, beds: beds, tx: tx, log: zerolog.Nop()}
}

// SetEventSink attaches the optional billing event sink.
func (s *Service) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetLogger replaces the default no-op logger.
func (s *Service) SetLogger(log zerolog.Logger) {
	s.log = log
}

// SetEventCounter attaches the optional lifecycle metrics counter.
func (s *Service) SetEventCounter(counter EventCounter) {
	s.counter = counter
}

type AdmitRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	BedID     uuid.UUID `json:"bed_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Reason    string    `json:"reason"`
	Diagnosis *string   `json:"diagnosis,omitempty"`
	Notes     *string   `json:"notes,omitempty"`
}

// AdmitPatient claims the bed and creates the admission in one transaction,
// so a failed claim never leaves an orphaned admission and a crash between
// the two writes rolls both back.
func (s *Service) AdmitPatient(ctx context.Context, req AdmitRequest) (*Admission, error) {
	if req.PatientID == uuid.Nil {
		return nil, apperr.Validation("patient_id is required")
	}
	if req.BedID == uuid.Nil {
		return nil, apperr.Validation("bed_id is required")
	}
	if req.DoctorID == uuid.Nil {
		return nil, apperr.Validation("doctor_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}

	if existing, err := s.repo.GetActiveByPatient(ctx, req.PatientID); err == nil && existing != nil {
		return nil, apperr.Conflict("patient already admitted")
	} else if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	a := &Admission{
		ID:            uuid.New(),
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		CurrentBedID:  &req.BedID,
		Status:        StatusAdmitted,
		AdmissionDate: time.Now().UTC(),
		Diagnosis:     req.Diagnosis,
		Reason:        strings.TrimSpace(req.Reason),
		Notes:         req.Notes,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.beds.ClaimBed(ctx, req.BedID, a.ID); err != nil {
			return err
		}
		return s.repo.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeAdmitted, a, nil)
	return a, nil
}

type TransferRequest struct {
	NewBedID uuid.UUID `json:"new_bed_id"`
	Reason   string    `json:"reason"`
	Notes    *string   `json:"notes,omitempty"`
}

// TransferPatient claims the new bed before releasing the old one. The order
// is deliberate: a failed claim leaves the patient in the old bed untouched,
// at the cost of holding two beds for the span of the transaction.
func (s *Service) TransferPatient(ctx context.Context, admissionID uuid.UUID, req TransferRequest) (*Admission, error) {
	if req.NewBedID == uuid.Nil {
		return nil, apperr.Validation("new_bed_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, apperr.Validation("reason is required")
	}

	a, err := s.repo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if !a.Active() {
		return nil, apperr.Conflict("admission not active")
	}
	oldBedID := *a.CurrentBedID
	if oldBedID == req.NewBedID {
		return nil, apperr.Conflict("patient already occupies that bed")
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.beds.ClaimBed(ctx, req.NewBedID, a.ID); err != nil {
			return err
		}
		if err := s.beds.ReleaseBed(ctx, oldBedID, a.ID); err != nil {
			return err
		}
		a.CurrentBedID = &req.NewBedID
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		return s.repo.AddTransfer(ctx, &BedTransfer{
			AdmissionID: a.ID,
			FromBedID:   oldBedID,
			ToBedID:     req.NewBedID,
			Reason:      strings.TrimSpace(req.Reason),
			Notes:       req.Notes,
		})
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeTransferred, a, nil)
	return a, nil
}

type TreatmentRequest struct {
	DoctorID      uuid.UUID `json:"doctor_id"`
	Notes         string    `json:"notes"`
	TreatmentPlan *string   `json:"treatment_plan,omitempty"`
}

func (s *Service) AddTreatmentNote(ctx context.Context, admissionID uuid.UUID, req TreatmentRequest) (*TreatmentNote, error) {
	if req.DoctorID == uuid.Nil {
		return nil, apperr.Validation("doctor_id is required")
	}
	if strings.TrimSpace(req.Notes) == "" {
		return nil, apperr.Validation("notes is required")
	}

	a, err := s.repo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if !a.Active() {
		return nil, apperr.Conflict("admission not active")
	}

	n := &TreatmentNote{
		AdmissionID:   a.ID,
		TreatmentDate: time.Now().UTC(),
		DoctorID:      req.DoctorID,
		Notes:         req.Notes,
		TreatmentPlan: req.TreatmentPlan,
	}
	if err := s.repo.AddTreatmentNote(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

type DischargeRequest struct {
	FinalDiagnosis       string  `json:"final_diagnosis"`
	TreatmentGiven       *string `json:"treatment_given,omitempty"`
	ConditionAtDischarge *string `json:"condition_at_discharge,omitempty"`
	FollowUpAdvice       *string `json:"follow_up_advice,omitempty"`
}

// DischargePatient releases the bed, marks the admission terminal and writes
// the summary in one transaction. The billing event goes out afterwards;
// delivery failure never rolls back the discharge.
func (s *Service) DischargePatient(ctx context.Context, admissionID uuid.UUID, req DischargeRequest) (*Admission, error) {
	if strings.TrimSpace(req.FinalDiagnosis) == "" {
		return nil, apperr.Validation("final_diagnosis is required")
	}

	a, err := s.repo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if !a.Active() {
		return nil, apperr.Conflict("admission not active")
	}
	bedID := *a.CurrentBedID
	now := time.Now().UTC()

	summary := &DischargeSummary{
		AdmissionID:          a.ID,
		DischargeDate:        now,
		FinalDiagnosis:       strings.TrimSpace(req.FinalDiagnosis),
		TreatmentGiven:       req.TreatmentGiven,
		ConditionAtDischarge: req.ConditionAtDischarge,
		FollowUpAdvice:       req.FollowUpAdvice,
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.beds.ReleaseBed(ctx, bedID, a.ID); err != nil {
			return err
		}
		a.Status = StatusDischarged
		a.DischargeDate = &now
		a.CurrentBedID = nil
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		return s.repo.CreateDischargeSummary(ctx, summary)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TypeDischarged, a, summary)
	return a, nil
}

func (s *Service) GetAdmission(ctx context.Context, id uuid.UUID) (*Admission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAdmissions(ctx context.Context, limit, offset int) ([]*Admission, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListAdmissionsByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Admission, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListAdmissionsByStatus(ctx context.Context, status Status, limit, offset int) ([]*Admission, int, error) {
	if status != StatusAdmitted && status != StatusDischarged {
		return nil, 0, apperr.Validation("invalid status: " + string(status))
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) ListTreatmentNotes(ctx context.Context, admissionID uuid.UUID) ([]*TreatmentNote, error) {
	if _, err := s.repo.GetByID(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.repo.ListTreatmentNotes(ctx, admissionID)
}

func (s *Service) GetDischargeSummary(ctx context.Context, admissionID uuid.UUID) (*DischargeSummary, error) {
	return s.repo.GetDischargeSummary(ctx, admissionID)
}

func (s *Service) ListTransfers(ctx context.Context, admissionID uuid.UUID) ([]*BedTransfer, error) {
	if _, err := s.repo.GetByID(ctx, admissionID); err != nil {
		return nil, err
	}
	return s.repo.ListTransfers(ctx, admissionID)
}

func (s *Service) emit(ctx context.Context, eventType string, a *Admission, payload interface{}) {
	if s.counter != nil {
		switch eventType {
		case events.TypeAdmitted:
			s.counter.CountAdmissionEvent("admitted")
		case events.TypeTransferred:
			s.counter.CountAdmissionEvent("transferred")
		case events.TypeDischarged:
			s.counter.CountAdmissionEvent("discharged")
		}
	}
	if s.sink == nil {
		return
	}
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			// The event still goes out with its identifiers; only the
			// detail payload is lost.
			s.log.Error().Err(err).
				Str("event_type", eventType).
				Str("admission_id", a.ID.String()).
				Msg("marshal event payload")
			raw = nil
		}
	}
	s.sink.Publish(events.Event{
		Type:        eventType,
		TenantID:    db.TenantFromContext(ctx),
		AdmissionID: a.ID.String(),
		PatientID:   a.PatientID.String(),
		Payload:     raw,
	})
}
