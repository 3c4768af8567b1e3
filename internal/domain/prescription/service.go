package prescription

import (
	"context"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// ConsultationGateway checks that the consultation a prescription is written
// for actually exists. Implemented by the consultation service.
type ConsultationGateway interface {
	Exists(ctx context.Context, consultationID int64) error
}

type txRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service holds prescription and medication-catalog business rules.
type Service struct {
	prescriptions Repository
	medications   MedicationRepository
	consultations ConsultationGateway
	tx            txRunner
}

func NewService(prescriptions Repository, medications MedicationRepository, consultations ConsultationGateway, tx txRunner) *Service {
	return &Service{
		prescriptions: prescriptions,
		medications:   medications,
		consultations: consultations,
		tx:            tx,
	}
}

// Create writes a prescription and all of its details atomically. A
// prescription with no medication lines is rejected, as is any line naming a
// medication missing from the catalog.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.ConsultationID <= 0 {
		return apperr.Invalid("consultation_id is required")
	}
	if p.PatientID <= 0 || p.DoctorID <= 0 {
		return apperr.Invalid("patient_id and doctor_id are required")
	}
	if len(p.Details) == 0 {
		return apperr.Invalid("a prescription needs at least one medication")
	}
	for _, d := range p.Details {
		if d.MedicationID <= 0 {
			return apperr.Invalid("medication_id is required on every line")
		}
		if d.Dose == "" || d.Frequency == "" {
			return apperr.Invalid("dose and frequency are required on every line")
		}
	}
	p.Status = StatusActive

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.consultations.Exists(ctx, p.ConsultationID); err != nil {
			return err
		}
		for _, d := range p.Details {
			if _, err := s.medications.GetByID(ctx, d.MedicationID); err != nil {
				return err
			}
		}
		if err := s.prescriptions.Create(ctx, p); err != nil {
			return err
		}
		for _, d := range p.Details {
			d.PrescriptionID = p.ID
			if err := s.prescriptions.CreateDetail(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns a prescription with its details loaded.
func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	p, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Details, err = s.prescriptions.ListDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatus moves a prescription between Active, Completed and Cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (*Prescription, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	if err := s.prescriptions.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.prescriptions.SoftDelete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}

// ---- medication catalog ----

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	if m.DrugName == "" {
		return apperr.Invalid("drug_name is required")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) GetMedication(ctx context.Context, id int64) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if m.DrugName == "" {
		return apperr.Invalid("drug_name is required")
	}
	return s.medications.Update(ctx, m)
}

func (s *Service) DeleteMedication(ctx context.Context, id int64) error {
	return s.medications.Delete(ctx, id)
}

func (s *Service) ListMedications(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, limit, offset)
}
