package prescription

import "context"

// Repository persists prescriptions and their details.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	CreateDetail(ctx context.Context, d *Detail) error
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	ListDetails(ctx context.Context, prescriptionID int64) ([]*Detail, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	SoftDelete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Prescription, int, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error)
}

// MedicationRepository persists the medication catalog.
type MedicationRepository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id int64) (*Medication, error)
	Update(ctx context.Context, m *Medication) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Medication, int, error)
}
