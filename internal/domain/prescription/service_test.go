package prescription

import (
	"context"
	"testing"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type mockRepo struct {
	prescriptions map[int64]*Prescription
	details       map[int64][]*Detail
	nextID        int64
	nextDetailID  int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		prescriptions: make(map[int64]*Prescription),
		details:       make(map[int64][]*Detail),
		nextID:        1,
		nextDetailID:  1,
	}
}

func (m *mockRepo) Create(ctx context.Context, p *Prescription) error {
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	copied := *p
	copied.Details = nil
	m.prescriptions[p.ID] = &copied
	return nil
}

func (m *mockRepo) CreateDetail(ctx context.Context, d *Detail) error {
	d.ID = m.nextDetailID
	m.nextDetailID++
	copied := *d
	m.details[d.PrescriptionID] = append(m.details[d.PrescriptionID], &copied)
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok || p.IsDeleted {
		return nil, apperr.NotFound("prescription")
	}
	copied := *p
	return &copied, nil
}

func (m *mockRepo) ListDetails(ctx context.Context, prescriptionID int64) ([]*Detail, error) {
	return m.details[prescriptionID], nil
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	p, ok := m.prescriptions[id]
	if !ok || p.IsDeleted {
		return apperr.NotFound("prescription")
	}
	p.Status = status
	return nil
}

func (m *mockRepo) SoftDelete(ctx context.Context, id int64) error {
	p, ok := m.prescriptions[id]
	if !ok || p.IsDeleted {
		return apperr.NotFound("prescription")
	}
	p.IsDeleted = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Prescription, int, error) {
	var items []*Prescription
	for _, p := range m.prescriptions {
		if !p.IsDeleted {
			items = append(items, p)
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*Prescription, int, error) {
	var items []*Prescription
	for _, p := range m.prescriptions {
		if !p.IsDeleted && p.PatientID == patientID {
			items = append(items, p)
		}
	}
	return items, len(items), nil
}

type mockMedicationRepo struct {
	medications map[int64]*Medication
	nextID      int64
}

func newMockMedicationRepo() *mockMedicationRepo {
	return &mockMedicationRepo{medications: make(map[int64]*Medication), nextID: 1}
}

func (m *mockMedicationRepo) Create(ctx context.Context, med *Medication) error {
	med.ID = m.nextID
	m.nextID++
	copied := *med
	m.medications[med.ID] = &copied
	return nil
}

func (m *mockMedicationRepo) GetByID(ctx context.Context, id int64) (*Medication, error) {
	med, ok := m.medications[id]
	if !ok {
		return nil, apperr.NotFound("medication")
	}
	copied := *med
	return &copied, nil
}

func (m *mockMedicationRepo) Update(ctx context.Context, med *Medication) error {
	if _, ok := m.medications[med.ID]; !ok {
		return apperr.NotFound("medication")
	}
	copied := *med
	m.medications[med.ID] = &copied
	return nil
}

func (m *mockMedicationRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.medications[id]; !ok {
		return apperr.NotFound("medication")
	}
	delete(m.medications, id)
	return nil
}

func (m *mockMedicationRepo) List(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	var items []*Medication
	for _, med := range m.medications {
		items = append(items, med)
	}
	return items, len(items), nil
}

type mockConsultations struct {
	existing map[int64]bool
}

func (m *mockConsultations) Exists(ctx context.Context, id int64) error {
	if !m.existing[id] {
		return apperr.NotFound("consultation")
	}
	return nil
}

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T, consultationIDs ...int64) *Service {
	t.Helper()
	cons := &mockConsultations{existing: make(map[int64]bool)}
	for _, id := range consultationIDs {
		cons.existing[id] = true
	}
	meds := newMockMedicationRepo()
	svc := NewService(newMockRepo(), meds, cons, passthroughTx{})
	if err := svc.CreateMedication(context.Background(), &Medication{DrugName: "Amoxicillin", Category: "Antibiotic", CommonDosage: "500mg"}); err != nil {
		t.Fatalf("seed medication: %v", err)
	}
	return svc
}

func testPrescription(consultationID int64) *Prescription {
	return &Prescription{
		ConsultationID: consultationID,
		PatientID:      10,
		DoctorID:       20,
		Details: []*Detail{
			{MedicationID: 1, Dose: "500mg", Frequency: "twice daily"},
		},
	}
}

func TestCreate_DefaultsToActive(t *testing.T) {
	svc := newTestService(t, 1)
	p := testPrescription(1)
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusActive {
		t.Errorf("status = %q, want %q", p.Status, StatusActive)
	}
	if p.Details[0].PrescriptionID != p.ID {
		t.Error("details must be attached to the new prescription")
	}
}

func TestCreate_RequiresDetails(t *testing.T) {
	svc := newTestService(t, 1)
	p := testPrescription(1)
	p.Details = nil
	if err := svc.Create(context.Background(), p); !apperr.IsInvalid(err) {
		t.Errorf("expected invalid, got %v", err)
	}
}

func TestCreate_MissingConsultation(t *testing.T) {
	svc := newTestService(t)
	err := svc.Create(context.Background(), testPrescription(99))
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreate_UnknownMedication(t *testing.T) {
	svc := newTestService(t, 1)
	p := testPrescription(1)
	p.Details[0].MedicationID = 42
	err := svc.Create(context.Background(), p)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGet_LoadsDetails(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()
	p := testPrescription(1)
	p.Details = append(p.Details, &Detail{MedicationID: 1, Dose: "250mg", Frequency: "at night"})
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Details) != 2 {
		t.Errorf("details = %d, want 2", len(got.Details))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()
	p := testPrescription(1)
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, p.ID, "Completed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", got.Status, StatusCompleted)
	}

	if _, err := svc.UpdateStatus(ctx, p.ID, "completed"); !apperr.IsInvalid(err) {
		t.Errorf("lowercase status must be rejected, got %v", err)
	}
}

func TestDelete_SecondDeleteReportsNotFound(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()
	p := testPrescription(1)
	if err := svc.Create(ctx, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); !apperr.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	if _, err := svc.Get(ctx, p.ID); !apperr.IsNotFound(err) {
		t.Errorf("deleted prescription must be invisible, got %v", err)
	}
}
