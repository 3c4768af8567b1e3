package consultation

import (
	"context"
	"testing"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type mockRepo struct {
	consultations map[int64]*Consultation
	nextID        int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{consultations: make(map[int64]*Consultation), nextID: 1}
}

func (m *mockRepo) Create(ctx context.Context, c *Consultation) error {
	for _, other := range m.consultations {
		if !other.IsDeleted && other.AppointmentID == c.AppointmentID {
			return apperr.Conflict("appointment already has a consultation")
		}
	}
	c.ID = m.nextID
	m.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	m.consultations[c.ID] = &copied
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id int64) (*Consultation, error) {
	c, ok := m.consultations[id]
	if !ok || c.IsDeleted {
		return nil, apperr.NotFound("consultation")
	}
	copied := *c
	return &copied, nil
}

func (m *mockRepo) GetByAppointment(ctx context.Context, appointmentID int64) (*Consultation, error) {
	for _, c := range m.consultations {
		if !c.IsDeleted && c.AppointmentID == appointmentID {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("consultation")
}

func (m *mockRepo) Update(ctx context.Context, c *Consultation) error {
	existing, ok := m.consultations[c.ID]
	if !ok || existing.IsDeleted {
		return apperr.NotFound("consultation")
	}
	copied := *c
	m.consultations[c.ID] = &copied
	return nil
}

func (m *mockRepo) SoftDelete(ctx context.Context, id int64) error {
	c, ok := m.consultations[id]
	if !ok || c.IsDeleted {
		return apperr.NotFound("consultation")
	}
	c.IsDeleted = true
	return nil
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]*Consultation, int, error) {
	var items []*Consultation
	for _, c := range m.consultations {
		if !c.IsDeleted {
			items = append(items, c)
		}
	}
	return items, len(items), nil
}

// mockAppointments tracks which appointments exist and which were completed.
type mockAppointments struct {
	existing  map[int64]bool
	completed map[int64]bool
}

func newMockAppointments(ids ...int64) *mockAppointments {
	m := &mockAppointments{existing: make(map[int64]bool), completed: make(map[int64]bool)}
	for _, id := range ids {
		m.existing[id] = true
	}
	return m
}

func (m *mockAppointments) Exists(ctx context.Context, id int64) error {
	if !m.existing[id] {
		return apperr.NotFound("appointment")
	}
	return nil
}

func (m *mockAppointments) Complete(ctx context.Context, id, actorID int64) error {
	if !m.existing[id] {
		return apperr.NotFound("appointment")
	}
	m.completed[id] = true
	return nil
}

type passthroughTx struct{}

func (passthroughTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(appointmentIDs ...int64) (*Service, *mockAppointments) {
	appts := newMockAppointments(appointmentIDs...)
	svc := NewService(newMockRepo(), appts, passthroughTx{})
	return svc, appts
}

func testConsultation(appointmentID int64) *Consultation {
	return &Consultation{
		AppointmentID: appointmentID,
		Symptoms:      "persistent cough",
		Diagnosis:     "bronchitis",
		TreatmentPlan: "rest and fluids",
		Fee:           150,
	}
}

func TestCreate_CompletesAppointment(t *testing.T) {
	svc, appts := newTestService(1)
	con := testConsultation(1)
	if err := svc.Create(context.Background(), con, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if con.ID == 0 {
		t.Error("expected assigned id")
	}
	if !appts.completed[1] {
		t.Error("creating a consultation must complete the appointment")
	}
}

func TestCreate_MissingAppointment(t *testing.T) {
	svc, _ := newTestService()
	err := svc.Create(context.Background(), testConsultation(99), 10)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreate_SecondConsultationConflicts(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()
	if err := svc.Create(ctx, testConsultation(1), 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := svc.Create(ctx, testConsultation(1), 10)
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestMarkPaid_Idempotent(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()
	con := testConsultation(1)
	if err := svc.Create(ctx, con, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paid, err := svc.MarkPaid(ctx, con.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.IsPaid {
		t.Fatal("expected is_paid after first call")
	}

	paid, err = svc.MarkPaid(ctx, con.ID)
	if err != nil {
		t.Fatalf("second call must succeed: %v", err)
	}
	if !paid.IsPaid {
		t.Error("expected is_paid after second call")
	}
}

func TestUpdate_PreservesPaymentAndAppointment(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()
	con := testConsultation(1)
	if err := svc.Create(ctx, con, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.MarkPaid(ctx, con.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	upd := &Consultation{ID: con.ID, Diagnosis: "pneumonia", Fee: 200}
	if err := svc.Update(ctx, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := svc.Get(ctx, con.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsPaid {
		t.Error("update must not clear payment state")
	}
	if got.AppointmentID != 1 {
		t.Errorf("appointment_id = %d, want 1", got.AppointmentID)
	}
	if got.Diagnosis != "pneumonia" {
		t.Errorf("diagnosis = %q", got.Diagnosis)
	}
}

func TestDelete_SecondDeleteReportsNotFound(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()
	con := testConsultation(1)
	if err := svc.Create(ctx, con, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Delete(ctx, con.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.Delete(ctx, con.ID); !apperr.IsNotFound(err) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
}

func TestDeletedConsultationAllowsNewOne(t *testing.T) {
	svc, _ := newTestService(1)
	ctx := context.Background()
	con := testConsultation(1)
	if err := svc.Create(ctx, con, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(ctx, con.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// only live consultations block the appointment
	if err := svc.Create(ctx, testConsultation(1), 10); err != nil {
		t.Errorf("expected new consultation after delete, got %v", err)
	}
}
