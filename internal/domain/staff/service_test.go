package staff

import (
	"context"
	"testing"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

type mockDoctorRepo struct {
	doctors map[int64]*Doctor
	nextID  int64
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[int64]*Doctor), nextID: 1}
}

func (m *mockDoctorRepo) Create(ctx context.Context, d *Doctor) error {
	d.ID = m.nextID
	m.nextID++
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, apperr.NotFound("doctor")
	}
	return d, nil
}

func (m *mockDoctorRepo) Update(ctx context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return apperr.NotFound("doctor")
	}
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.doctors[id]; !ok {
		return apperr.NotFound("doctor")
	}
	delete(m.doctors, id)
	return nil
}

func (m *mockDoctorRepo) List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	var items []*Doctor
	for _, d := range m.doctors {
		if specialty == "" || d.Specialty == specialty {
			items = append(items, d)
		}
	}
	return items, len(items), nil
}

type mockNurseRepo struct {
	nurses map[int64]*Nurse
	nextID int64
}

func newMockNurseRepo() *mockNurseRepo {
	return &mockNurseRepo{nurses: make(map[int64]*Nurse), nextID: 1}
}

func (m *mockNurseRepo) Create(ctx context.Context, n *Nurse) error {
	n.ID = m.nextID
	m.nextID++
	m.nurses[n.ID] = n
	return nil
}

func (m *mockNurseRepo) GetByID(ctx context.Context, id int64) (*Nurse, error) {
	n, ok := m.nurses[id]
	if !ok {
		return nil, apperr.NotFound("nurse")
	}
	return n, nil
}

func (m *mockNurseRepo) Update(ctx context.Context, n *Nurse) error {
	if _, ok := m.nurses[n.ID]; !ok {
		return apperr.NotFound("nurse")
	}
	m.nurses[n.ID] = n
	return nil
}

func (m *mockNurseRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.nurses[id]; !ok {
		return apperr.NotFound("nurse")
	}
	delete(m.nurses, id)
	return nil
}

func (m *mockNurseRepo) List(ctx context.Context, limit, offset int) ([]*Nurse, int, error) {
	var items []*Nurse
	for _, n := range m.nurses {
		items = append(items, n)
	}
	return items, len(items), nil
}

type mockScheduleRepo struct {
	schedules map[int64]*Schedule
	nextID    int64
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[int64]*Schedule), nextID: 1}
}

func (m *mockScheduleRepo) Create(ctx context.Context, s *Schedule) error {
	s.ID = m.nextID
	m.nextID++
	m.schedules[s.ID] = s
	return nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id int64) (*Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, apperr.NotFound("schedule")
	}
	return s, nil
}

func (m *mockScheduleRepo) ListByDoctor(ctx context.Context, doctorID int64, from, to time.Time) ([]*Schedule, error) {
	var items []*Schedule
	for _, s := range m.schedules {
		if s.DoctorID == doctorID {
			items = append(items, s)
		}
	}
	return items, nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.schedules[id]; !ok {
		return apperr.NotFound("schedule")
	}
	delete(m.schedules, id)
	return nil
}

type mockNurseScheduleRepo struct {
	schedules map[int64]*NurseSchedule
	nextID    int64
}

func newMockNurseScheduleRepo() *mockNurseScheduleRepo {
	return &mockNurseScheduleRepo{schedules: make(map[int64]*NurseSchedule), nextID: 1}
}

func (m *mockNurseScheduleRepo) Create(ctx context.Context, s *NurseSchedule) error {
	s.ID = m.nextID
	m.nextID++
	m.schedules[s.ID] = s
	return nil
}

func (m *mockNurseScheduleRepo) GetByID(ctx context.Context, id int64) (*NurseSchedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, apperr.NotFound("nurse schedule")
	}
	return s, nil
}

func (m *mockNurseScheduleRepo) ListByNurse(ctx context.Context, nurseID int64, from, to time.Time) ([]*NurseSchedule, error) {
	var items []*NurseSchedule
	for _, s := range m.schedules {
		if s.NurseID == nurseID {
			items = append(items, s)
		}
	}
	return items, nil
}

func (m *mockNurseScheduleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.schedules[id]; !ok {
		return apperr.NotFound("nurse schedule")
	}
	delete(m.schedules, id)
	return nil
}

type mockSlotWriter struct {
	published map[int64][]string
}

func newMockSlotWriter() *mockSlotWriter {
	return &mockSlotWriter{published: make(map[int64][]string)}
}

func (m *mockSlotWriter) PublishSlots(ctx context.Context, doctorID int64, date time.Time, labels []string) error {
	m.published[doctorID] = append(m.published[doctorID], labels...)
	return nil
}

func newTestService() (*Service, *mockSlotWriter) {
	slots := newMockSlotWriter()
	svc := NewService(newMockDoctorRepo(), newMockNurseRepo(), newMockScheduleRepo(), newMockNurseScheduleRepo(), slots)
	return svc, slots
}

func TestSlotLabels(t *testing.T) {
	labels, err := SlotLabels("09:00", "11:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"09:00-09:30", "09:30-10:00", "10:00-10:30", "10:30-11:00"}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d: %v", len(labels), len(want), labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestSlotLabels_DropsShortRemainder(t *testing.T) {
	labels, err := SlotLabels("09:00", "10:15", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 2 {
		t.Errorf("got %d labels, want 2: %v", len(labels), labels)
	}
}

func TestSlotLabels_InvalidWindow(t *testing.T) {
	if _, err := SlotLabels("11:00", "09:00", 30); err == nil {
		t.Error("expected error when end precedes start")
	}
	if _, err := SlotLabels("late", "09:00", 30); err == nil {
		t.Error("expected error for unparseable time")
	}
}

func TestCreateSchedule_DefaultsDuration(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	d := &Doctor{FullName: "Dr. Silva", Specialty: "cardiology"}
	if err := svc.CreateDoctor(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sched := &Schedule{DoctorID: d.ID, Date: time.Now(), StartTime: "09:00", EndTime: "12:00"}
	if err := svc.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.SlotDurationMin != DefaultSlotDuration {
		t.Errorf("SlotDurationMin = %d, want %d", sched.SlotDurationMin, DefaultSlotDuration)
	}
}

func TestCreateSchedule_UnknownDoctor(t *testing.T) {
	svc, _ := newTestService()
	sched := &Schedule{DoctorID: 99, Date: time.Now(), StartTime: "09:00", EndTime: "12:00"}
	err := svc.CreateSchedule(context.Background(), sched)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestGenerateSlots_Publishes(t *testing.T) {
	svc, slots := newTestService()
	ctx := context.Background()

	d := &Doctor{FullName: "Dr. Silva"}
	if err := svc.CreateDoctor(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sched := &Schedule{DoctorID: d.ID, Date: time.Now(), StartTime: "09:00", EndTime: "10:00", SlotDurationMin: 30}
	if err := svc.CreateSchedule(ctx, sched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	labels, err := svc.GenerateSlots(ctx, sched.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("got %d labels, want 2", len(labels))
	}
	if len(slots.published[d.ID]) != 2 {
		t.Errorf("expected 2 published slots, got %v", slots.published[d.ID])
	}
}

func TestCreateNurseSchedule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	n := &Nurse{FullName: "Nurse Joy", Department: "Pediatrics"}
	if err := svc.CreateNurse(ctx, n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sched := &NurseSchedule{NurseID: n.ID, Date: time.Now(), StartTime: "08:00", EndTime: "16:00"}
	if err := svc.CreateNurseSchedule(ctx, sched); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sched.ID == 0 {
		t.Error("expected assigned id")
	}

	items, err := svc.ListNurseSchedules(ctx, n.ID, time.Now(), time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected one schedule, got %d", len(items))
	}
}

func TestCreateNurseSchedule_UnknownNurse(t *testing.T) {
	svc, _ := newTestService()
	sched := &NurseSchedule{NurseID: 99, Date: time.Now(), StartTime: "08:00", EndTime: "16:00"}
	err := svc.CreateNurseSchedule(context.Background(), sched)
	if !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateNurseSchedule_InvalidWindow(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	n := &Nurse{FullName: "Nurse Joy"}
	if err := svc.CreateNurse(ctx, n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []NurseSchedule{
		{NurseID: n.ID, StartTime: "16:00", EndTime: "08:00"},
		{NurseID: n.ID, StartTime: "8am", EndTime: "16:00"},
	}
	for _, sched := range cases {
		s := sched
		if err := svc.CreateNurseSchedule(ctx, &s); !apperr.IsInvalid(err) {
			t.Errorf("window %s-%s: expected invalid, got %v", s.StartTime, s.EndTime, err)
		}
	}
}

func TestDeleteNurseSchedule_NotFound(t *testing.T) {
	svc, _ := newTestService()
	if err := svc.DeleteNurseSchedule(context.Background(), 404); !apperr.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}
