package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
)

// SlotWriter publishes generated availability slots. The booking domain
// implements it; the indirection keeps staff from importing booking.
type SlotWriter interface {
	PublishSlots(ctx context.Context, doctorID int64, date time.Time, labels []string) error
}

type Service struct {
	doctors        DoctorRepository
	nurses         NurseRepository
	schedules      ScheduleRepository
	nurseSchedules NurseScheduleRepository
	slots          SlotWriter
}

func NewService(doctors DoctorRepository, nurses NurseRepository, schedules ScheduleRepository,
	nurseSchedules NurseScheduleRepository, slots SlotWriter) *Service {
	return &Service{doctors: doctors, nurses: nurses, schedules: schedules,
		nurseSchedules: nurseSchedules, slots: slots}
}

// -- Doctors --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id int64) error {
	return s.doctors.Delete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, specialty, limit, offset)
}

// -- Nurses --

func (s *Service) CreateNurse(ctx context.Context, n *Nurse) error {
	if n.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	return s.nurses.Create(ctx, n)
}

func (s *Service) GetNurse(ctx context.Context, id int64) (*Nurse, error) {
	return s.nurses.GetByID(ctx, id)
}

func (s *Service) UpdateNurse(ctx context.Context, n *Nurse) error {
	if n.FullName == "" {
		return apperr.Invalid("full_name is required")
	}
	return s.nurses.Update(ctx, n)
}

func (s *Service) DeleteNurse(ctx context.Context, id int64) error {
	return s.nurses.Delete(ctx, id)
}

func (s *Service) ListNurses(ctx context.Context, limit, offset int) ([]*Nurse, int, error) {
	return s.nurses.List(ctx, limit, offset)
}

// -- Schedules --

func (s *Service) CreateSchedule(ctx context.Context, sched *Schedule) error {
	if _, err := s.doctors.GetByID(ctx, sched.DoctorID); err != nil {
		return err
	}
	if sched.SlotDurationMin <= 0 {
		sched.SlotDurationMin = DefaultSlotDuration
	}
	if _, err := SlotLabels(sched.StartTime, sched.EndTime, sched.SlotDurationMin); err != nil {
		return err
	}
	return s.schedules.Create(ctx, sched)
}

func (s *Service) GetSchedule(ctx context.Context, id int64) (*Schedule, error) {
	return s.schedules.GetByID(ctx, id)
}

func (s *Service) ListSchedules(ctx context.Context, doctorID int64, from, to time.Time) ([]*Schedule, error) {
	return s.schedules.ListByDoctor(ctx, doctorID, from, to)
}

func (s *Service) DeleteSchedule(ctx context.Context, id int64) error {
	return s.schedules.Delete(ctx, id)
}

// -- Nurse schedules --

func (s *Service) CreateNurseSchedule(ctx context.Context, sched *NurseSchedule) error {
	if _, err := s.nurses.GetByID(ctx, sched.NurseID); err != nil {
		return err
	}
	if _, _, err := parseWindow(sched.StartTime, sched.EndTime); err != nil {
		return err
	}
	return s.nurseSchedules.Create(ctx, sched)
}

func (s *Service) GetNurseSchedule(ctx context.Context, id int64) (*NurseSchedule, error) {
	return s.nurseSchedules.GetByID(ctx, id)
}

func (s *Service) ListNurseSchedules(ctx context.Context, nurseID int64, from, to time.Time) ([]*NurseSchedule, error) {
	return s.nurseSchedules.ListByNurse(ctx, nurseID, from, to)
}

func (s *Service) DeleteNurseSchedule(ctx context.Context, id int64) error {
	return s.nurseSchedules.Delete(ctx, id)
}

// GenerateSlots expands a schedule window into slot labels and publishes
// them as available booking slots. Returns the labels it published.
func (s *Service) GenerateSlots(ctx context.Context, scheduleID int64) ([]string, error) {
	sched, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	labels, err := SlotLabels(sched.StartTime, sched.EndTime, sched.SlotDurationMin)
	if err != nil {
		return nil, err
	}

	if err := s.slots.PublishSlots(ctx, sched.DoctorID, sched.Date, labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// parseWindow validates an "HH:MM" working window and returns its bounds.
func parseWindow(start, end string) (time.Time, time.Time, error) {
	startT, err := time.Parse("15:04", start)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalidf("invalid start_time: %q", start)
	}
	endT, err := time.Parse("15:04", end)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Invalidf("invalid end_time: %q", end)
	}
	if !endT.After(startT) {
		return time.Time{}, time.Time{}, apperr.Invalid("end_time must be after start_time")
	}
	return startT, endT, nil
}

// SlotLabels cuts the [start, end) window into duration-sized slots labeled
// "HH:MM-HH:MM". A trailing remainder shorter than the duration is dropped.
func SlotLabels(start, end string, durationMin int) ([]string, error) {
	startT, endT, err := parseWindow(start, end)
	if err != nil {
		return nil, err
	}

	step := time.Duration(durationMin) * time.Minute
	var labels []string
	for t := startT; !t.Add(step).After(endT); t = t.Add(step) {
		labels = append(labels, fmt.Sprintf("%s-%s",
			t.Format("15:04"), t.Add(step).Format("15:04")))
	}
	return labels, nil
}
