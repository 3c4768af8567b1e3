package staff

import (
	"context"
	"time"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, specialty string, limit, offset int) ([]*Doctor, int, error)
}

type NurseRepository interface {
	Create(ctx context.Context, n *Nurse) error
	GetByID(ctx context.Context, id int64) (*Nurse, error)
	Update(ctx context.Context, n *Nurse) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Nurse, int, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id int64) (*Schedule, error)
	ListByDoctor(ctx context.Context, doctorID int64, from, to time.Time) ([]*Schedule, error)
	Delete(ctx context.Context, id int64) error
}

type NurseScheduleRepository interface {
	Create(ctx context.Context, s *NurseSchedule) error
	GetByID(ctx context.Context, id int64) (*NurseSchedule, error)
	ListByNurse(ctx context.Context, nurseID int64, from, to time.Time) ([]*NurseSchedule, error)
	Delete(ctx context.Context, id int64) error
}
