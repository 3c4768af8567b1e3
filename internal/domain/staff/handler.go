package staff

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/auth"
	"github.com/clinichq/clinic-server/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Staff directory is readable by any authenticated user
	api.GET("/doctors", h.ListDoctors)
	api.GET("/doctors/:id", h.GetDoctor)
	api.GET("/nurses", h.ListNurses)
	api.GET("/nurses/:id", h.GetNurse)
	api.GET("/doctors/:id/schedules", h.ListSchedules)
	api.GET("/nurses/:id/schedules", h.ListNurseSchedules)

	// Mutations are admin-only
	admin := api.Group("", auth.RequireRole("admin"))
	admin.POST("/doctors", h.CreateDoctor)
	admin.PUT("/doctors/:id", h.UpdateDoctor)
	admin.DELETE("/doctors/:id", h.DeleteDoctor)
	admin.POST("/nurses", h.CreateNurse)
	admin.PUT("/nurses/:id", h.UpdateNurse)
	admin.DELETE("/nurses/:id", h.DeleteNurse)
	admin.POST("/doctors/:id/schedules", h.CreateSchedule)
	admin.DELETE("/schedules/:id", h.DeleteSchedule)
	admin.POST("/schedules/:id/slots", h.GenerateSlots)
	admin.POST("/nurses/:id/schedules", h.CreateNurseSchedule)
	admin.DELETE("/nurse-schedules/:id", h.DeleteNurseSchedule)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}

// -- Doctors --

type DoctorRequest struct {
	FullName  string `json:"full_name" validate:"required"`
	Specialty string `json:"specialty"`
	UserID    *int64 `json:"user_id"`
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	var req DoctorRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d := &Doctor{FullName: req.FullName, Specialty: req.Specialty, UserID: req.UserID}
	if err := h.svc.CreateDoctor(c.Request().Context(), d); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDoctor(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) UpdateDoctor(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req DoctorRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	d := &Doctor{ID: id, FullName: req.FullName, Specialty: req.Specialty, UserID: req.UserID}
	if err := h.svc.UpdateDoctor(c.Request().Context(), d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDoctor(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("specialty"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Nurses --

type NurseRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department"`
	UserID     *int64 `json:"user_id"`
}

func (h *Handler) CreateNurse(c echo.Context) error {
	var req NurseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	n := &Nurse{FullName: req.FullName, Department: req.Department, UserID: req.UserID}
	if err := h.svc.CreateNurse(c.Request().Context(), n); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, n)
}

func (h *Handler) GetNurse(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	n, err := h.svc.GetNurse(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) UpdateNurse(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req NurseRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	n := &Nurse{ID: id, FullName: req.FullName, Department: req.Department, UserID: req.UserID}
	if err := h.svc.UpdateNurse(c.Request().Context(), n); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

func (h *Handler) DeleteNurse(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteNurse(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListNurses(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListNurses(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// -- Schedules --

type ScheduleRequest struct {
	Date            string `json:"date" validate:"required"`
	StartTime       string `json:"start_time" validate:"required"`
	EndTime         string `json:"end_time" validate:"required"`
	SlotDurationMin int    `json:"slot_duration_min"`
}

func (h *Handler) CreateSchedule(c echo.Context) error {
	doctorID, err := paramID(c)
	if err != nil {
		return err
	}
	var req ScheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return apperr.Invalidf("invalid date: %q", req.Date)
	}

	sched := &Schedule{
		DoctorID:        doctorID,
		Date:            date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		SlotDurationMin: req.SlotDurationMin,
	}
	if err := h.svc.CreateSchedule(c.Request().Context(), sched); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) ListSchedules(c echo.Context) error {
	doctorID, err := paramID(c)
	if err != nil {
		return err
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 1, 0)
	if v := c.QueryParam("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			return apperr.Invalidf("invalid from date: %q", v)
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			return apperr.Invalidf("invalid to date: %q", v)
		}
	}

	items, err := h.svc.ListSchedules(c.Request().Context(), doctorID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteSchedule(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteSchedule(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type NurseScheduleRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

func (h *Handler) CreateNurseSchedule(c echo.Context) error {
	nurseID, err := paramID(c)
	if err != nil {
		return err
	}
	var req NurseScheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return apperr.Invalidf("invalid date: %q", req.Date)
	}

	sched := &NurseSchedule{
		NurseID:   nurseID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := h.svc.CreateNurseSchedule(c.Request().Context(), sched); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sched)
}

func (h *Handler) ListNurseSchedules(c echo.Context) error {
	nurseID, err := paramID(c)
	if err != nil {
		return err
	}

	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 1, 0)
	if v := c.QueryParam("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			return apperr.Invalidf("invalid from date: %q", v)
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			return apperr.Invalidf("invalid to date: %q", v)
		}
	}

	items, err := h.svc.ListNurseSchedules(c.Request().Context(), nurseID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) DeleteNurseSchedule(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteNurseSchedule(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GenerateSlots(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	labels, err := h.svc.GenerateSlots(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"slots": labels})
}
