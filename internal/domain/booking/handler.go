package booking

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
	api.GET("/appointments", h.List)
	api.GET("/appointments/:id", h.Get)
	api.GET("/doctors/:id/available-slots", h.AvailableSlots)
	api.POST("/appointments", h.Book)
	api.PUT("/appointments/:id/reschedule", h.Reschedule)

	staff := api.Group("", auth.RequireRole("doctor", "nurse"))
	staff.PUT("/appointments/:id/status", h.UpdateStatus)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.DELETE("/appointments/:id", h.Delete)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, apperr.Invalidf("invalid date: %q", s)
	}
	return d, nil
}

type BookAppointmentRequest struct {
	PatientID      int64  `json:"patient_id" validate:"required,gt=0"`
	DoctorID       int64  `json:"doctor_id" validate:"required,gt=0"`
	Date           string `json:"date" validate:"required"`
	TimeSlot       string `json:"time_slot" validate:"required"`
	ReasonForVisit string `json:"reason_for_visit"`
	Notes          string `json:"notes"`
}

func (h *Handler) Book(c echo.Context) error {
	var req BookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	a, err := h.svc.Book(c.Request().Context(), BookRequest{
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Date:           date,
		TimeSlot:       req.TimeSlot,
		ReasonForVisit: req.ReasonForVisit,
		Notes:          req.Notes,
		CreatedBy:      auth.UserIDFromContext(c.Request().Context()),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("patient_id"); v != "" {
		pid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.Invalid("invalid patient_id")
		}
		items, total, err := h.svc.ListByPatient(ctx, pid, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	if v := c.QueryParam("doctor_id"); v != "" {
		did, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.Invalid("invalid doctor_id")
		}
		var date *time.Time
		if dv := c.QueryParam("date"); dv != "" {
			d, err := parseDate(dv)
			if err != nil {
				return err
			}
			date = &d
		}
		items, total, err := h.svc.ListByDoctor(ctx, did, date, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) AvailableSlots(c echo.Context) error {
	doctorID, err := paramID(c)
	if err != nil {
		return err
	}
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return err
	}

	slots, err := h.svc.AvailableSlots(c.Request().Context(), doctorID, date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, slots)
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	a, err := h.svc.UpdateStatus(ctx, id, req.Status, req.Reason, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

type RescheduleRequest struct {
	Date     string `json:"date" validate:"required"`
	TimeSlot string `json:"time_slot" validate:"required"`
}

func (h *Handler) Reschedule(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	a, err := h.svc.Reschedule(ctx, id, date, req.TimeSlot, auth.UserIDFromContext(ctx))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.svc.Delete(ctx, id, auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
