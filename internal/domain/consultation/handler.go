package consultation

import (
	"net/http"
	"strconv"

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
	staff := api.Group("", auth.RequireRole("doctor", "nurse"))
	staff.GET("/consultations", h.List)
	staff.GET("/consultations/:id", h.Get)
	staff.GET("/appointments/:id/consultation", h.GetByAppointment)

	doctors := api.Group("", auth.RequireRole("doctor"))
	doctors.POST("/consultations", h.Create)
	doctors.PUT("/consultations/:id", h.Update)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.PUT("/consultations/:id/pay", h.MarkPaid)
	admin.DELETE("/consultations/:id", h.Delete)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}

type ConsultationRequest struct {
	AppointmentID int64   `json:"appointment_id" validate:"required,gt=0"`
	Symptoms      string  `json:"symptoms"`
	Diagnosis     string  `json:"diagnosis" validate:"required"`
	TreatmentPlan string  `json:"treatment_plan"`
	Notes         string  `json:"notes"`
	Fee           float64 `json:"fee" validate:"gte=0"`
}

func (h *Handler) Create(c echo.Context) error {
	var req ConsultationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	con := &Consultation{
		AppointmentID: req.AppointmentID,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		TreatmentPlan: req.TreatmentPlan,
		Notes:         req.Notes,
		Fee:           req.Fee,
	}
	ctx := c.Request().Context()
	if err := h.svc.Create(ctx, con, auth.UserIDFromContext(ctx)); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, con)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	con, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) GetByAppointment(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	con, err := h.svc.GetByAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req ConsultationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	con := &Consultation{
		ID:            id,
		Symptoms:      req.Symptoms,
		Diagnosis:     req.Diagnosis,
		TreatmentPlan: req.TreatmentPlan,
		Notes:         req.Notes,
		Fee:           req.Fee,
	}
	if err := h.svc.Update(c.Request().Context(), con); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) MarkPaid(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	con, err := h.svc.MarkPaid(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, con)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
