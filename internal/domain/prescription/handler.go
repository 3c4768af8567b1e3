package prescription

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
	api.GET("/medications", h.ListMedications)
	api.GET("/medications/:id", h.GetMedication)

	staff := api.Group("", auth.RequireRole("doctor", "nurse"))
	staff.GET("/prescriptions", h.List)
	staff.GET("/prescriptions/:id", h.Get)

	doctor := api.Group("", auth.RequireRole("doctor"))
	doctor.POST("/prescriptions", h.Create)
	doctor.PUT("/prescriptions/:id/status", h.UpdateStatus)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.DELETE("/prescriptions/:id", h.Delete)
	admin.POST("/medications", h.CreateMedication)
	admin.PUT("/medications/:id", h.UpdateMedication)
	admin.DELETE("/medications/:id", h.DeleteMedication)
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}

type DetailRequest struct {
	MedicationID int64  `json:"medication_id" validate:"required,gt=0"`
	Dose         string `json:"dose" validate:"required"`
	Frequency    string `json:"frequency" validate:"required"`
	Notes        string `json:"notes"`
}

type CreatePrescriptionRequest struct {
	ConsultationID int64           `json:"consultation_id" validate:"required,gt=0"`
	PatientID      int64           `json:"patient_id" validate:"required,gt=0"`
	DoctorID       int64           `json:"doctor_id" validate:"required,gt=0"`
	Notes          string          `json:"notes"`
	Details        []DetailRequest `json:"details" validate:"required,min=1,dive"`
}

func (h *Handler) Create(c echo.Context) error {
	var req CreatePrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p := &Prescription{
		ConsultationID: req.ConsultationID,
		PatientID:      req.PatientID,
		DoctorID:       req.DoctorID,
		Notes:          req.Notes,
	}
	for _, d := range req.Details {
		p.Details = append(p.Details, &Detail{
			MedicationID: d.MedicationID,
			Dose:         d.Dose,
			Frequency:    d.Frequency,
			Notes:        d.Notes,
		})
	}

	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
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

	items, total, err := h.svc.List(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
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

	p, err := h.svc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
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

type MedicationRequest struct {
	DrugName     string `json:"drug_name" validate:"required"`
	Category     string `json:"category"`
	CommonDosage string `json:"common_dosage"`
}

func (h *Handler) CreateMedication(c echo.Context) error {
	var req MedicationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m := &Medication{DrugName: req.DrugName, Category: req.Category, CommonDosage: req.CommonDosage}
	if err := h.svc.CreateMedication(c.Request().Context(), m); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) ListMedications(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListMedications(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) GetMedication(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	m, err := h.svc.GetMedication(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) UpdateMedication(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req MedicationRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	m := &Medication{ID: id, DrugName: req.DrugName, Category: req.Category, CommonDosage: req.CommonDosage}
	if err := h.svc.UpdateMedication(c.Request().Context(), m); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedication(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMedication(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
