package patient

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
	staff := api.Group("", auth.RequireRole("doctor", "nurse"))
	staff.GET("/patients", h.List)
	staff.GET("/patients/:id", h.Get)
	staff.POST("/patients", h.Create)
	staff.PUT("/patients/:id", h.Update)

	api.GET("/patients/me", h.Me)

	admin := api.Group("", auth.RequireRole("admin"))
	admin.DELETE("/patients/:id", h.Delete)
}

type PatientRequest struct {
	FullName    string `json:"full_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Phone       string `json:"phone"`
	UserID      *int64 `json:"user_id"`
}

func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid id")
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	var req PatientRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return apperr.Invalidf("invalid date_of_birth: %q", req.DateOfBirth)
	}

	p := &Patient{FullName: req.FullName, DateOfBirth: dob, Phone: req.Phone, UserID: req.UserID}
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

// Me returns the patient record linked to the authenticated user.
func (h *Handler) Me(c echo.Context) error {
	uid := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.GetByUser(c.Request().Context(), uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req PatientRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return apperr.Invalidf("invalid date_of_birth: %q", req.DateOfBirth)
	}

	p := &Patient{ID: id, FullName: req.FullName, DateOfBirth: dob, Phone: req.Phone, UserID: req.UserID}
	if err := h.svc.Update(c.Request().Context(), p); err != nil {
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

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}
