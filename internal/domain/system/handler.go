package system

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
	admin := api.Group("", auth.RequireRole("admin"))
	admin.GET("/audit-logs", h.ListAuditLogs)
	admin.GET("/settings", h.ListSettings)
	admin.GET("/settings/:key", h.GetSetting)
	admin.PUT("/settings/:key", h.PutSetting)
}

func (h *Handler) ListAuditLogs(c echo.Context) error {
	pg := pagination.FromContext(c)
	ctx := c.Request().Context()

	if v := c.QueryParam("user_id"); v != "" {
		uid, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperr.Invalid("invalid user_id")
		}
		items, total, err := h.svc.ListAuditLogsByUser(ctx, uid, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	items, total, err := h.svc.ListAuditLogs(ctx, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListSettings(c echo.Context) error {
	items, err := h.svc.ListSettings(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetSetting(c echo.Context) error {
	s, err := h.svc.GetSetting(c.Request().Context(), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

type PutSettingRequest struct {
	Value string `json:"value" validate:"required"`
}

func (h *Handler) PutSetting(c echo.Context) error {
	var req PutSettingRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Invalid("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.svc.PutSetting(c.Request().Context(), c.Param("key"), req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}
