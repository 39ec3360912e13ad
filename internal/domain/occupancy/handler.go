package occupancy

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/hms/internal/platform/apperr"
	"github.com/medicore/hms/internal/platform/auth"
	"github.com/medicore/hms/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	g.GET("/stats", h.GetStats)
}

func (h *Handler) GetStats(c echo.Context) error {
	if raw := c.QueryParam("ward_id"); raw != "" {
		wardID, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid ward_id")
		}
		stats, err := h.svc.GetWardStats(c.Request().Context(), wardID)
		if err != nil {
			return err
		}
		return response.OK(c, http.StatusOK, stats)
	}

	stats, err := h.svc.GetTenantStats(c.Request().Context())
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, stats)
}
