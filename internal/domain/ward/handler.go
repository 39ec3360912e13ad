package ward

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medicore/hms/internal/platform/apperr"
	"github.com/medicore/hms/internal/platform/auth"
	"github.com/medicore/hms/pkg/pagination"
	"github.com/medicore/hms/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/wards", h.ListWards)
	readGroup.GET("/wards/:id", h.GetWard)
	readGroup.GET("/wards/:id/occupancy", h.GetWardOccupancy)

	writeGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	writeGroup.POST("/wards", h.CreateWard)
	writeGroup.PATCH("/wards/:id", h.UpdateWard)
	writeGroup.POST("/wards/:id/deactivate", h.DeactivateWard)
}

type createRequest struct {
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Location *string `json:"location,omitempty"`
	Floor    *string `json:"floor,omitempty"`
}

func (h *Handler) CreateWard(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	w := &Ward{Name: req.Name, Capacity: req.Capacity, Location: req.Location, Floor: req.Floor}
	if err := h.svc.CreateWard(c.Request().Context(), w); err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, w)
}

func (h *Handler) GetWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid ward id")
	}
	w, err := h.svc.GetWard(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, w)
}

func (h *Handler) ListWards(c echo.Context) error {
	pg := pagination.FromContext(c)
	wards, total, err := h.svc.ListWards(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, pagination.NewResponse(wards, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid ward id")
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.Validation("invalid request body")
	}
	w, err := h.svc.UpdateWard(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, w)
}

func (h *Handler) GetWardOccupancy(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid ward id")
	}
	occ, err := h.svc.GetWardOccupancy(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, occ)
}

func (h *Handler) DeactivateWard(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid ward id")
	}
	w, err := h.svc.DeactivateWard(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OKMessage(c, http.StatusOK, "ward deactivated", w)
}
