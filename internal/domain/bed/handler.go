package bed

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
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "registrar"))
	readGroup.GET("/beds/available", h.ListAvailableBeds)
	readGroup.GET("/beds/:id", h.GetBed)
	readGroup.GET("/wards/:id/beds", h.GetBedsByWard)

	writeGroup := api.Group("", auth.RequireRole("admin", "registrar"))
	writeGroup.POST("/beds", h.CreateBed)
	writeGroup.PATCH("/beds/:id/status", h.UpdateBedStatus)
}

type createRequest struct {
	WardID      uuid.UUID `json:"ward_id"`
	BedNumber   string    `json:"bed_number"`
	Status      Status    `json:"status,omitempty"`
	Description *string   `json:"description,omitempty"`
}

func (h *Handler) CreateBed(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	b := &Bed{WardID: req.WardID, BedNumber: req.BedNumber, Status: req.Status, Description: req.Description}
	if err := h.svc.CreateBed(c.Request().Context(), b); err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, b)
}

func (h *Handler) GetBed(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid bed id")
	}
	b, err := h.svc.GetBed(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, b)
}

func (h *Handler) GetBedsByWard(c echo.Context) error {
	wardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid ward id")
	}
	beds, err := h.svc.GetBedsByWard(c.Request().Context(), wardID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, beds)
}

func (h *Handler) ListAvailableBeds(c echo.Context) error {
	var wardID *uuid.UUID
	if raw := c.QueryParam("ward_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid ward_id")
		}
		wardID = &id
	}
	beds, err := h.svc.ListAvailableBeds(c.Request().Context(), wardID)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, beds)
}

type statusRequest struct {
	Status Status  `json:"status"`
	Notes  *string `json:"notes,omitempty"`
}

func (h *Handler) UpdateBedStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid bed id")
	}
	var req statusRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	b, err := h.svc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, b)
}
