package admission

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
	readGroup.GET("/admissions", h.ListAdmissions)
	readGroup.GET("/admissions/:id", h.GetAdmission)
	readGroup.GET("/admissions/:id/treatments", h.ListTreatmentNotes)
	readGroup.GET("/admissions/:id/transfers", h.ListTransfers)
	readGroup.GET("/admissions/:id/summary", h.GetDischargeSummary)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	writeGroup.POST("/admissions", h.AdmitPatient)
	writeGroup.POST("/admissions/:id/transfer", h.TransferPatient)
	writeGroup.POST("/admissions/:id/treatments", h.AddTreatmentNote)
	writeGroup.POST("/admissions/:id/discharge", h.DischargePatient)
}

func (h *Handler) AdmitPatient(c echo.Context) error {
	var req AdmitRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	a, err := h.svc.AdmitPatient(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, a)
}

func (h *Handler) GetAdmission(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	a, err := h.svc.GetAdmission(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, a)
}

func (h *Handler) ListAdmissions(c echo.Context) error {
	pg := pagination.FromContext(c)

	if raw := c.QueryParam("patient_id"); raw != "" {
		patientID, err := uuid.Parse(raw)
		if err != nil {
			return apperr.Validation("invalid patient_id")
		}
		adms, total, err := h.svc.ListAdmissionsByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.OK(c, http.StatusOK, pagination.NewResponse(adms, total, pg.Limit, pg.Offset))
	}

	if raw := c.QueryParam("status"); raw != "" {
		adms, total, err := h.svc.ListAdmissionsByStatus(c.Request().Context(), Status(raw), pg.Limit, pg.Offset)
		if err != nil {
			return err
		}
		return response.OK(c, http.StatusOK, pagination.NewResponse(adms, total, pg.Limit, pg.Offset))
	}

	adms, total, err := h.svc.ListAdmissions(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, pagination.NewResponse(adms, total, pg.Limit, pg.Offset))
}

func (h *Handler) TransferPatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	a, err := h.svc.TransferPatient(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, a)
}

func (h *Handler) AddTreatmentNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	var req TreatmentRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	n, err := h.svc.AddTreatmentNote(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusCreated, n)
}

func (h *Handler) ListTreatmentNotes(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	notes, err := h.svc.ListTreatmentNotes(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, notes)
}

func (h *Handler) DischargePatient(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	var req DischargeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	a, err := h.svc.DischargePatient(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return response.OKMessage(c, http.StatusOK, "patient discharged", a)
}

func (h *Handler) GetDischargeSummary(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	s, err := h.svc.GetDischargeSummary(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, s)
}

func (h *Handler) ListTransfers(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validation("invalid admission id")
	}
	transfers, err := h.svc.ListTransfers(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return response.OK(c, http.StatusOK, transfers)
}
