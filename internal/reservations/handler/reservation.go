package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"mensa/internal/reservations/service"
	apperrors "mensa/pkg/errors"
	httputil "mensa/pkg/http"
	"mensa/pkg/logger"
)

type ReserveRequest struct {
	PackageID string `json:"package_id"`
	StudentID string `json:"student_id"`
}

type NoShowRequest struct {
	EmployeeID string `json:"employee_id"`
}

type AvailabilityResponse struct {
	PackageID string `json:"package_id"`
	Available bool   `json:"available"`
}

type EligibilityResponse struct {
	PackageID string `json:"package_id"`
	StudentID string `json:"student_id"`
	Eligible  bool   `json:"eligible"`
}

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Reserve", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	pkg, err := h.service.Reserve(r.Context(), req.PackageID, req.StudentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Reserve", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, pkg); err != nil {
		h.log.Error("failed to write created response", "handler", "Reserve", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID := ps.ByName("packageId")
	studentID := r.URL.Query().Get("student_id")

	if studentID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'student_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := h.service.Cancel(r.Context(), packageID, studentID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) GetStudentReservations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	studentID := ps.ByName("id")

	packages, err := h.service.GetReservations(r.Context(), studentID)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetStudentReservations", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, packages); err != nil {
		h.log.Error("failed to write success response", "handler", "GetStudentReservations", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterNoShow(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID := ps.ByName("id")

	var req NoShowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "RegisterNoShow", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.RegisterNoShow(r.Context(), packageID, req.EmployeeID); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "RegisterNoShow", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID := ps.ByName("id")

	available := h.service.IsAvailable(r.Context(), packageID)
	if err := httputil.WriteSuccess(w, AvailabilityResponse{
		PackageID: packageID,
		Available: available,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAvailability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) GetEligibility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packageID := ps.ByName("id")
	studentID := r.URL.Query().Get("student_id")

	if studentID == "" {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput("'student_id' query parameter is required")); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetEligibility", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	eligible := h.service.IsEligible(r.Context(), studentID, packageID)
	if err := httputil.WriteSuccess(w, EligibilityResponse{
		PackageID: packageID,
		StudentID: studentID,
		Eligible:  eligible,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetEligibility", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/reservations", h.Reserve)
	router.DELETE("/reservations/:packageId", h.Cancel)
	router.GET("/students/:id/reservations", h.GetStudentReservations)
	router.POST("/packages/:id/no-show", h.RegisterNoShow)
	router.GET("/packages/:id/availability", h.GetAvailability)
	router.GET("/packages/:id/eligibility", h.GetEligibility)
}
