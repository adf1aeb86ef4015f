package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"wisefido-triage/internal/report"
	"wisefido-triage/internal/service"

	"go.uber.org/zap"
)

const exportDateLayout = "2006-01-02"

type AttendanceHandler struct {
	attendances service.AttendanceService
	location    *time.Location
	logger      *zap.Logger
}

// NewAttendanceHandler creates the handler. Export date ranges are read in loc.
func NewAttendanceHandler(attendances service.AttendanceService, loc *time.Location, logger *zap.Logger) *AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceHandler{attendances: attendances, location: loc, logger: logger}
}

// CreateAttendance handles POST /api/v1/attendances.
func (h *AttendanceHandler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	var req service.CreateAttendanceRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body: "+err.Error()))
		return
	}
	a, err := h.attendances.CreateAttendance(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "CreateAttendance", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(a))
}

func (h *AttendanceHandler) GetAttendance(w http.ResponseWriter, r *http.Request, id string) {
	a, err := h.attendances.GetAttendance(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "GetAttendance", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(a))
}

func (h *AttendanceHandler) ListPatientAttendances(w http.ResponseWriter, r *http.Request, cpf string) {
	items, err := h.attendances.ListPatientAttendances(r.Context(), cpf)
	if err != nil {
		writeServiceError(w, h.logger, "ListPatientAttendances", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

// ExportAttendances handles GET /api/v1/attendances/export?from=&to=.
// Both dates are inclusive calendar days; to defaults to from.
func (h *AttendanceHandler) ExportAttendances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.ParseInLocation(exportDateLayout, q.Get("from"), h.location)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("from must be YYYY-MM-DD"))
		return
	}
	to := from
	if v := q.Get("to"); v != "" {
		if to, err = time.ParseInLocation(exportDateLayout, v, h.location); err != nil {
			writeJSON(w, http.StatusBadRequest, Fail("to must be YYYY-MM-DD"))
			return
		}
	}

	items, err := h.attendances.ListAttendancesBetween(r.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		writeServiceError(w, h.logger, "ListAttendancesBetween", err)
		return
	}

	data, err := report.GenerateAttendanceExport(items, h.location)
	if err != nil {
		h.logger.Error("GenerateAttendanceExport failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("failed to generate export"))
		return
	}

	filename := fmt.Sprintf("attendances-%s-%s.xlsx", from.Format(exportDateLayout), to.Format(exportDateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
