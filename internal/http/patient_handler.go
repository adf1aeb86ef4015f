package httpapi

import (
	"net/http"

	"wisefido-triage/internal/service"

	"go.uber.org/zap"
)

type PatientHandler struct {
	patients service.PatientService
	logger   *zap.Logger
}

func NewPatientHandler(patients service.PatientService, logger *zap.Logger) *PatientHandler {
	return &PatientHandler{patients: patients, logger: logger}
}

// CreatePatient handles POST /api/v1/patients.
func (h *PatientHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePatientRequest
	if err := readBodyJSON(r, maxBodyBytes, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, Fail("invalid body: "+err.Error()))
		return
	}
	p, err := h.patients.CreatePatient(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "CreatePatient", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(p))
}

// GetPatient handles GET /api/v1/patients/{cpf}.
func (h *PatientHandler) GetPatient(w http.ResponseWriter, r *http.Request, cpf string) {
	p, err := h.patients.GetPatientByCPF(r.Context(), cpf)
	if err != nil {
		writeServiceError(w, h.logger, "GetPatientByCPF", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(p))
}
