package httpapi

import (
	"net/http"

	"wisefido-triage/internal/service"

	"go.uber.org/zap"
)

type SymptomHandler struct {
	symptoms service.SymptomService
	logger   *zap.Logger
}

func NewSymptomHandler(symptoms service.SymptomService, logger *zap.Logger) *SymptomHandler {
	return &SymptomHandler{symptoms: symptoms, logger: logger}
}

func (h *SymptomHandler) ListSymptoms(w http.ResponseWriter, r *http.Request) {
	items, err := h.symptoms.ListSymptoms(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeServiceError(w, h.logger, "ListSymptoms", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}

func (h *SymptomHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	items, err := h.symptoms.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "ListCategories", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(items))
}
