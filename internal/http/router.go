package httpapi

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Router uses the stdlib http.ServeMux.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	r.mux.ServeHTTP(rec, req)
	r.logger.Debug("http request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)),
	)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

const (
	patientsPrefix    = "/api/v1/patients/"
	attendancesPrefix = "/api/v1/attendances/"
)

func (r *Router) RegisterPatientRoutes(h *PatientHandler) {
	r.Handle("/api/v1/patients", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.CreatePatient(w, req)
	})

	// patients/{cpf}
	r.Handle(patientsPrefix, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		cpf := strings.TrimPrefix(req.URL.Path, patientsPrefix)
		if cpf == "" || strings.Contains(cpf, "/") {
			writeJSON(w, http.StatusNotFound, Fail("not found"))
			return
		}
		h.GetPatient(w, req, cpf)
	})
}

func (r *Router) RegisterSymptomRoutes(h *SymptomHandler) {
	r.Handle("/api/v1/symptoms", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ListSymptoms(w, req)
	})
	r.Handle("/api/v1/symptoms/categories", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.ListCategories(w, req)
	})
}

func (r *Router) RegisterAttendanceRoutes(h *AttendanceHandler) {
	r.Handle("/api/v1/attendances", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.CreateAttendance(w, req)
	})

	// attendances/export, attendances/patient/{cpf}, attendances/{id}
	r.Handle(attendancesPrefix, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, attendancesPrefix)
		switch {
		case rest == "export":
			h.ExportAttendances(w, req)
		case strings.HasPrefix(rest, "patient/"):
			cpf := strings.TrimPrefix(rest, "patient/")
			if cpf == "" || strings.Contains(cpf, "/") {
				writeJSON(w, http.StatusNotFound, Fail("not found"))
				return
			}
			h.ListPatientAttendances(w, req, cpf)
		case rest != "" && !strings.Contains(rest, "/"):
			h.GetAttendance(w, req, rest)
		default:
			writeJSON(w, http.StatusNotFound, Fail("not found"))
		}
	})
}

func (r *Router) RegisterHealthRoutes(h *HealthHandler) {
	r.Handle("/health", h.HealthCheck)
	r.Handle("/health/ready", h.Ready)
	r.Handle("/health/live", h.Live)
}
