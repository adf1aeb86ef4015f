package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"wisefido-triage/internal/classifier"
	"wisefido-triage/internal/models"
	"wisefido-triage/internal/notify"
	"wisefido-triage/internal/repository"
	"wisefido-triage/internal/service"
	"wisefido-triage/internal/ticket"
)

type testAPI struct {
	router   *Router
	symptoms *repository.MemorySymptomsRepo
	redis    *redis.Client
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := zap.NewNop()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	attendances := repository.NewMemoryAttendancesRepo()
	patients := repository.NewMemoryPatientsRepo()
	symptoms := repository.NewMemorySymptomsRepo(repository.DefaultSymptomCatalog)

	seq := ticket.NewRedisSequence(client, "triage:ticket:seq", attendances)
	issuer := ticket.NewIssuer(attendances, seq, ticket.DefaultFormat(), logger)
	publisher := notify.NewStreamPublisher(client, "triage:attendances", 100)

	router := NewRouter(logger)
	router.RegisterPatientRoutes(NewPatientHandler(service.NewPatientService(patients, attendances, false, logger), logger))
	router.RegisterSymptomRoutes(NewSymptomHandler(service.NewSymptomService(symptoms, logger), logger))
	router.RegisterAttendanceRoutes(NewAttendanceHandler(service.NewAttendanceService(
		attendances, patients, symptoms, classifier.NewSeverityClassifier(), issuer, publisher,
		service.AttendanceServiceConfig{MaxAttempts: 3}, logger,
	), time.UTC, logger))
	router.RegisterHealthRoutes(NewHealthHandler(nil, client, logger))

	return &testAPI{router: router, symptoms: symptoms, redis: client}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeResult[T any](t *testing.T, rr *httptest.ResponseRecorder) Result[T] {
	t.Helper()
	var res Result[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res), rr.Body.String())
	return res
}

const patientBody = `{"cpf":"52998224725","name":"Maria Silva","birth_date":"1985-04-12"}`

func TestPatients_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodPost, "/api/v1/patients", patientBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decodeResult[service.PatientDTO](t, rr)
	assert.Equal(t, ResultSuccess, created.Code)
	assert.Equal(t, "Maria Silva", created.Result.Name)

	rr = api.do(t, http.MethodPost, "/api/v1/patients", patientBody)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, ResultError, decodeResult[any](t, rr).Code)

	rr = api.do(t, http.MethodGet, "/api/v1/patients/52998224725", "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeResult[service.PatientDTO](t, rr)
	assert.Equal(t, created.Result.PatientID, got.Result.PatientID)

	rr = api.do(t, http.MethodGet, "/api/v1/patients/11144477735", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/patients/abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/patients", `{"cpf":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodDelete, "/api/v1/patients", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestSymptoms(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/api/v1/symptoms?category=Allergic", "")
	require.Equal(t, http.StatusOK, rr.Code)
	list := decodeResult[[]models.Symptom](t, rr)
	require.Len(t, list.Result, 4)
	assert.Equal(t, models.LevelEmergent, list.Result[0].BaseSeverity)

	rr = api.do(t, http.MethodGet, "/api/v1/symptoms/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	cats := decodeResult[[]string](t, rr)
	assert.Contains(t, cats.Result, "Respiratory")
}

func TestAttendances_Flow(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/patients", patientBody).Code)

	all, err := api.symptoms.ListSymptoms(context.Background(), "Cardiovascular")
	require.NoError(t, err)
	chestPain := all[0] // most urgent first: severe chest pain

	body := fmt.Sprintf(`{
		"cpf": "52998224725",
		"attendance_type": "emergency",
		"vital_signs": {"temperature": 36.8, "systolic_pressure": 125, "diastolic_pressure": 82, "weight": 68},
		"symptoms": [{"symptom_id": %q, "intensity": "moderate", "notes": "started 2h ago"}]
	}`, chestPain.SymptomID)

	rr := api.do(t, http.MethodPost, "/api/v1/attendances", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decodeResult[service.AttendanceDTO](t, rr)
	assert.Equal(t, "A001", first.Result.Ticket)
	assert.Equal(t, models.LevelEmergent, first.Result.PriorityLevel)
	assert.Equal(t, models.ColorRed, first.Result.Color)
	assert.Equal(t, "Maria Silva", first.Result.Patient.Name)

	rr = api.do(t, http.MethodPost, "/api/v1/attendances", `{
		"cpf": "52998224725", "attendance_type": "walk-in",
		"vital_signs": {"temperature": 36.8, "systolic_pressure": 125, "diastolic_pressure": 82, "weight": 68}
	}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	second := decodeResult[service.AttendanceDTO](t, rr)
	assert.Equal(t, "A002", second.Result.Ticket)
	assert.Equal(t, models.ColorBlue, second.Result.Color)

	// redis holds the shared counter and the event stream
	assert.Equal(t, "2", api.redis.Get(context.Background(), "triage:ticket:seq").Val())
	assert.Equal(t, int64(2), api.redis.XLen(context.Background(), "triage:attendances").Val())

	rr = api.do(t, http.MethodGet, "/api/v1/attendances/"+first.Result.AttendanceID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	got := decodeResult[service.AttendanceDTO](t, rr)
	require.Len(t, got.Result.Symptoms, 1)
	assert.Equal(t, "started 2h ago", *got.Result.Symptoms[0].Notes)

	rr = api.do(t, http.MethodGet, "/api/v1/attendances/patient/52998224725", "")
	require.Equal(t, http.StatusOK, rr.Code)
	history := decodeResult[[]service.AttendanceDTO](t, rr)
	require.Len(t, history.Result, 2)

	rr = api.do(t, http.MethodGet, "/api/v1/attendances/00000000-0000-0000-0000-000000000000", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestAttendances_Validation(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/patients", patientBody).Code)

	rr := api.do(t, http.MethodPost, "/api/v1/attendances", `{
		"cpf": "52998224725", "attendance_type": "emergency",
		"vital_signs": {"temperature": 50, "systolic_pressure": 125, "diastolic_pressure": 82, "weight": 68}
	}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeResult[any](t, rr).Message, "temperature")

	rr = api.do(t, http.MethodPost, "/api/v1/attendances", `{
		"cpf": "52998224725", "attendance_type": "emergency",
		"vital_signs": {"temperature": 36.5, "systolic_pressure": 125, "diastolic_pressure": 82, "weight": 68},
		"symptoms": [{"symptom_id": "missing", "intensity": "mild"}]
	}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/attendances", `{"cpf":"52998224725","unexpected":true}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttendances_Export(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusCreated, api.do(t, http.MethodPost, "/api/v1/patients", patientBody).Code)
	rr := api.do(t, http.MethodPost, "/api/v1/attendances", `{
		"cpf": "52998224725", "attendance_type": "emergency",
		"vital_signs": {"temperature": 36.5, "systolic_pressure": 125, "diastolic_pressure": 82, "weight": 68}
	}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	today := time.Now().UTC().Format("2006-01-02")
	rr = api.do(t, http.MethodGet, "/api/v1/attendances/export?from="+today, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "attendances-"+today)

	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Attendances")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A001", rows[1][0])

	rr = api.do(t, http.MethodGet, "/api/v1/attendances/export?from=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/attendances/export?from=2026-01-10&to=2026-01-01", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	rr := api.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var h HealthCheckResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &h))
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "not configured", h.Services["database"])

	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health/ready", "").Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodGet, "/health/live", "").Code)
}

func TestHealth_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	mr.SetError("LOADING Redis is loading the dataset in memory")

	router := NewRouter(zap.NewNop())
	router.RegisterHealthRoutes(NewHealthHandler(nil, client, zap.NewNop()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
