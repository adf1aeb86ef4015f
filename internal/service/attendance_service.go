package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wisefido-triage/internal/models"
	"wisefido-triage/internal/notify"
	"wisefido-triage/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttendanceService runs triage: it classifies the patient, issues a queue
// ticket and stores the attendance.
type AttendanceService interface {
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (*AttendanceDTO, error)
	GetAttendance(ctx context.Context, attendanceID string) (*AttendanceDTO, error)
	ListPatientAttendances(ctx context.Context, cpf string) ([]AttendanceDTO, error)
	ListAttendancesBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error)
}

// Classifier assigns a priority level to a patient's vitals and symptoms.
type Classifier interface {
	Classify(vitals models.VitalSigns, age int, symptoms []models.SymptomObservation) models.Classification
}

// TicketIssuer hands out queue tickets.
type TicketIssuer interface {
	Issue(ctx context.Context) (models.Ticket, error)
}

// CreateAttendanceRequest is a triage intake.
type CreateAttendanceRequest struct {
	CPF            string                 `json:"cpf"`
	AttendanceType string                 `json:"attendance_type"`
	Vitals         models.VitalSigns      `json:"vital_signs"`
	Symptoms       []ReportedSymptomInput `json:"symptoms,omitempty"`
}

// ReportedSymptomInput references a catalog symptom.
type ReportedSymptomInput struct {
	SymptomID string           `json:"symptom_id"`
	Intensity models.Intensity `json:"intensity"`
	Notes     *string          `json:"notes,omitempty"`
}

// AttendanceDTO is what the API returns for an attendance.
type AttendanceDTO struct {
	AttendanceID   string                     `json:"attendance_id"`
	Ticket         string                     `json:"ticket"`
	Color          models.ColorMarker         `json:"color"`
	PriorityLevel  models.PriorityLevel       `json:"priority_level"`
	AttendanceType string                     `json:"attendance_type"`
	Patient        PatientSummary             `json:"patient"`
	Vitals         models.VitalSigns          `json:"vital_signs"`
	Symptoms       []models.AttendanceSymptom `json:"symptoms,omitempty"`
	Status         models.AttendanceStatus    `json:"status"`
	CreatedAt      time.Time                  `json:"created_at"`
}

type PatientSummary struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	CPF       string `json:"cpf"`
	Age       int    `json:"age"`
}

// AttendanceServiceConfig tunes AttendanceService.
type AttendanceServiceConfig struct {
	// MaxAttempts bounds persist attempts when the ticket is taken concurrently.
	MaxAttempts int
	StrictCPF   bool
}

type attendanceService struct {
	attendances repository.AttendancesRepository
	patients    repository.PatientsRepository
	symptoms    repository.SymptomsRepository
	classifier  Classifier
	issuer      TicketIssuer
	publisher   notify.Publisher
	cfg         AttendanceServiceConfig
	now         func() time.Time
	logger      *zap.Logger
}

// NewAttendanceService creates an AttendanceService. A nil publisher disables events.
func NewAttendanceService(
	attendances repository.AttendancesRepository,
	patients repository.PatientsRepository,
	symptoms repository.SymptomsRepository,
	classifier Classifier,
	issuer TicketIssuer,
	publisher notify.Publisher,
	cfg AttendanceServiceConfig,
	logger *zap.Logger,
) AttendanceService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &attendanceService{
		attendances: attendances,
		patients:    patients,
		symptoms:    symptoms,
		classifier:  classifier,
		issuer:      issuer,
		publisher:   publisher,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger,
	}
}

// Accepted vital sign ranges. Readings outside them are treated as entry errors.
var (
	temperatureRange = [2]float64{30, 45}
	systolicRange    = [2]float64{50, 250}
	diastolicRange   = [2]float64{30, 150}
	weightRange      = [2]float64{1, 300}
)

func validateAttendanceRequest(req *CreateAttendanceRequest, strictCPF bool) error {
	if err := validateCPF(req.CPF, strictCPF); err != nil {
		return err
	}
	req.AttendanceType = strings.TrimSpace(req.AttendanceType)
	if req.AttendanceType == "" {
		return invalidf("attendance_type is required")
	}

	checks := []struct {
		name  string
		value float64
		r     [2]float64
	}{
		{"temperature", req.Vitals.Temperature, temperatureRange},
		{"systolic_pressure", req.Vitals.SystolicPressure, systolicRange},
		{"diastolic_pressure", req.Vitals.DiastolicPressure, diastolicRange},
		{"weight", req.Vitals.Weight, weightRange},
	}
	for _, c := range checks {
		if c.value < c.r[0] || c.value > c.r[1] {
			return invalidf("%s must be between %g and %g", c.name, c.r[0], c.r[1])
		}
	}

	for i, s := range req.Symptoms {
		if strings.TrimSpace(s.SymptomID) == "" {
			return invalidf("symptoms[%d].symptom_id is required", i)
		}
		if !s.Intensity.Valid() {
			return invalidf("symptoms[%d].intensity %q is not one of mild, moderate, severe, very_severe", i, s.Intensity)
		}
	}
	return nil
}

func (s *attendanceService) CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (*AttendanceDTO, error) {
	if err := validateAttendanceRequest(&req, s.cfg.StrictCPF); err != nil {
		return nil, err
	}

	patient, err := s.patients.GetPatientByCPF(ctx, req.CPF)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	observations := make([]models.SymptomObservation, 0, len(req.Symptoms))
	reported := make([]models.AttendanceSymptom, 0, len(req.Symptoms))
	for _, in := range req.Symptoms {
		sym, err := s.symptoms.GetSymptom(ctx, in.SymptomID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, notFoundf("symptom %s not found", in.SymptomID)
			}
			return nil, fmt.Errorf("failed to get symptom %s: %w", in.SymptomID, err)
		}
		observations = append(observations, models.SymptomObservation{
			BaseSeverity: sym.BaseSeverity,
			Intensity:    in.Intensity,
		})
		reported = append(reported, models.AttendanceSymptom{
			SymptomID: sym.SymptomID,
			Intensity: in.Intensity,
			Notes:     in.Notes,
		})
	}

	now := s.now()
	age := CalculateAge(patient.BirthDate, now)
	classification := s.classifier.Classify(req.Vitals, age, observations)

	a := &models.Attendance{
		AttendanceID:   uuid.New().String(),
		PatientID:      patient.PatientID,
		AttendanceType: req.AttendanceType,
		Vitals:         req.Vitals,
		PriorityLevel:  classification.Level,
		Status:         models.StatusWaiting,
		Symptoms:       reported,
		CreatedAt:      now.UTC(),
	}

	if err := s.persistWithTicket(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Attendance created",
		zap.String("attendance_id", a.AttendanceID),
		zap.String("ticket", a.Ticket.Token),
		zap.Int("priority_level", int(a.PriorityLevel)),
		zap.String("color", string(classification.Color)),
	)

	event := models.TriageEvent{
		AttendanceID:  a.AttendanceID,
		PatientID:     a.PatientID,
		Ticket:        a.Ticket.Token,
		PriorityLevel: a.PriorityLevel,
		Color:         classification.Color,
		CreatedAt:     a.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Failed to publish triage event",
			zap.String("attendance_id", a.AttendanceID),
			zap.Error(err),
		)
	}

	dto := toAttendanceDTO(a, patient, age)
	return &dto, nil
}

// persistWithTicket issues a ticket and stores a. A ticket taken between the
// issuer's lookup and the insert is skipped and a new one issued.
func (s *attendanceService) persistWithTicket(ctx context.Context, a *models.Attendance) error {
	for attempt := 1; ; attempt++ {
		t, err := s.issuer.Issue(ctx)
		if err != nil {
			return fmt.Errorf("failed to issue ticket: %w", err)
		}
		a.Ticket = t

		err = s.attendances.CreateAttendance(ctx, a)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateTicket) {
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		if attempt >= s.cfg.MaxAttempts {
			return fmt.Errorf("%w: no free ticket after %d attempts", ErrConflict, attempt)
		}
		s.logger.Warn("Ticket taken concurrently, issuing another",
			zap.String("ticket", t.Token),
			zap.Int("attempt", attempt),
		)
	}
}

func (s *attendanceService) GetAttendance(ctx context.Context, attendanceID string) (*AttendanceDTO, error) {
	if _, err := uuid.Parse(attendanceID); err != nil {
		return nil, notFoundf("attendance not found")
	}
	a, err := s.attendances.GetAttendance(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("attendance not found")
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	patient, err := s.patients.GetPatient(ctx, a.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance patient: %w", err)
	}
	dto := toAttendanceDTO(a, patient, CalculateAge(patient.BirthDate, s.now()))
	return &dto, nil
}

// ListPatientAttendances returns the patient's attendances, newest first.
func (s *attendanceService) ListPatientAttendances(ctx context.Context, cpfValue string) ([]AttendanceDTO, error) {
	if err := validateCPF(cpfValue, false); err != nil {
		return nil, err
	}
	patient, err := s.patients.GetPatientByCPF(ctx, cpfValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	list, err := s.attendances.ListAttendancesByPatient(ctx, patient.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}

	age := CalculateAge(patient.BirthDate, s.now())
	out := make([]AttendanceDTO, 0, len(list))
	for i := range list {
		out = append(out, toAttendanceDTO(&list[i], patient, age))
	}
	return out, nil
}

// ListAttendancesBetween returns attendances created in [from, to), oldest first.
func (s *attendanceService) ListAttendancesBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error) {
	if !from.Before(to) {
		return nil, invalidf("from must be before to")
	}
	list, err := s.attendances.ListAttendancesBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return list, nil
}

func toAttendanceDTO(a *models.Attendance, p *models.Patient, age int) AttendanceDTO {
	return AttendanceDTO{
		AttendanceID:   a.AttendanceID,
		Ticket:         a.Ticket.Token,
		Color:          a.Color(),
		PriorityLevel:  a.PriorityLevel,
		AttendanceType: a.AttendanceType,
		Patient: PatientSummary{
			PatientID: p.PatientID,
			Name:      p.Name,
			CPF:       p.CPF,
			Age:       age,
		},
		Vitals:    a.Vitals,
		Symptoms:  a.Symptoms,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}
