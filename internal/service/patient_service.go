package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wisefido-triage/internal/cpf"
	"wisefido-triage/internal/models"
	"wisefido-triage/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PatientService registers and looks up patients.
type PatientService interface {
	CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientDTO, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*PatientDTO, error)
}

// CreatePatientRequest carries a new patient. BirthDate is YYYY-MM-DD.
type CreatePatientRequest struct {
	CPF       string  `json:"cpf"`
	Name      string  `json:"name"`
	BirthDate string  `json:"birth_date"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// PatientDTO is a patient plus the age derived at read time.
type PatientDTO struct {
	models.Patient
	Age                 int                 `json:"age"`
	PreviousAttendances []models.Attendance `json:"previous_attendances"`
}

const birthDateLayout = "2006-01-02"

type patientService struct {
	patients    repository.PatientsRepository
	attendances repository.AttendancesRepository
	strictCPF   bool
	now         func() time.Time
	logger      *zap.Logger
}

// NewPatientService creates a PatientService. With strictCPF the CPF check
// digits are verified, otherwise only the 11-digit format is.
func NewPatientService(patients repository.PatientsRepository, attendances repository.AttendancesRepository, strictCPF bool, logger *zap.Logger) PatientService {
	return &patientService{
		patients:    patients,
		attendances: attendances,
		strictCPF:   strictCPF,
		now:         time.Now,
		logger:      logger,
	}
}

func (s *patientService) CreatePatient(ctx context.Context, req CreatePatientRequest) (*PatientDTO, error) {
	if err := validateCPF(req.CPF, s.strictCPF); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidf("name is required")
	}
	birth, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		return nil, invalidf("birth_date must be YYYY-MM-DD")
	}
	if birth.After(s.now()) {
		return nil, invalidf("birth_date is in the future")
	}

	p := &models.Patient{
		PatientID: uuid.New().String(),
		CPF:       req.CPF,
		Name:      name,
		BirthDate: birth,
		Phone:     req.Phone,
		Address:   req.Address,
		Email:     req.Email,
		CreatedAt: s.now().UTC(),
	}
	if err := s.patients.CreatePatient(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateCPF) {
			return nil, fmt.Errorf("%w: cpf already registered", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}

	s.logger.Info("Patient registered", zap.String("patient_id", p.PatientID))
	return &PatientDTO{
		Patient:             *p,
		Age:                 CalculateAge(p.BirthDate, s.now()),
		PreviousAttendances: []models.Attendance{},
	}, nil
}

// GetPatientByCPF returns the patient with their attendances, newest first.
func (s *patientService) GetPatientByCPF(ctx context.Context, cpfValue string) (*PatientDTO, error) {
	if !cpf.HasValidFormat(cpfValue) {
		return nil, invalidf("cpf must be exactly 11 digits")
	}
	p, err := s.patients.GetPatientByCPF(ctx, cpfValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundf("patient not found")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	history, err := s.attendances.ListAttendancesByPatient(ctx, p.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient attendances: %w", err)
	}
	if history == nil {
		history = []models.Attendance{}
	}
	return &PatientDTO{
		Patient:             *p,
		Age:                 CalculateAge(p.BirthDate, s.now()),
		PreviousAttendances: history,
	}, nil
}

// CalculateAge returns completed years between birth and now.
func CalculateAge(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func validateCPF(value string, strict bool) error {
	if !cpf.HasValidFormat(value) {
		return invalidf("cpf must be exactly 11 digits")
	}
	if strict && !cpf.IsValid(value) {
		return invalidf("cpf check digits do not match")
	}
	return nil
}
