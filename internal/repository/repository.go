package repository

import (
	"context"
	"errors"
	"time"

	"wisefido-triage/internal/models"

	"github.com/lib/pq"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateTicket means another attendance already holds the ticket;
	// the caller should issue a new ticket and retry.
	ErrDuplicateTicket = errors.New("duplicate ticket")
	ErrDuplicateCPF    = errors.New("duplicate cpf")
)

// Unique constraint names from schema.sql.
const (
	constraintAttendanceTicket = "attendances_ticket_key"
	constraintPatientCPF       = "patients_cpf_key"
)

// AttendancesRepository stores triage records. It also serves as the
// ticket.Store the issuer checks.
type AttendancesRepository interface {
	// CreateAttendance returns ErrDuplicateTicket when the ticket token is taken.
	CreateAttendance(ctx context.Context, a *models.Attendance) error
	GetAttendance(ctx context.Context, attendanceID string) (*models.Attendance, error)
	// ListAttendancesByPatient returns newest first.
	ListAttendancesByPatient(ctx context.Context, patientID string) ([]models.Attendance, error)
	// ListAttendancesBetween returns records created in [from, to), oldest first.
	ListAttendancesBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error)

	FindMostRecentTicket(ctx context.Context) (*models.Ticket, error)
	FindTicketByToken(ctx context.Context, token string) (*models.Ticket, error)
}

// PatientsRepository stores patients keyed by CPF.
type PatientsRepository interface {
	// CreatePatient returns ErrDuplicateCPF when the CPF is already registered.
	CreatePatient(ctx context.Context, p *models.Patient) error
	GetPatient(ctx context.Context, patientID string) (*models.Patient, error)
	GetPatientByCPF(ctx context.Context, cpf string) (*models.Patient, error)
}

// SymptomsRepository reads the symptom catalog.
type SymptomsRepository interface {
	GetSymptom(ctx context.Context, symptomID string) (*models.Symptom, error)
	// ListSymptoms returns active symptoms ordered by category, base severity
	// and name; an empty category means all.
	ListSymptoms(ctx context.Context, category string) ([]models.Symptom, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// uniqueViolation returns the violated constraint name for a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return pqErr.Constraint, true
	}
	return "", false
}
