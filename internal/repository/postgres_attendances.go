package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"wisefido-triage/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresAttendancesRepository is the Postgres AttendancesRepository.
type PostgresAttendancesRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresAttendancesRepository(db *sql.DB, logger *zap.Logger) *PostgresAttendancesRepository {
	return &PostgresAttendancesRepository{db: db, logger: logger}
}

const attendanceColumns = `
	attendance_id::text,
	patient_id::text,
	attendance_type,
	ticket_prefix,
	ticket_number,
	ticket,
	temperature,
	systolic_pressure,
	diastolic_pressure,
	weight,
	priority_level,
	status,
	created_at`

// CreateAttendance inserts the attendance and its symptoms in one transaction.
func (r *PostgresAttendancesRepository) CreateAttendance(ctx context.Context, a *models.Attendance) error {
	if a.AttendanceID == "" {
		return fmt.Errorf("attendance_id is required")
	}
	if a.Ticket.Token == "" {
		return fmt.Errorf("ticket is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO attendances (
			attendance_id, patient_id, attendance_type,
			ticket_prefix, ticket_number, ticket,
			temperature, systolic_pressure, diastolic_pressure, weight,
			priority_level, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.AttendanceID, a.PatientID, a.AttendanceType,
		a.Ticket.Prefix, a.Ticket.Number, a.Ticket.Token,
		a.Vitals.Temperature, a.Vitals.SystolicPressure, a.Vitals.DiastolicPressure, a.Vitals.Weight,
		int(a.PriorityLevel), string(a.Status), a.CreatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintAttendanceTicket {
			return ErrDuplicateTicket
		}
		return fmt.Errorf("failed to insert attendance: %w", err)
	}

	for _, s := range a.Symptoms {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO attendance_symptoms (attendance_id, symptom_id, intensity, notes)
			VALUES ($1, $2, $3, $4)`,
			a.AttendanceID, s.SymptomID, string(s.Intensity), s.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attendance symptom %s: %w", s.SymptomID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintAttendanceTicket {
			return ErrDuplicateTicket
		}
		return fmt.Errorf("failed to commit attendance: %w", err)
	}
	return nil
}

func (r *PostgresAttendancesRepository) GetAttendance(ctx context.Context, attendanceID string) (*models.Attendance, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE attendance_id = $1`,
		attendanceID,
	)
	a, err := scanAttendance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	symptoms, err := r.loadSymptoms(ctx, []string{a.AttendanceID})
	if err != nil {
		return nil, err
	}
	a.Symptoms = symptoms[a.AttendanceID]
	return a, nil
}

// loadSymptoms returns the reported symptoms of each attendance, keyed by
// attendance_id, in report order.
func (r *PostgresAttendancesRepository) loadSymptoms(ctx context.Context, attendanceIDs []string) (map[string][]models.AttendanceSymptom, error) {
	out := make(map[string][]models.AttendanceSymptom, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT attendance_id::text, symptom_id::text, intensity, notes
		FROM attendance_symptoms
		WHERE attendance_id = ANY($1::uuid[])
		ORDER BY id`,
		pq.Array(attendanceIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance symptoms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var attendanceID, intensity string
		var s models.AttendanceSymptom
		var notes sql.NullString
		if err := rows.Scan(&attendanceID, &s.SymptomID, &intensity, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan attendance symptom: %w", err)
		}
		s.Intensity = models.Intensity(intensity)
		if notes.Valid {
			s.Notes = &notes.String
		}
		out[attendanceID] = append(out[attendanceID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance symptoms: %w", err)
	}
	return out, nil
}

func (r *PostgresAttendancesRepository) ListAttendancesByPatient(ctx context.Context, patientID string) ([]models.Attendance, error) {
	return r.list(ctx,
		`SELECT `+attendanceColumns+` FROM attendances WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID,
	)
}

func (r *PostgresAttendancesRepository) ListAttendancesBetween(ctx context.Context, from, to time.Time) ([]models.Attendance, error) {
	return r.list(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		 WHERE created_at >= $1 AND created_at < $2
		 ORDER BY created_at ASC, ticket_number ASC`,
		from, to,
	)
}

// FindMostRecentTicket returns the ticket of the newest attendance, or nil.
func (r *PostgresAttendancesRepository) FindMostRecentTicket(ctx context.Context) (*models.Ticket, error) {
	return r.findTicket(ctx, `
		SELECT ticket_prefix, ticket_number, ticket
		FROM attendances
		ORDER BY created_at DESC, ticket_number DESC
		LIMIT 1`)
}

// FindTicketByToken returns the ticket with this exact token, or nil.
func (r *PostgresAttendancesRepository) FindTicketByToken(ctx context.Context, token string) (*models.Ticket, error) {
	return r.findTicket(ctx, `
		SELECT ticket_prefix, ticket_number, ticket
		FROM attendances
		WHERE ticket = $1`, token)
}

func (r *PostgresAttendancesRepository) findTicket(ctx context.Context, query string, args ...any) (*models.Ticket, error) {
	var t models.Ticket
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&t.Prefix, &t.Number, &t.Token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query ticket: %w", err)
	}
	return &t, nil
}

func (r *PostgresAttendancesRepository) list(ctx context.Context, query string, args ...any) ([]models.Attendance, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var out []models.Attendance
	var ids []string
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		out = append(out, *a)
		ids = append(ids, a.AttendanceID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}
	rows.Close()

	symptoms, err := r.loadSymptoms(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Symptoms = symptoms[out[i].AttendanceID]
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (*models.Attendance, error) {
	var a models.Attendance
	var level int
	var status string
	err := row.Scan(
		&a.AttendanceID,
		&a.PatientID,
		&a.AttendanceType,
		&a.Ticket.Prefix,
		&a.Ticket.Number,
		&a.Ticket.Token,
		&a.Vitals.Temperature,
		&a.Vitals.SystolicPressure,
		&a.Vitals.DiastolicPressure,
		&a.Vitals.Weight,
		&level,
		&status,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.PriorityLevel = models.PriorityLevel(level)
	a.Status = models.AttendanceStatus(status)
	return &a, nil
}
