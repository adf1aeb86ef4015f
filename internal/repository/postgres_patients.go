package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wisefido-triage/internal/models"

	"go.uber.org/zap"
)

type PostgresPatientsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresPatientsRepository(db *sql.DB, logger *zap.Logger) *PostgresPatientsRepository {
	return &PostgresPatientsRepository{db: db, logger: logger}
}

func (r *PostgresPatientsRepository) CreatePatient(ctx context.Context, p *models.Patient) error {
	if p.PatientID == "" {
		return fmt.Errorf("patient_id is required")
	}
	if p.CPF == "" {
		return fmt.Errorf("cpf is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO patients (patient_id, cpf, name, birth_date, phone, address, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.PatientID, p.CPF, p.Name, p.BirthDate, p.Phone, p.Address, p.Email, p.CreatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintPatientCPF {
			return ErrDuplicateCPF
		}
		return fmt.Errorf("failed to insert patient: %w", err)
	}
	return nil
}

func (r *PostgresPatientsRepository) GetPatient(ctx context.Context, patientID string) (*models.Patient, error) {
	return r.get(ctx, `WHERE patient_id = $1`, patientID)
}

func (r *PostgresPatientsRepository) GetPatientByCPF(ctx context.Context, cpf string) (*models.Patient, error) {
	return r.get(ctx, `WHERE cpf = $1`, cpf)
}

func (r *PostgresPatientsRepository) get(ctx context.Context, where string, arg any) (*models.Patient, error) {
	var p models.Patient
	var phone, address, email sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT patient_id::text, cpf, name, birth_date, phone, address, email, created_at
		FROM patients `+where, arg,
	).Scan(&p.PatientID, &p.CPF, &p.Name, &p.BirthDate, &phone, &address, &email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	p.Phone = nullString(phone)
	p.Address = nullString(address)
	p.Email = nullString(email)
	return &p, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
