package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"wisefido-triage/internal/models"

	"go.uber.org/zap"
)

// PostgresSymptomsRepository reads the symptom catalog. Writes happen through
// the seed migration only.
type PostgresSymptomsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresSymptomsRepository(db *sql.DB, logger *zap.Logger) *PostgresSymptomsRepository {
	return &PostgresSymptomsRepository{db: db, logger: logger}
}

func (r *PostgresSymptomsRepository) GetSymptom(ctx context.Context, symptomID string) (*models.Symptom, error) {
	var s models.Symptom
	var level int
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT symptom_id::text, name, description, category, base_severity, active
		FROM symptoms
		WHERE symptom_id = $1`,
		symptomID,
	).Scan(&s.SymptomID, &s.Name, &description, &s.Category, &level, &s.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get symptom: %w", err)
	}
	s.Description = description.String
	s.BaseSeverity = models.PriorityLevel(level)
	return &s, nil
}

func (r *PostgresSymptomsRepository) ListSymptoms(ctx context.Context, category string) ([]models.Symptom, error) {
	query := `
		SELECT symptom_id::text, name, description, category, base_severity, active
		FROM symptoms
		WHERE active = true`
	args := []any{}
	if category != "" {
		query += ` AND category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, base_severity, name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}
	defer rows.Close()

	var out []models.Symptom
	for rows.Next() {
		var s models.Symptom
		var level int
		var description sql.NullString
		if err := rows.Scan(&s.SymptomID, &s.Name, &description, &s.Category, &level, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan symptom: %w", err)
		}
		s.Description = description.String
		s.BaseSeverity = models.PriorityLevel(level)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate symptoms: %w", err)
	}
	return out, nil
}

func (r *PostgresSymptomsRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT category
		FROM symptoms
		WHERE active = true
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptom categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}
