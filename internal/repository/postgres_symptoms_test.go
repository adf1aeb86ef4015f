package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wisefido-triage/internal/models"
)

func setupMockSymptomsDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresSymptomsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return db, mock, NewPostgresSymptomsRepository(db, zap.NewNop())
}

var symptomRowColumns = []string{"symptom_id", "name", "description", "category", "base_severity", "active"}

func TestListSymptoms_ByCategory(t *testing.T) {
	db, mock, repo := setupMockSymptomsDB(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE active = true AND category = \$1 ORDER BY category, base_severity, name`).
		WithArgs("Respiratory").
		WillReturnRows(sqlmock.NewRows(symptomRowColumns).
			AddRow(uuid.New().String(), "Coughing blood", "Hemoptysis", "Respiratory", 1, true).
			AddRow(uuid.New().String(), "Dry cough", nil, "Respiratory", 4, true))

	got, err := repo.ListSymptoms(context.Background(), "Respiratory")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.LevelEmergent, got[0].BaseSeverity)
	assert.Equal(t, "", got[1].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListSymptoms_All(t *testing.T) {
	db, mock, repo := setupMockSymptomsDB(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE active = true ORDER BY`).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(symptomRowColumns))

	got, err := repo.ListSymptoms(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSymptom_NotFound(t *testing.T) {
	db, mock, repo := setupMockSymptomsDB(t)
	defer db.Close()

	mock.ExpectQuery(`FROM symptoms`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetSymptom(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListCategories(t *testing.T) {
	db, mock, repo := setupMockSymptomsDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT DISTINCT category`).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).AddRow("Allergic").AddRow("Trauma"))

	got, err := repo.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Allergic", "Trauma"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
