package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisefido-triage/internal/models"
)

func TestMemoryAttendancesRepo_DuplicateTicket(t *testing.T) {
	repo := NewMemoryAttendancesRepo()
	ctx := context.Background()

	a := newAttendance()
	require.NoError(t, repo.CreateAttendance(ctx, a))

	b := newAttendance()
	b.Ticket = a.Ticket
	assert.ErrorIs(t, repo.CreateAttendance(ctx, b), ErrDuplicateTicket)
}

func TestMemoryAttendancesRepo_TicketLookups(t *testing.T) {
	repo := NewMemoryAttendancesRepo()
	ctx := context.Background()

	got, err := repo.FindMostRecentTicket(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)

	base := time.Now()
	for i, n := range []int{3, 1, 2} {
		a := newAttendance()
		a.Ticket = models.Ticket{Prefix: "A", Number: n, Token: []string{"A003", "A001", "A002"}[i]}
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.CreateAttendance(ctx, a))
	}

	// newest by created_at, not the highest number
	got, err = repo.FindMostRecentTicket(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "A002", got.Token)

	found, err := repo.FindTicketByToken(ctx, "A003")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 3, found.Number)

	missing, err := repo.FindTicketByToken(ctx, "A999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryAttendancesRepo_Lists(t *testing.T) {
	repo := NewMemoryAttendancesRepo()
	ctx := context.Background()
	patientID := uuid.New().String()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		a := newAttendance()
		a.PatientID = patientID
		a.Ticket = models.Ticket{Prefix: "A", Number: i + 1, Token: "A00" + string(rune('1'+i))}
		a.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.CreateAttendance(ctx, a))
	}

	byPatient, err := repo.ListAttendancesByPatient(ctx, patientID)
	require.NoError(t, err)
	require.Len(t, byPatient, 3)
	assert.Equal(t, "A003", byPatient[0].Ticket.Token)

	between, err := repo.ListAttendancesBetween(ctx, base, base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "A001", between[0].Ticket.Token)
	assert.Equal(t, "A002", between[1].Ticket.Token)

	_, err = repo.GetAttendance(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAttendancesRepo_ReadsDoNotShareSymptoms(t *testing.T) {
	repo := NewMemoryAttendancesRepo()
	ctx := context.Background()

	a := newAttendance()
	a.CreatedAt = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.CreateAttendance(ctx, a))
	want := a.Symptoms[0]

	got, err := repo.GetAttendance(ctx, a.AttendanceID)
	require.NoError(t, err)
	got.Symptoms[0].Intensity = models.IntensityVerySevere

	byPatient, err := repo.ListAttendancesByPatient(ctx, a.PatientID)
	require.NoError(t, err)
	require.Len(t, byPatient, 1)
	byPatient[0].Symptoms[0].SymptomID = "changed"

	between, err := repo.ListAttendancesBetween(ctx, a.CreatedAt, a.CreatedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 1)
	between[0].Symptoms[0].Intensity = models.IntensityMild

	again, err := repo.GetAttendance(ctx, a.AttendanceID)
	require.NoError(t, err)
	require.Len(t, again.Symptoms, 1)
	assert.Equal(t, want, again.Symptoms[0])
}

func TestMemoryPatientsRepo(t *testing.T) {
	repo := NewMemoryPatientsRepo()
	ctx := context.Background()

	p := &models.Patient{PatientID: uuid.New().String(), CPF: "52998224725", Name: "Ana"}
	require.NoError(t, repo.CreatePatient(ctx, p))

	dup := &models.Patient{PatientID: uuid.New().String(), CPF: "52998224725", Name: "Other"}
	assert.ErrorIs(t, repo.CreatePatient(ctx, dup), ErrDuplicateCPF)

	got, err := repo.GetPatientByCPF(ctx, "52998224725")
	require.NoError(t, err)
	assert.Equal(t, p.PatientID, got.PatientID)

	_, err = repo.GetPatient(ctx, dup.PatientID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemorySymptomsRepo_DefaultCatalog(t *testing.T) {
	repo := NewMemorySymptomsRepo(DefaultSymptomCatalog)
	ctx := context.Background()

	all, err := repo.ListSymptoms(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultSymptomCatalog))

	cats, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Allergic", "Cardiovascular", "Gastrointestinal", "General",
		"Neurological", "Respiratory", "Trauma", "Urinary",
	}, cats)

	resp, err := repo.ListSymptoms(ctx, "Respiratory")
	require.NoError(t, err)
	require.Len(t, resp, 6)
	for i := 1; i < len(resp); i++ {
		assert.LessOrEqual(t, resp[i-1].BaseSeverity, resp[i].BaseSeverity)
	}

	got, err := repo.GetSymptom(ctx, resp[0].SymptomID)
	require.NoError(t, err)
	assert.Equal(t, resp[0].Name, got.Name)

	// IDs are stable across instances.
	again := NewMemorySymptomsRepo(DefaultSymptomCatalog)
	_, err = again.GetSymptom(ctx, resp[0].SymptomID)
	assert.NoError(t, err)
}

func TestMemorySymptomsRepo_InactiveHidden(t *testing.T) {
	repo := NewMemorySymptomsRepo([]models.Symptom{
		{SymptomID: "s1", Name: "Old", Category: "General", BaseSeverity: models.LevelUrgent, Active: false},
		{SymptomID: "s2", Name: "New", Category: "General", BaseSeverity: models.LevelUrgent, Active: true},
	})

	list, err := repo.ListSymptoms(context.Background(), "General")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s2", list[0].SymptomID)

	// still resolvable by ID
	s, err := repo.GetSymptom(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, s.Active)
}
