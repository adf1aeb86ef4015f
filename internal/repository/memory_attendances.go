package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"wisefido-triage/internal/models"
)

// MemoryAttendancesRepo backs attendances when DB is disabled.
type MemoryAttendancesRepo struct {
	mu          sync.RWMutex
	attendances map[string]models.Attendance // attendanceID -> Attendance
	byTicket    map[string]string            // token -> attendanceID
}

func NewMemoryAttendancesRepo() *MemoryAttendancesRepo {
	return &MemoryAttendancesRepo{
		attendances: map[string]models.Attendance{},
		byTicket:    map[string]string{},
	}
}

func (r *MemoryAttendancesRepo) CreateAttendance(_ context.Context, a *models.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byTicket[a.Ticket.Token]; taken {
		return ErrDuplicateTicket
	}
	r.attendances[a.AttendanceID] = cloneAttendance(*a)
	r.byTicket[a.Ticket.Token] = a.AttendanceID
	return nil
}

func (r *MemoryAttendancesRepo) GetAttendance(_ context.Context, attendanceID string) (*models.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.attendances[attendanceID]
	if !ok {
		return nil, ErrNotFound
	}
	a = cloneAttendance(a)
	return &a, nil
}

func (r *MemoryAttendancesRepo) ListAttendancesByPatient(_ context.Context, patientID string) ([]models.Attendance, error) {
	out := r.filter(func(a models.Attendance) bool { return a.PatientID == patientID })
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out, nil
}

func (r *MemoryAttendancesRepo) ListAttendancesBetween(_ context.Context, from, to time.Time) ([]models.Attendance, error) {
	out := r.filter(func(a models.Attendance) bool {
		return !a.CreatedAt.Before(from) && a.CreatedAt.Before(to)
	})
	sort.Slice(out, func(i, j int) bool { return newer(out[j], out[i]) })
	return out, nil
}

func (r *MemoryAttendancesRepo) FindMostRecentTicket(_ context.Context) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Attendance
	for _, a := range r.attendances {
		if latest == nil || newer(a, *latest) {
			a := a
			latest = &a
		}
	}
	if latest == nil {
		return nil, nil
	}
	t := latest.Ticket
	return &t, nil
}

func (r *MemoryAttendancesRepo) FindTicketByToken(_ context.Context, token string) (*models.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byTicket[token]
	if !ok {
		return nil, nil
	}
	t := r.attendances[id].Ticket
	return &t, nil
}

func (r *MemoryAttendancesRepo) filter(keep func(models.Attendance) bool) []models.Attendance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Attendance, 0)
	for _, a := range r.attendances {
		if keep(a) {
			out = append(out, cloneAttendance(a))
		}
	}
	return out
}

// cloneAttendance detaches the symptom slice from the caller's copy.
func cloneAttendance(a models.Attendance) models.Attendance {
	a.Symptoms = append([]models.AttendanceSymptom(nil), a.Symptoms...)
	return a
}

// newer orders by created_at, then ticket number, matching the SQL ORDER BY.
func newer(a, b models.Attendance) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.Ticket.Number > b.Ticket.Number
}
