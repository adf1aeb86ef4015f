package repository

import (
	"context"
	"sync"

	"wisefido-triage/internal/models"
)

// MemoryPatientsRepo backs patients when DB is disabled.
type MemoryPatientsRepo struct {
	mu       sync.RWMutex
	patients map[string]models.Patient // patientID -> Patient
	byCPF    map[string]string         // cpf -> patientID
}

func NewMemoryPatientsRepo() *MemoryPatientsRepo {
	return &MemoryPatientsRepo{
		patients: map[string]models.Patient{},
		byCPF:    map[string]string{},
	}
}

func (r *MemoryPatientsRepo) CreatePatient(_ context.Context, p *models.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCPF[p.CPF]; exists {
		return ErrDuplicateCPF
	}
	r.patients[p.PatientID] = *p
	r.byCPF[p.CPF] = p.PatientID
	return nil
}

func (r *MemoryPatientsRepo) GetPatient(_ context.Context, patientID string) (*models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryPatientsRepo) GetPatientByCPF(_ context.Context, cpf string) (*models.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCPF[cpf]
	if !ok {
		return nil, ErrNotFound
	}
	p := r.patients[id]
	return &p, nil
}
