package models

import (
	"time"
)

// Ticket is a queue token: Prefix + Number zero-padded (e.g. "A007").
type Ticket struct {
	Prefix string `json:"prefix"`
	Number int    `json:"number"`
	Token  string `json:"token"`
}

// AttendanceStatus tracks where a triaged patient is in the queue.
type AttendanceStatus string

const (
	StatusWaiting    AttendanceStatus = "waiting"
	StatusInProgress AttendanceStatus = "in_progress"
	StatusFinished   AttendanceStatus = "finished"
)

// Attendance is one triage event (attendances table).
type Attendance struct {
	AttendanceID   string              `json:"attendance_id" db:"attendance_id"`
	PatientID      string              `json:"patient_id" db:"patient_id"`
	AttendanceType string              `json:"attendance_type" db:"attendance_type"`
	Ticket         Ticket              `json:"ticket"`
	Vitals         VitalSigns          `json:"vital_signs"`
	PriorityLevel  PriorityLevel       `json:"priority_level" db:"priority_level"`
	Status         AttendanceStatus    `json:"status" db:"status"`
	Symptoms       []AttendanceSymptom `json:"symptoms,omitempty"`
	CreatedAt      time.Time           `json:"created_at" db:"created_at"`
}

// Color is derived from the stored level.
func (a *Attendance) Color() ColorMarker {
	return a.PriorityLevel.Color()
}

// AttendanceSymptom is a reported symptom on an attendance (attendance_symptoms table).
type AttendanceSymptom struct {
	SymptomID string    `json:"symptom_id" db:"symptom_id"`
	Intensity Intensity `json:"intensity" db:"intensity"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
}

// Patient (patients table). CPF is unique.
type Patient struct {
	PatientID string    `json:"patient_id" db:"patient_id"`
	CPF       string    `json:"cpf" db:"cpf"`
	Name      string    `json:"name" db:"name"`
	BirthDate time.Time `json:"birth_date" db:"birth_date"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Address   *string   `json:"address,omitempty" db:"address"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Symptom is a catalog entry (symptoms table).
type Symptom struct {
	SymptomID    string        `json:"symptom_id" db:"symptom_id"`
	Name         string        `json:"name" db:"name"`
	Description  string        `json:"description" db:"description"`
	Category     string        `json:"category" db:"category"`
	BaseSeverity PriorityLevel `json:"base_severity" db:"base_severity"`
	Active       bool          `json:"active" db:"active"`
}

// TriageEvent is published after an attendance is stored.
type TriageEvent struct {
	AttendanceID  string        `json:"attendance_id"`
	PatientID     string        `json:"patient_id"`
	Ticket        string        `json:"ticket"`
	PriorityLevel PriorityLevel `json:"priority_level"`
	Color         ColorMarker   `json:"color"`
	CreatedAt     time.Time     `json:"created_at"`
}
