package models

import "fmt"

// PriorityLevel is the Manchester urgency band. Lower is more urgent.
type PriorityLevel int

const (
	LevelEmergent   PriorityLevel = 1
	LevelVeryUrgent PriorityLevel = 2
	LevelUrgent     PriorityLevel = 3
	LevelLessUrgent PriorityLevel = 4
	LevelNonUrgent  PriorityLevel = 5
)

// Valid reports whether l is one of the five protocol levels.
func (l PriorityLevel) Valid() bool {
	return l >= LevelEmergent && l <= LevelNonUrgent
}

func (l PriorityLevel) String() string {
	switch l {
	case LevelEmergent:
		return "emergent"
	case LevelVeryUrgent:
		return "very_urgent"
	case LevelUrgent:
		return "urgent"
	case LevelLessUrgent:
		return "less_urgent"
	case LevelNonUrgent:
		return "non_urgent"
	}
	return fmt.Sprintf("PriorityLevel(%d)", int(l))
}

// Color returns the wristband color for l. Levels outside 1..5 are a
// programming error and panic.
func (l PriorityLevel) Color() ColorMarker {
	switch l {
	case LevelEmergent:
		return ColorRed
	case LevelVeryUrgent:
		return ColorOrange
	case LevelUrgent:
		return ColorYellow
	case LevelLessUrgent:
		return ColorGreen
	case LevelNonUrgent:
		return ColorBlue
	}
	panic(fmt.Sprintf("models: no color for priority level %d", int(l)))
}

// MostUrgent returns the numerically smallest level.
func MostUrgent(first PriorityLevel, rest ...PriorityLevel) PriorityLevel {
	m := first
	for _, l := range rest {
		if l < m {
			m = l
		}
	}
	return m
}

// ColorMarker is the wristband color shown to staff.
type ColorMarker string

const (
	ColorRed    ColorMarker = "red"
	ColorOrange ColorMarker = "orange"
	ColorYellow ColorMarker = "yellow"
	ColorGreen  ColorMarker = "green"
	ColorBlue   ColorMarker = "blue"
)

// Intensity is how strongly the patient currently experiences a symptom.
type Intensity string

const (
	IntensityMild       Intensity = "mild"
	IntensityModerate   Intensity = "moderate"
	IntensitySevere     Intensity = "severe"
	IntensityVerySevere Intensity = "very_severe"
)

// Valid reports whether i is a known intensity.
func (i Intensity) Valid() bool {
	switch i {
	case IntensityMild, IntensityModerate, IntensitySevere, IntensityVerySevere:
		return true
	}
	return false
}

// VitalSigns is the measurement snapshot taken at triage.
type VitalSigns struct {
	Temperature       float64 `json:"temperature"`        // °C
	SystolicPressure  float64 `json:"systolic_pressure"`  // mmHg
	DiastolicPressure float64 `json:"diastolic_pressure"` // mmHg
	Weight            float64 `json:"weight"`             // kg
}

// SymptomObservation pairs a symptom's intrinsic severity with the reported intensity.
type SymptomObservation struct {
	BaseSeverity PriorityLevel `json:"base_severity"`
	Intensity    Intensity     `json:"intensity"`
}

// Classification is the classifier output.
type Classification struct {
	Level PriorityLevel `json:"priority_level"`
	Color ColorMarker   `json:"color"`
}
