// Package classifier maps vital signs, age and reported symptoms to a
// Manchester priority level. Every function here is pure and safe for
// concurrent use.
package classifier

import (
	"wisefido-triage/internal/models"
)

// SeverityClassifier combines the four signal evaluators; the most urgent signal wins.
type SeverityClassifier struct{}

// NewSeverityClassifier returns a classifier.
func NewSeverityClassifier() *SeverityClassifier {
	return &SeverityClassifier{}
}

// Classify returns the combined level and its wristband color. Inputs are
// expected to be range-checked by the caller.
func (c *SeverityClassifier) Classify(vitals models.VitalSigns, age int, symptoms []models.SymptomObservation) models.Classification {
	temperatureLevel := EvaluateTemperature(vitals.Temperature)
	pressureLevel := EvaluateBloodPressure(vitals.SystolicPressure, vitals.DiastolicPressure, age)
	weightLevel := EvaluateWeight(vitals.Weight, age)

	symptomLevel := models.LevelNonUrgent
	if len(symptoms) > 0 {
		symptomLevel = EvaluateSymptoms(symptoms)
	}

	level := models.MostUrgent(temperatureLevel, pressureLevel, weightLevel, symptomLevel)

	return models.Classification{
		Level: level,
		Color: level.Color(),
	}
}

// rule is one band of an ordered guard list.
type rule[T any] struct {
	level models.PriorityLevel
	match func(T) bool
}

// firstMatch walks rules top-down. Order matters: some bands overlap.
func firstMatch[T any](rules []rule[T], in T) models.PriorityLevel {
	for _, r := range rules {
		if r.match(in) {
			return r.level
		}
	}
	return models.LevelNonUrgent
}

// between reports lo <= v < hi.
func between(v, lo, hi float64) bool {
	return v >= lo && v < hi
}

// within reports lo <= v <= hi.
func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}
