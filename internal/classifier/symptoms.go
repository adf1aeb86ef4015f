package classifier

import (
	"wisefido-triage/internal/models"
)

// AdjustForIntensity shifts a symptom's base severity by how strongly it is felt,
// clamped to 1..5. Unknown intensities leave the base unchanged.
func AdjustForIntensity(base models.PriorityLevel, intensity models.Intensity) models.PriorityLevel {
	adjusted := base
	switch intensity {
	case models.IntensityVerySevere:
		adjusted = base - 2
	case models.IntensitySevere:
		adjusted = base - 1
	case models.IntensityMild:
		adjusted = base + 1
	}

	if adjusted < models.LevelEmergent {
		return models.LevelEmergent
	}
	if adjusted > models.LevelNonUrgent {
		return models.LevelNonUrgent
	}
	return adjusted
}

// EvaluateSymptoms returns the most urgent adjusted level, or non-urgent for none.
func EvaluateSymptoms(symptoms []models.SymptomObservation) models.PriorityLevel {
	mostCritical := models.LevelNonUrgent
	for _, s := range symptoms {
		mostCritical = models.MostUrgent(mostCritical, AdjustForIntensity(s.BaseSeverity, s.Intensity))
	}
	return mostCritical
}
