package classifier

import (
	"wisefido-triage/internal/models"
)

var temperatureRules = []rule[float64]{
	{models.LevelEmergent, func(t float64) bool { return t > 39.5 || t < 35 }},
	{models.LevelVeryUrgent, func(t float64) bool { return within(t, 38.5, 39.5) || between(t, 35, 35.5) }},
	{models.LevelUrgent, func(t float64) bool { return between(t, 37.8, 38.5) }},
	{models.LevelLessUrgent, func(t float64) bool { return between(t, 37.5, 37.8) || between(t, 35.5, 36) }},
}

// EvaluateTemperature grades body temperature in °C.
func EvaluateTemperature(temperature float64) models.PriorityLevel {
	return firstMatch(temperatureRules, temperature)
}

type bloodPressure struct {
	systolic  float64
	diastolic float64
}

var bloodPressureRules = []rule[bloodPressure]{
	{models.LevelEmergent, func(p bloodPressure) bool {
		return p.systolic > 180 || p.systolic < 90 || p.diastolic > 120 || p.diastolic < 60
	}},
	{models.LevelVeryUrgent, func(p bloodPressure) bool {
		return within(p.systolic, 160, 180) || within(p.systolic, 90, 100) || within(p.diastolic, 100, 120)
	}},
	{models.LevelUrgent, func(p bloodPressure) bool {
		return between(p.systolic, 140, 160) || between(p.diastolic, 90, 100)
	}},
	{models.LevelLessUrgent, func(p bloodPressure) bool {
		return between(p.systolic, 130, 140) || between(p.systolic, 100, 110)
	}},
}

// EvaluateBloodPressure grades systolic/diastolic pressure in mmHg.
// age is accepted for age-adjusted norms but no threshold uses it yet.
func EvaluateBloodPressure(systolic, diastolic float64, age int) models.PriorityLevel {
	return firstMatch(bloodPressureRules, bloodPressure{systolic: systolic, diastolic: diastolic})
}

// Adults have no level-4 weight band.
var adultWeightRules = []rule[float64]{
	{models.LevelEmergent, func(w float64) bool { return w < 40 || w > 200 }},
	{models.LevelVeryUrgent, func(w float64) bool { return between(w, 40, 45) || within(w, 180, 200) }},
	{models.LevelUrgent, func(w float64) bool { return between(w, 45, 50) || between(w, 150, 180) }},
}

// pediatricFloor is the minimum weight for ages [minAge, maxAge).
type pediatricFloor struct {
	minAge, maxAge int
	minWeight      float64
}

var pediatricFloors = []pediatricFloor{
	{0, 2, 5},
	{2, 5, 10},
	{5, 12, 20},
	{12, 18, 35},
}

// EvaluateWeight grades body weight in kg by age group. Under-18s only have
// an emergent floor per age bracket; everything else is non-urgent.
func EvaluateWeight(weight float64, age int) models.PriorityLevel {
	if age >= 18 {
		return firstMatch(adultWeightRules, weight)
	}

	for _, f := range pediatricFloors {
		if age >= f.minAge && age < f.maxAge && weight < f.minWeight {
			return models.LevelEmergent
		}
	}
	return models.LevelNonUrgent
}
