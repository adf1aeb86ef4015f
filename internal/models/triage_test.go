package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityLevel_Color(t *testing.T) {
	assert.Equal(t, ColorRed, LevelEmergent.Color())
	assert.Equal(t, ColorOrange, LevelVeryUrgent.Color())
	assert.Equal(t, ColorYellow, LevelUrgent.Color())
	assert.Equal(t, ColorGreen, LevelLessUrgent.Color())
	assert.Equal(t, ColorBlue, LevelNonUrgent.Color())
}

func TestPriorityLevel_ColorPanicsOutOfRange(t *testing.T) {
	assert.Panics(t, func() { _ = PriorityLevel(0).Color() })
	assert.Panics(t, func() { _ = PriorityLevel(6).Color() })
}

func TestPriorityLevel_Valid(t *testing.T) {
	assert.False(t, PriorityLevel(0).Valid())
	assert.True(t, LevelEmergent.Valid())
	assert.True(t, LevelNonUrgent.Valid())
	assert.False(t, PriorityLevel(6).Valid())
}

func TestMostUrgent(t *testing.T) {
	assert.Equal(t, LevelNonUrgent, MostUrgent(LevelNonUrgent))
	assert.Equal(t, LevelVeryUrgent, MostUrgent(LevelNonUrgent, LevelUrgent, LevelVeryUrgent, LevelLessUrgent))
	assert.Equal(t, LevelEmergent, MostUrgent(LevelEmergent, LevelNonUrgent))
}

func TestIntensity_Valid(t *testing.T) {
	for _, i := range []Intensity{IntensityMild, IntensityModerate, IntensitySevere, IntensityVerySevere} {
		assert.True(t, i.Valid(), string(i))
	}
	assert.False(t, Intensity("grave").Valid())
	assert.False(t, Intensity("").Valid())
}
