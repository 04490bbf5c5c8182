package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentageToGradeBands(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		expected   float64
	}{
		{"zero", 0, 1.0},
		{"low deficient", 25, 1.5},
		{"top of deficient band", 54.9, 2.0},
		{"bottom of insufficient band", 55, 2.0},
		{"mid insufficient", 60, 2.5},
		{"bottom of acceptable band", 65, 3.0},
		{"mid acceptable", 70, 3.2},
		{"bottom of good band", 75, 3.5},
		{"top of good band", 84, 3.9},
		{"bottom of outstanding band", 85, 4.0},
		{"mid outstanding", 90, 4.3},
		{"bottom of excellent band", 95, 4.6},
		{"perfect score", 100, 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PercentageToGrade(tt.percentage), 0.001)
		})
	}
}

func TestPercentageToGradeBoundaries(t *testing.T) {
	// 65% is the first passing percentage
	assert.Equal(t, 3.0, PercentageToGrade(65))
	assert.Less(t, PercentageToGrade(64.9), 3.0)

	// just under the excellent band stays below 4.6
	assert.Less(t, PercentageToGrade(94.9), 4.6)

	// output never leaves the national scale
	for p := 0.0; p <= 100; p += 0.5 {
		g := PercentageToGrade(p)
		assert.GreaterOrEqual(t, g, 1.0)
		assert.LessOrEqual(t, g, 5.0)
	}
}

func TestPercentageToGradeMonotonic(t *testing.T) {
	prev := PercentageToGrade(0)
	for p := 1.0; p <= 100; p++ {
		g := PercentageToGrade(p)
		assert.GreaterOrEqual(t, g, prev, "grade decreased at %.0f%%", p)
		prev = g
	}
}

func TestGradeLabel(t *testing.T) {
	assert.Equal(t, "Excelente", GradeLabel(5.0))
	assert.Equal(t, "Excelente", GradeLabel(4.6))
	assert.Equal(t, "Sobresaliente", GradeLabel(4.2))
	assert.Equal(t, "Bueno", GradeLabel(3.7))
	assert.Equal(t, "Aceptable", GradeLabel(3.0))
	assert.Equal(t, "Insuficiente", GradeLabel(2.5))
	assert.Equal(t, "Deficiente", GradeLabel(1.0))
	assert.Equal(t, "No Aplica", GradeLabel(0))
	assert.Equal(t, "No Aplica", GradeLabel(5.5))
}

func TestIsPassing(t *testing.T) {
	assert.True(t, IsPassing(3.0))
	assert.True(t, IsPassing(5.0))
	assert.False(t, IsPassing(2.9))
}
