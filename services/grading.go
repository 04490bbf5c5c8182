// services/grading.go - percentage to national grade conversion
package services

import (
	"math"

	"ravencode/models"
)

// PercentageToGrade converts a percentage score (0-100) to the national
// 1.0-5.0 scale.
//
// Standard mapping:
//   - 95-100% = 4.6-5.0 (Excelente)
//   - 85-94%  = 4.0-4.5 (Sobresaliente)
//   - 75-84%  = 3.5-3.9 (Bueno)
//   - 65-74%  = 3.0-3.4 (Aceptable)
//   - 55-64%  = 2.0-2.9 (Insuficiente)
//   - <55%    = 1.0-1.9 (Deficiente)
func PercentageToGrade(percentage float64) float64 {
	switch {
	case percentage >= 95:
		return round1(4.6 + (percentage-95)*0.08)
	case percentage >= 85:
		return round1(4.0 + (percentage-85)*0.05)
	case percentage >= 75:
		return round1(3.5 + (percentage-75)*0.04)
	case percentage >= 65:
		return round1(3.0 + (percentage-65)*0.04)
	case percentage >= 55:
		return round1(2.0 + (percentage-55)*0.09)
	default:
		return round1(1.0 + percentage*0.018)
	}
}

// GradeLabel returns the qualitative label for a national grade.
func GradeLabel(grade float64) string {
	return models.GradeLabel(grade)
}

// IsPassing reports whether a grade meets the approval threshold.
func IsPassing(grade float64) bool {
	return grade >= models.ApprovalThreshold
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
