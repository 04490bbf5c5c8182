// services/eligibility.go - diploma eligibility evaluation
package services

import (
	"fmt"

	"ravencode/models"
)

// EvaluateEligibility matches a student's achievements against a diploma
// template and produces the verdict. Pure: same inputs always yield the same
// verdict. A nil template and an empty achievement set are both ordinary
// not-eligible outcomes.
func EvaluateEligibility(achievements []models.AchievementRecord, template *models.DiplomaTemplate, courseID, diplomaType string) *models.EligibilityVerdict {
	if template == nil {
		return &models.EligibilityVerdict{
			Eligible:              false,
			CompletedRequirements: []models.CompletedRequirement{},
			MissingRequirements:   []models.DiplomaRequirement{},
			Message:               fmt.Sprintf("No se encontró plantilla para el diploma tipo '%s' del curso '%s'", diplomaType, courseID),
			Notes:                 "Contacta a un administrador para crear la plantilla del diploma",
		}
	}

	// Index by achievement name, last write wins - consistent with the
	// single-record-per-name invariant on submission.
	byName := make(map[string]models.AchievementRecord, len(achievements))
	for _, a := range achievements {
		if a.CourseID == courseID {
			byName[a.AchievementName] = a
		}
	}

	completed := []models.CompletedRequirement{}
	missing := []models.DiplomaRequirement{}
	var gradeSum float64
	var gradeCount int
	hours := 0

	for _, req := range template.Requirements {
		achievement, found := byName[req.AchievementName]
		if !found || !achievement.Achieved {
			if req.Mandatory {
				missing = append(missing, req)
			}
			continue
		}

		grade := PercentageToGrade(achievement.Percentage)
		if grade < req.MinimumGrade {
			// Present but below threshold still counts as unmet,
			// mandatory or not.
			missing = append(missing, req)
			continue
		}

		completed = append(completed, models.CompletedRequirement{
			AchievementName:    req.AchievementName,
			GradeObtained:      grade,
			MinimumGrade:       req.MinimumGrade,
			Satisfied:          true,
			CompletedAt:        achievement.DateEarned,
			OriginalPercentage: achievement.Percentage,
		})
		gradeSum += grade
		gradeCount++
		hours += achievement.Metadata.HoursOrDefault()
	}

	averageGrade := 0.0
	if gradeCount > 0 {
		averageGrade = gradeSum / float64(gradeCount)
	}

	percentComplete := 0.0
	if len(template.Requirements) > 0 {
		percentComplete = float64(len(completed)) / float64(len(template.Requirements)) * 100
	}

	missingMandatory := 0
	for _, req := range missing {
		if req.Mandatory {
			missingMandatory++
		}
	}

	// Both conditions gate eligibility: even with every mandatory item met,
	// a borderline average below the approval threshold blocks the diploma.
	eligible := missingMandatory == 0 && averageGrade >= models.ApprovalThreshold

	var message, notes string
	if eligible {
		message = fmt.Sprintf("¡Felicitaciones! Cumples con todos los requisitos para el diploma '%s'", template.Name)
		notes = fmt.Sprintf("Promedio: %.1f - %s", averageGrade, models.GradeLabel(averageGrade))
	} else {
		message = fmt.Sprintf("Aún no cumples los requisitos para el diploma '%s'", template.Name)
		if averageGrade < models.ApprovalThreshold {
			notes = fmt.Sprintf("Promedio insuficiente: %.1f (mínimo requerido: %.1f)", averageGrade, models.ApprovalThreshold)
		} else {
			notes = fmt.Sprintf("Faltan %d requisitos obligatorios", missingMandatory)
		}
	}

	return &models.EligibilityVerdict{
		Eligible:              eligible,
		Template:              template,
		CompletedRequirements: completed,
		MissingRequirements:   missing,
		AverageGrade:          averageGrade,
		HoursCompleted:        hours,
		PercentComplete:       percentComplete,
		Message:               message,
		Notes:                 notes,
	}
}
