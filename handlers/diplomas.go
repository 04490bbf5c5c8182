// handlers/diplomas.go - diploma endpoints
package handlers

import (
	"ravencode/models"
	"ravencode/services"
	"ravencode/utils"

	"github.com/gofiber/fiber/v2"
)

// GetDiplomaConfig exposes the grading-scale configuration.
func GetDiplomaConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"grade_scale": fiber.Map{
				"min":      models.GradeScaleMin,
				"max":      models.GradeScaleMax,
				"approval": models.ApprovalThreshold,
			},
			"diploma_types":    models.DiplomaTypes,
			"education_levels": models.EducationLevels,
			"modalities":       models.Modalities,
			"conversion_examples": fiber.Map{
				"100%": "5.0 (Excelente)",
				"95%":  "4.6 (Excelente)",
				"85%":  "4.0 (Sobresaliente)",
				"75%":  "3.5 (Bueno)",
				"65%":  "3.0 (Aceptable)",
				"55%":  "2.0 (Insuficiente)",
			},
		},
	})
}

// CheckEligibility reports whether a student qualifies for a diploma. A
// missing template is a not-eligible verdict, never a 404.
func CheckEligibility(c *fiber.Ctx) error {
	email := c.Params("email")
	courseID := c.Query("course_id")
	diplomaType := c.Query("diploma_type", "curso")

	if courseID == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Query parameter 'course_id' is required",
		})
	}
	if !models.ValidDiplomaType(diplomaType) {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid diploma type",
		})
	}

	verdict, err := diplomaService.CheckEligibility(c.Context(), email, courseID, diplomaType)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    verdict,
	})
}

// IssueDiploma issues a diploma when eligible (or forced). Not-eligible and
// already-issued are reported in the payload, not as HTTP errors.
func IssueDiploma(c *fiber.Ctx) error {
	var req models.DiplomaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   utils.FormatValidationErrors(err),
		})
	}

	result, err := diplomaService.IssueDiploma(c.Context(), req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": result.Issued,
		"data":    result,
	})
}

// GetStudentDiplomas lists a student's diplomas with computed expiry and
// international equivalences.
func GetStudentDiplomas(c *fiber.Ctx) error {
	email := c.Params("email")

	diplomas, err := diplomaService.GetStudentDiplomas(c.Context(), email)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"email":          email,
			"total_diplomas": len(diplomas),
			"diplomas":       diplomas,
		},
	})
}

// VerifyDiploma confirms a diploma's authenticity by verification code.
func VerifyDiploma(c *fiber.Ctx) error {
	code := c.Params("code")

	result, err := diplomaService.VerifyDiploma(c.Context(), code)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": result.Valid,
		"data":    result,
	})
}

// CreateDiplomaTemplate registers a diploma template for a course.
func CreateDiplomaTemplate(c *fiber.Ctx) error {
	var template models.DiplomaTemplate
	if err := c.BodyParser(&template); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(template); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   utils.FormatValidationErrors(err),
		})
	}

	created, err := diplomaService.CreateTemplate(c.Context(), template)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"message": "Plantilla de diploma '" + created.Name + "' creada",
		"data":    created,
	})
}

// GetDiplomaStats returns the system-wide diploma summary.
func GetDiplomaStats(c *fiber.Ctx) error {
	stats, err := diplomaService.GetStats(c.Context())
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
		"grade_scale": fiber.Map{
			"min":      models.GradeScaleMin,
			"max":      models.GradeScaleMax,
			"approval": models.ApprovalThreshold,
		},
	})
}

// DeleteDiploma removes one diploma by (email, id).
func DeleteDiploma(c *fiber.Ctx) error {
	email := c.Params("email")
	diplomaID := c.Params("diplomaId")

	deleted, err := diplomaService.DeleteDiploma(c.Context(), email, diplomaID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	if !deleted {
		return c.Status(404).JSON(fiber.Map{
			"success": false,
			"error":   "Diploma no encontrado",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Diploma eliminado",
	})
}

// ConvertGrade converts a percentage into the national grade scale.
func ConvertGrade(c *fiber.Ctx) error {
	percentage := c.QueryFloat("percentage", -1)
	if percentage < 0 || percentage > 100 {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Query parameter 'percentage' must be between 0 and 100",
		})
	}

	grade := services.PercentageToGrade(percentage)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"original_percentage":       percentage,
			"grade":                     grade,
			"qualitative_grade":         models.GradeLabel(grade),
			"international_equivalence": models.InternationalEquivalence(grade),
			"passing":                   services.IsPassing(grade),
		},
	})
}
