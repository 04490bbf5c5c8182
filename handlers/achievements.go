// handlers/achievements.go - achievement endpoints
package handlers

import (
	"ravencode/models"
	"ravencode/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitAchievement records a score for a student's achievement, creating
// the student on first write.
func SubmitAchievement(c *fiber.Ctx) error {
	var req models.SubmitAchievementRequest
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

	result, err := achievementService.SubmitAchievement(c.Context(), req)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// BulkUpdateAchievements submits several achievements in one request.
func BulkUpdateAchievements(c *fiber.Ctx) error {
	var req models.BulkUpdateRequest
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

	results := achievementService.BulkUpdate(c.Context(), req)
	return c.JSON(fiber.Map{
		"success": true,
		"results": results,
	})
}

// GetStudentAchievements returns all achievements of a student.
func GetStudentAchievements(c *fiber.Ctx) error {
	email := c.Params("email")

	student, err := achievementService.GetStudent(c.Context(), email)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    student,
	})
}

// GetAchievementStats returns the per-student summary.
func GetAchievementStats(c *fiber.Ctx) error {
	email := c.Params("email")

	stats, err := achievementService.GetAchievementStats(c.Context(), email)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// DeleteAchievement removes one achievement record from a student.
func DeleteAchievement(c *fiber.Ctx) error {
	email := c.Params("email")
	name := c.Params("name")

	if err := achievementService.DeleteAchievement(c.Context(), email, name); err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Achievement deleted",
	})
}

// GetCourseAchievements aggregates achievement earn rates across a course.
func GetCourseAchievements(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	summaries, err := achievementService.GetCourseAchievements(c.Context(), courseID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summaries,
	})
}

// CreateAchievementTemplate registers a master-list achievement definition.
func CreateAchievementTemplate(c *fiber.Ctx) error {
	var template models.AchievementTemplate
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

	created, err := templateService.CreateTemplate(c.Context(), template)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"data":    created,
	})
}

// ListCourseAchievementTemplates returns the active definitions of a course.
func ListCourseAchievementTemplates(c *fiber.Ctx) error {
	courseID := c.Params("courseId")

	templates, err := templateService.ListForCourse(c.Context(), courseID)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    templates,
	})
}

// SearchAchievementTemplates matches definitions by name, title or
// description.
func SearchAchievementTemplates(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Query parameter 'q' is required",
		})
	}

	templates, err := templateService.SearchTemplates(c.Context(), query, c.Query("course_id"))
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    templates,
	})
}

// DeactivateAchievementTemplate soft-deletes a definition.
func DeactivateAchievementTemplate(c *fiber.Ctx) error {
	courseID := c.Params("courseId")
	name := c.Params("name")

	removed, err := templateService.DeactivateTemplate(c.Context(), courseID, name)
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"deactivated": removed,
	})
}

// GetGroupedAchievementTemplates buckets active definitions per course.
func GetGroupedAchievementTemplates(c *fiber.Ctx) error {
	groups, err := templateService.GroupedByCourse(c.Context())
	if err != nil {
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_courses": len(groups),
			"courses":       groups,
		},
	})
}
