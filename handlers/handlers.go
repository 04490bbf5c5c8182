// handlers/handlers.go - shared handler wiring
package handlers

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"ravencode/models"
	"ravencode/services"
)

var (
	achievementService *services.AchievementService
	diplomaService     *services.DiplomaService
	templateService    *services.TemplateService
)

// InitHandlers wires the services the endpoint functions use.
func InitHandlers(db *mongo.Database) {
	achievementService = services.NewAchievementService(db)
	diplomaService = services.NewDiplomaService(db, achievementService)
	templateService = services.NewTemplateService(db)
}

// statusForError maps the service error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidData):
		return 400
	case errors.Is(err, models.ErrStudentNotFound),
		errors.Is(err, models.ErrAchievementNotFound),
		errors.Is(err, models.ErrTemplateNotFound):
		return 404
	case errors.Is(err, models.ErrDatabaseUnavailable):
		return 503
	default:
		return 500
	}
}
