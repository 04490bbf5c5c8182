// services/template_service.go - achievement master list management
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ravencode/database"
	"ravencode/models"
)

// TemplateService manages the master list of achievements students can
// earn, separate from individual student records.
type TemplateService struct {
	templates *mongo.Collection
}

func NewTemplateService(db *mongo.Database) *TemplateService {
	return &TemplateService{
		templates: db.Collection(database.AchievementTemplatesCollection),
	}
}

// CreateTemplate registers a new achievement definition, unique per
// (course_id, achievement_name).
func (s *TemplateService) CreateTemplate(ctx context.Context, template models.AchievementTemplate) (*models.AchievementTemplate, error) {
	if template.MaxPoints <= 0 {
		template.MaxPoints = 100
	}

	now := time.Now()
	template.ID = uuid.New().String()
	template.Active = true
	template.CreatedAt = now
	template.UpdatedAt = now

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	if _, err := s.templates.InsertOne(ctx, template); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: achievement %s already exists for course %s",
				models.ErrInvalidData, template.AchievementName, template.CourseID)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return &template, nil
}

// ListForCourse returns the active achievement definitions of a course.
func (s *TemplateService) ListForCourse(ctx context.Context, courseID string) ([]models.AchievementTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	cursor, err := s.templates.Find(ctx, bson.M{"course_id": courseID, "active": true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	templates := []models.AchievementTemplate{}
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return templates, nil
}

// GetTemplate fetches one active achievement definition.
func (s *TemplateService) GetTemplate(ctx context.Context, courseID, achievementName string) (*models.AchievementTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	var template models.AchievementTemplate
	err := s.templates.FindOne(ctx, bson.M{
		"course_id":        courseID,
		"achievement_name": achievementName,
		"active":           true,
	}).Decode(&template)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s for course %s", models.ErrTemplateNotFound, achievementName, courseID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return &template, nil
}

// UpdateTemplate applies field updates to an achievement definition.
// Identity fields are never updatable.
func (s *TemplateService) UpdateTemplate(ctx context.Context, courseID, achievementName string, updates bson.M) (*models.AchievementTemplate, error) {
	for _, field := range []string{"achievement_name", "course_id", "id", "_id", "created_at"} {
		delete(updates, field)
	}
	updates["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	res, err := s.templates.UpdateOne(ctx,
		bson.M{"course_id": courseID, "achievement_name": achievementName, "active": true},
		bson.M{"$set": updates},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: %s for course %s", models.ErrTemplateNotFound, achievementName, courseID)
	}

	return s.GetTemplate(ctx, courseID, achievementName)
}

// DeactivateTemplate soft-deletes an achievement definition.
func (s *TemplateService) DeactivateTemplate(ctx context.Context, courseID, achievementName string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	res, err := s.templates.UpdateOne(ctx,
		bson.M{"course_id": courseID, "achievement_name": achievementName, "active": true},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return res.ModifiedCount > 0, nil
}

// CourseTemplateGroup is one bucket of the grouped-by-course aggregation.
type CourseTemplateGroup struct {
	CourseID       string                       `bson:"_id" json:"course_id"`
	TotalTemplates int                          `bson:"total_templates" json:"total_templates"`
	Achievements   []models.AchievementTemplate `bson:"achievements" json:"achievements"`
}

// GroupedByCourse buckets the active achievement definitions per course.
func (s *TemplateService) GroupedByCourse(ctx context.Context) ([]CourseTemplateGroup, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"active": true}}},
		{{Key: "$group", Value: bson.M{
			"_id":             "$course_id",
			"total_templates": bson.M{"$sum": 1},
			"achievements":    bson.M{"$push": "$$ROOT"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.templates.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	groups := []CourseTemplateGroup{}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return groups, nil
}

// SearchTemplates matches achievement definitions by name, title or
// description, optionally restricted to a course.
func (s *TemplateService) SearchTemplates(ctx context.Context, query, courseID string) ([]models.AchievementTemplate, error) {
	filter := bson.M{
		"active": true,
		"$or": bson.A{
			bson.M{"title": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": query, "$options": "i"}},
			bson.M{"achievement_name": bson.M{"$regex": query, "$options": "i"}},
		},
	}
	if courseID != "" {
		filter["course_id"] = courseID
	}

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	cursor, err := s.templates.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	templates := []models.AchievementTemplate{}
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return templates, nil
}
