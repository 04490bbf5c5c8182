// services/achievement_service.go - achievement scoring business logic
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ravencode/database"
	"ravencode/models"
)

// AchievedThreshold is the percentage at which an achievement counts as
// earned.
const AchievedThreshold = 80.0

type AchievementService struct {
	students *mongo.Collection
}

func NewAchievementService(db *mongo.Database) *AchievementService {
	return &AchievementService{
		students: db.Collection(database.StudentsCollection),
	}
}

// BuildAchievementRecord runs the ordered derivation chain for a submission:
// validation, then percentage, achieved, status, date_earned - in that order,
// so each field sees the ones before it.
func BuildAchievementRecord(email string, input models.AchievementInput, score, totalPoints float64, now time.Time) (models.AchievementRecord, error) {
	if totalPoints <= 0 {
		return models.AchievementRecord{}, fmt.Errorf("%w: total points must be greater than 0", models.ErrInvalidData)
	}
	if score < 0 {
		return models.AchievementRecord{}, fmt.Errorf("%w: score cannot be negative", models.ErrInvalidData)
	}
	if score > totalPoints {
		return models.AchievementRecord{}, fmt.Errorf("%w: score cannot be greater than total points", models.ErrInvalidData)
	}

	percentage := round2(score / totalPoints * 100)
	achieved := percentage >= AchievedThreshold

	var status string
	switch {
	case achieved:
		status = models.StatusCompleted
	case percentage > 0:
		status = models.StatusInProgress
	case percentage == 0:
		status = models.StatusFailed
	default:
		status = models.StatusPending
	}

	var dateEarned *time.Time
	if achieved {
		dateEarned = &now
	}

	return models.AchievementRecord{
		ID:              uuid.New().String(),
		Email:           email,
		AchievementName: input.AchievementName,
		CourseID:        input.CourseID,
		Title:           input.Title,
		Description:     input.Description,
		Score:           score,
		TotalPoints:     totalPoints,
		Percentage:      percentage,
		DateEarned:      dateEarned,
		Status:          status,
		Achieved:        achieved,
		Metadata:        input.Metadata,
	}, nil
}

// SubmitAchievement creates or replaces the achievement record for
// (email, achievement_name). The student document is created implicitly on
// first write; resubmission replaces the prior record in place, so the
// student's achievement count never grows for the same name.
func (s *AchievementService) SubmitAchievement(ctx context.Context, req models.SubmitAchievementRequest) (*models.SubmitResult, error) {
	now := time.Now()

	record, err := BuildAchievementRecord(req.Email, req.Achievement, req.Score, req.TotalPoints, now)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	// In-place replace keyed on the embedded achievement name. Positional $
	// keeps the read-modify-write atomic per student document.
	res, err := s.students.UpdateOne(ctx,
		bson.M{"email": req.Email, "achievements.achievement_name": record.AchievementName},
		bson.M{"$set": bson.M{
			"achievements.$": record,
			"updated_at":     now,
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	if res.MatchedCount == 0 {
		// No record with that name yet: append, creating the student when
		// absent. The $ne guard keeps two concurrent first submissions from
		// pushing the same name twice: the loser matches nothing, trips the
		// unique email index on upsert, and retries the in-place replace.
		pushRes, err := s.students.UpdateOne(ctx,
			bson.M{
				"email":                         req.Email,
				"achievements.achievement_name": bson.M{"$ne": record.AchievementName},
			},
			bson.M{
				"$push":        bson.M{"achievements": record},
				"$set":         bson.M{"updated_at": now},
				"$setOnInsert": bson.M{"created_at": now},
			},
			options.Update().SetUpsert(true),
		)
		if err != nil && !mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
		}
		if err != nil || (pushRes.MatchedCount == 0 && pushRes.UpsertedCount == 0) {
			if _, err := s.students.UpdateOne(ctx,
				bson.M{"email": req.Email, "achievements.achievement_name": record.AchievementName},
				bson.M{"$set": bson.M{
					"achievements.$": record,
					"updated_at":     now,
				}},
			); err != nil {
				return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
			}
		}
	}

	return &models.SubmitResult{
		Email:       req.Email,
		Achievement: record,
		Achieved:    record.Achieved,
		Percentage:  record.Percentage,
		Status:      record.Status,
	}, nil
}

// GetStudent returns a student's document with all achievements.
func (s *AchievementService) GetStudent(ctx context.Context, email string) (*models.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	var student models.Student
	err := s.students.FindOne(ctx, bson.M{"email": email}).Decode(&student)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", models.ErrStudentNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return &student, nil
}

// GetCourseAchievementsForStudent returns the student's achievements
// restricted to one course; a missing student yields an empty slice, not an
// error, so eligibility checks never fail on fresh accounts.
func (s *AchievementService) GetCourseAchievementsForStudent(ctx context.Context, email, courseID string) ([]models.AchievementRecord, error) {
	student, err := s.GetStudent(ctx, email)
	if errors.Is(err, models.ErrStudentNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var filtered []models.AchievementRecord
	for _, a := range student.Achievements {
		if a.CourseID == courseID {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// DeleteAchievement removes one achievement record from the student's set.
func (s *AchievementService) DeleteAchievement(ctx context.Context, email, achievementName string) error {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	// The filter must match on the embedded name: a bare email match would
	// count the updated_at touch as a modification and hide a no-op $pull.
	res, err := s.students.UpdateOne(ctx,
		bson.M{"email": email, "achievements.achievement_name": achievementName},
		bson.M{
			"$pull": bson.M{"achievements": bson.M{"achievement_name": achievementName}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.students.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrStudentNotFound, email)
	}
	return fmt.Errorf("%w: %s for student %s", models.ErrAchievementNotFound, achievementName, email)
}

// BulkUpdate applies several submissions, reporting success per item instead
// of failing the batch.
func (s *AchievementService) BulkUpdate(ctx context.Context, req models.BulkUpdateRequest) []models.BulkUpdateResult {
	results := make([]models.BulkUpdateResult, 0, len(req.Updates))
	for _, update := range req.Updates {
		result, err := s.SubmitAchievement(ctx, update)
		if err != nil {
			results = append(results, models.BulkUpdateResult{
				Success: false,
				Email:   update.Email,
				Error:   err.Error(),
			})
			continue
		}
		results = append(results, models.BulkUpdateResult{Success: true, Data: result})
	}
	return results
}

// GetAchievementStats computes the per-student summary.
func (s *AchievementService) GetAchievementStats(ctx context.Context, email string) (*models.AchievementStats, error) {
	student, err := s.GetStudent(ctx, email)
	if err != nil {
		return nil, err
	}
	stats := student.Stats()
	return &stats, nil
}

// GetCourseAchievements aggregates earn/attempt counts per achievement name
// across every student of a course.
func (s *AchievementService) GetCourseAchievements(ctx context.Context, courseID string) ([]models.CourseAchievementSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$achievements"}},
		{{Key: "$match", Value: bson.M{"achievements.course_id": courseID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$achievements.achievement_name",
			"title":       bson.M{"$first": "$achievements.title"},
			"description": bson.M{"$first": "$achievements.description"},
			"course_id":   bson.M{"$first": "$achievements.course_id"},
			"total_earned": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$achievements.achieved", 1, 0},
			}},
			"total_attempts": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.students.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	var summaries []models.CourseAchievementSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return summaries, nil
}
