// services/diploma_service.go - diploma issuance, verification and stats
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ravencode/database"
	"ravencode/models"
)

// verificationCodePrefix brands every verification code.
const verificationCodePrefix = "RC-"

type DiplomaService struct {
	achievements *AchievementService
	diplomas     *mongo.Collection
	templates    *mongo.Collection
}

func NewDiplomaService(db *mongo.Database, achievements *AchievementService) *DiplomaService {
	return &DiplomaService{
		achievements: achievements,
		diplomas:     db.Collection(database.DiplomasCollection),
		templates:    db.Collection(database.DiplomaTemplatesCollection),
	}
}

// ================== TEMPLATES ==================

// CreateTemplate registers a diploma template, unique per
// (course_id, diploma_type).
func (s *DiplomaService) CreateTemplate(ctx context.Context, template models.DiplomaTemplate) (*models.DiplomaTemplate, error) {
	template.DiplomaType = strings.ToLower(template.DiplomaType)
	template.ApplyDefaults()
	if err := template.Validate(); err != nil {
		return nil, err
	}

	template.ID = uuid.New().String()
	template.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	if _, err := s.templates.InsertOne(ctx, template); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: a template for (%s, %s) already exists",
				models.ErrInvalidData, template.CourseID, template.DiplomaType)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	log.Printf("Diploma template created: %s", template.Name)
	return &template, nil
}

// GetTemplate returns the template for (course_id, diploma_type), or nil
// when none exists. Absence is not an error: eligibility turns it into a
// not-eligible verdict.
func (s *DiplomaService) GetTemplate(ctx context.Context, courseID, diplomaType string) (*models.DiplomaTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	var template models.DiplomaTemplate
	err := s.templates.FindOne(ctx, bson.M{
		"course_id":    courseID,
		"diploma_type": strings.ToLower(diplomaType),
	}).Decode(&template)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	return &template, nil
}

// ================== ELIGIBILITY ==================

// CheckEligibility evaluates whether a student currently qualifies for a
// diploma. Only a store failure is an error; every business outcome is a
// verdict.
func (s *DiplomaService) CheckEligibility(ctx context.Context, email, courseID, diplomaType string) (*models.EligibilityVerdict, error) {
	achievements, err := s.achievements.GetCourseAchievementsForStudent(ctx, email, courseID)
	if err != nil {
		return nil, err
	}

	template, err := s.GetTemplate(ctx, courseID, diplomaType)
	if err != nil {
		return nil, err
	}

	return EvaluateEligibility(achievements, template, courseID, strings.ToLower(diplomaType)), nil
}

// ================== ISSUANCE ==================

// IssueDiploma issues a diploma when the student is eligible (or the request
// forces it). Issuance is idempotent per (email, course_id, diploma_type):
// a second request reports the existing diploma instead of duplicating it.
func (s *DiplomaService) IssueDiploma(ctx context.Context, req models.DiplomaRequest) (*models.IssueResult, error) {
	req.DiplomaType = strings.ToLower(req.DiplomaType)
	if req.Locale == "" {
		req.Locale = "es"
	}
	if req.DeliveryFormat == "" {
		req.DeliveryFormat = "digital"
	}

	verdict, err := s.CheckEligibility(ctx, req.Email, req.CourseID, req.DiplomaType)
	if err != nil {
		return nil, err
	}

	if !verdict.Eligible && !req.Force {
		return &models.IssueResult{
			Issued:  false,
			Message: "No se cumplen los requisitos para el diploma",
			Verdict: verdict,
		}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	key := bson.M{
		"email":        req.Email,
		"course_id":    req.CourseID,
		"diploma_type": req.DiplomaType,
	}

	var existing models.Diploma
	err = s.diplomas.FindOne(ctx, key).Decode(&existing)
	if err == nil {
		return &models.IssueResult{
			Issued:            false,
			Message:           "Ya existe un diploma para este estudiante y curso",
			ExistingDiplomaID: existing.ID,
		}, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	diploma, err := s.buildDiploma(ctx, req, verdict)
	if err != nil {
		return nil, err
	}

	if _, err := s.diplomas.InsertOne(ctx, diploma); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race against a concurrent issuance for the same key;
			// report the winner instead of failing.
			if lookupErr := s.diplomas.FindOne(ctx, key).Decode(&existing); lookupErr == nil {
				return &models.IssueResult{
					Issued:            false,
					Message:           "Ya existe un diploma para este estudiante y curso",
					ExistingDiplomaID: existing.ID,
				}, nil
			}
			return &models.IssueResult{
				Issued:  false,
				Message: "Ya existe un diploma para este estudiante y curso",
			}, nil
		}
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	log.Printf("Diploma issued for %s: %s", req.Email, diploma.Name)

	return &models.IssueResult{
		Issued:           true,
		Message:          "Diploma emitido exitosamente",
		Diploma:          diploma,
		VerificationCode: diploma.VerificationCode,
		Verdict:          verdict,
	}, nil
}

// buildDiploma snapshots the template and verdict into an immutable diploma
// record, falling back to generic defaults when issuance was forced without
// a template.
func (s *DiplomaService) buildDiploma(ctx context.Context, req models.DiplomaRequest, verdict *models.EligibilityVerdict) (*models.Diploma, error) {
	now := time.Now()
	template := verdict.Template

	code, err := s.generateVerificationCode(ctx)
	if err != nil {
		return nil, err
	}

	diploma := &models.Diploma{
		ID:               uuid.New().String(),
		Email:            req.Email,
		DiplomaType:      req.DiplomaType,
		CourseID:         req.CourseID,
		Name:             fmt.Sprintf("Diploma de %s", req.DiplomaType),
		Title:            "Certificado de Finalización",
		Institution:      models.DefaultInstitution,
		DateIssued:       now,
		VerificationCode: code,
		FinalGrade:       verdict.AverageGrade,
		AverageGrade:     verdict.AverageGrade,
		Modality:         models.DefaultModality,
		EducationLevel:   models.DefaultEducationLevel,
		CompletedRequirements: verdict.CompletedRequirements,
		Metadata: models.DiplomaMetadata{
			Locale:           req.Locale,
			DeliveryFormat:   req.DeliveryFormat,
			IncludeApostille: req.IncludeApostille,
			PercentComplete:  verdict.PercentComplete,
			Forced:           req.Force,
		},
	}

	if verdict.AverageGrade > 0 {
		diploma.QualitativeGrade = models.GradeLabel(verdict.AverageGrade)
	}

	if verdict.HoursCompleted > 0 {
		hours := verdict.HoursCompleted
		diploma.AcademicHours = &hours
	}

	if template != nil {
		diploma.Name = template.Name
		diploma.Title = template.Title
		diploma.Institution = template.Institution
		diploma.Modality = template.Modality
		diploma.EducationLevel = template.EducationLevel
		diploma.RegistryCode = template.RegistryCode
		diploma.AcademicCredits = template.AcademicCredits
		if diploma.AcademicHours == nil {
			diploma.AcademicHours = template.AcademicHours
		}
		if template.ValidityMonths != nil {
			expiry := now.Add(time.Duration(*template.ValidityMonths) * 30 * 24 * time.Hour)
			diploma.ExpiryDate = &expiry
		}
	}

	return diploma, nil
}

// generateVerificationCode draws a short uppercase code from a fresh random
// token and confirms it is unused before commit. Collisions are practically
// negligible but the unique index is the final guard.
func (s *DiplomaService) generateVerificationCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		token := strings.ReplaceAll(uuid.New().String(), "-", "")
		code := verificationCodePrefix + strings.ToUpper(token[:8])

		err := s.diplomas.FindOne(ctx, bson.M{"verification_code": code}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
		}
	}
	return "", fmt.Errorf("%w: could not generate a unique verification code", models.ErrDatabaseUnavailable)
}

// ================== READ PATHS ==================

// GetStudentDiplomas lists a student's diplomas annotated with the computed
// expiry state and international grade equivalence.
func (s *DiplomaService) GetStudentDiplomas(ctx context.Context, email string) ([]models.AnnotatedDiploma, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	cursor, err := s.diplomas.Find(ctx, bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "date_issued", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	var diplomas []models.Diploma
	if err := cursor.All(ctx, &diplomas); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	now := time.Now()
	annotated := make([]models.AnnotatedDiploma, 0, len(diplomas))
	for _, d := range diplomas {
		annotated = append(annotated, models.AnnotatedDiploma{
			Diploma:                  d,
			Expired:                  d.IsExpired(now),
			InternationalEquivalence: d.Equivalence(),
		})
	}
	return annotated, nil
}

// VerifyDiploma confirms a diploma's authenticity by verification code. An
// unknown code is a negative result, not an error.
func (s *DiplomaService) VerifyDiploma(ctx context.Context, code string) (*models.VerificationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	var diploma models.Diploma
	err := s.diplomas.FindOne(ctx, bson.M{"verification_code": code}).Decode(&diploma)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.VerificationResult{
			Valid:   false,
			Message: "Código de verificación no válido",
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	expired := diploma.IsExpired(time.Now())
	message := "Diploma válido"
	if expired {
		message = "Diploma válido pero vencido"
	}

	return &models.VerificationResult{
		Valid:   true,
		Diploma: &diploma,
		Expired: expired,
		Message: message,
	}, nil
}

// DeleteDiploma removes one diploma by (email, id). Returns false when no
// matching diploma existed.
func (s *DiplomaService) DeleteDiploma(ctx context.Context, email, diplomaID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	res, err := s.diplomas.DeleteOne(ctx, bson.M{"id": diplomaID, "email": email})
	if err != nil {
		return false, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	if res.DeletedCount > 0 {
		log.Printf("Diploma deleted: %s for %s", diplomaID, email)
		return true, nil
	}
	return false, nil
}

// ================== STATS ==================

// GetStats aggregates per-type counts, average final grade and the 30-day
// recency window, plus total vs currently-valid counts. Empty collections
// produce zeros, not errors.
func (s *DiplomaService) GetStats(ctx context.Context) (*models.DiplomaStats, error) {
	ctx, cancel := context.WithTimeout(ctx, database.QueryTimeout)
	defer cancel()

	now := time.Now()
	cutoff := now.Add(-30 * 24 * time.Hour)

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           "$diploma_type",
			"total":         bson.M{"$sum": 1},
			"average_grade": bson.M{"$avg": "$final_grade"},
			"issued_last_30": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$gte": bson.A{"$date_issued", cutoff}},
					1,
					0,
				},
			}},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := s.diplomas.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}
	defer cursor.Close(ctx)

	byType := []models.DiplomaTypeStats{}
	if err := cursor.All(ctx, &byType); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	total, err := s.diplomas.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	valid, err := s.diplomas.CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"expiry_date": nil},
			bson.M{"expiry_date": bson.M{"$gt": now}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseUnavailable, err)
	}

	return &models.DiplomaStats{
		TotalDiplomas:   int(total),
		ValidDiplomas:   int(valid),
		ExpiredDiplomas: int(total - valid),
		ByType:          byType,
	}, nil
}
