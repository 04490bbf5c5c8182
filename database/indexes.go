// database/indexes.go - index bootstrap, the document-store counterpart of a
// schema migration.
package database

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	StudentsCollection             = "students"
	DiplomasCollection             = "diplomas"
	DiplomaTemplatesCollection     = "diploma_templates"
	AchievementTemplatesCollection = "achievement_templates"
)

// EnsureIndexes creates the unique guards and query indexes the services
// rely on. Uniqueness on (email, course_id, diploma_type) and on
// verification_code is what makes diploma issuance race-safe: a concurrent
// duplicate insert fails at the store and is reported as "already exists".
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	studentIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "achievements.achievement_name", Value: 1}},
			Options: options.Index().SetName("email_achievement_name"),
		},
		{
			Keys:    bson.D{{Key: "achievements.course_id", Value: 1}},
			Options: options.Index().SetName("achievements_course_id"),
		},
		{
			Keys:    bson.D{{Key: "achievements.status", Value: 1}},
			Options: options.Index().SetName("achievements_status"),
		},
		{
			Keys:    bson.D{{Key: "achievements.date_earned", Value: -1}},
			Options: options.Index().SetName("achievements_date_earned_desc"),
		},
		{
			Keys:    bson.D{{Key: "updated_at", Value: -1}},
			Options: options.Index().SetName("updated_at_desc"),
		},
	}

	diplomaIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "course_id", Value: 1}, {Key: "diploma_type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("diploma_unique"),
		},
		{
			Keys:    bson.D{{Key: "verification_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("verification_code_unique"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("diploma_email"),
		},
		{
			Keys:    bson.D{{Key: "date_issued", Value: -1}},
			Options: options.Index().SetName("diploma_date_issued_desc"),
		},
		{
			Keys:    bson.D{{Key: "expiry_date", Value: 1}},
			Options: options.Index().SetName("diploma_expiry_date"),
		},
	}

	templateIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "diploma_type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("template_unique"),
		},
	}

	achievementTemplateIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "achievement_name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("achievement_template_unique"),
		},
		{
			Keys:    bson.D{{Key: "course_id", Value: 1}, {Key: "active", Value: 1}},
			Options: options.Index().SetName("achievement_template_course_active"),
		},
	}

	collections := map[string][]mongo.IndexModel{
		StudentsCollection:             studentIndexes,
		DiplomasCollection:             diplomaIndexes,
		DiplomaTemplatesCollection:     templateIndexes,
		AchievementTemplatesCollection: achievementTemplateIndexes,
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return err
		}
		log.Printf("Ensured %d indexes on %s", len(indexes), name)
	}

	return nil
}
