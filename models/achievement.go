// models/achievement.go
package models

import "time"

// Achievement status values, derived from the submitted score.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Metadata category values exposed to the frontend.
const (
	CategoryLearning    = "learning"
	CategoryPractice    = "practice"
	CategoryAchievement = "achievement"
	CategoryMastery     = "mastery"
	CategoryDedication  = "dedication"
	CategoryCommunity   = "community"
)

// Rarity tiers.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// DefaultRequirementHours is credited per satisfied diploma requirement when
// the achievement carries no tracked duration. Known approximation: it can
// overstate hours for achievements that genuinely have none.
const DefaultRequirementHours = 10

// AchievementMetadata carries optional descriptive data attached to an
// achievement record. Missing fields fall back to defaults at read time
// instead of being stored.
type AchievementMetadata struct {
	Category     string   `bson:"category,omitempty" json:"category,omitempty"`
	Rarity       string   `bson:"rarity,omitempty" json:"rarity,omitempty"`
	XPReward     int      `bson:"xp_reward,omitempty" json:"xp_reward,omitempty"`
	Difficulty   string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Module       string   `bson:"module,omitempty" json:"module,omitempty"`
	IconURL      string   `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
	Hours        *int     `bson:"hours,omitempty" json:"hours,omitempty"`
	Requirements []string `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`
}

// HoursOrDefault returns the tracked academic hours, or
// DefaultRequirementHours when none were recorded.
func (m *AchievementMetadata) HoursOrDefault() int {
	if m == nil || m.Hours == nil {
		return DefaultRequirementHours
	}
	return *m.Hours
}

// AchievementRecord is a single achievement earned (or attempted) by a
// student. Records live embedded inside the student document; there is at
// most one per (email, achievement_name) and resubmission replaces it in
// place.
type AchievementRecord struct {
	ID              string               `bson:"id" json:"id"`
	Email           string               `bson:"email" json:"email"`
	AchievementName string               `bson:"achievement_name" json:"achievement_name"`
	CourseID        string               `bson:"course_id" json:"course_id"`
	Title           string               `bson:"title" json:"title"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Score           float64              `bson:"score" json:"score"`
	TotalPoints     float64              `bson:"total_points" json:"total_points"`
	Percentage      float64              `bson:"percentage" json:"percentage"`
	DateEarned      *time.Time           `bson:"date_earned,omitempty" json:"date_earned,omitempty"`
	Status          string               `bson:"status" json:"status"`
	Achieved        bool                 `bson:"achieved" json:"achieved"`
	Metadata        *AchievementMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
}

// AchievementInput is the achievement definition part of a submission.
type AchievementInput struct {
	AchievementName string               `json:"achievement_name" validate:"required"`
	CourseID        string               `json:"course_id" validate:"required"`
	Title           string               `json:"title" validate:"required"`
	Description     string               `json:"description"`
	Metadata        *AchievementMetadata `json:"metadata"`
}

// SubmitAchievementRequest records a score against an achievement for a
// student, creating the student on first write.
type SubmitAchievementRequest struct {
	Email       string           `json:"email" validate:"required,email"`
	Achievement AchievementInput `json:"achievement" validate:"required"`
	Score       float64          `json:"score" validate:"gte=0"`
	TotalPoints float64          `json:"total_points" validate:"gt=0"`
}

// BulkUpdateRequest submits several achievements in one call.
type BulkUpdateRequest struct {
	Updates []SubmitAchievementRequest `json:"updates" validate:"required,min=1,dive"`
}

// SubmitResult is the payload returned after a successful submission.
type SubmitResult struct {
	Email       string            `json:"email"`
	Achievement AchievementRecord `json:"achievement"`
	Achieved    bool              `json:"achieved"`
	Percentage  float64           `json:"percentage"`
	Status      string            `json:"status"`
}

// BulkUpdateResult is the per-item outcome of a bulk submission.
type BulkUpdateResult struct {
	Success bool          `json:"success"`
	Email   string        `json:"email,omitempty"`
	Error   string        `json:"error,omitempty"`
	Data    *SubmitResult `json:"data,omitempty"`
}

// AchievementStats summarises a student's achievement history.
type AchievementStats struct {
	TotalAchievements    int                 `json:"total_achievements"`
	TotalXP              int                 `json:"total_xp"`
	AverageScore         float64             `json:"average_score"`
	AchievementsByCourse map[string]int      `json:"achievements_by_course"`
	RecentAchievements   []AchievementRecord `json:"recent_achievements"`
	CompletionRate       float64             `json:"completion_rate"`
}

// CourseAchievementSummary aggregates how an achievement performs across all
// students of a course.
type CourseAchievementSummary struct {
	AchievementName string `bson:"_id" json:"achievement_name"`
	Title           string `bson:"title" json:"title"`
	Description     string `bson:"description" json:"description,omitempty"`
	CourseID        string `bson:"course_id" json:"course_id"`
	TotalEarned     int    `bson:"total_earned" json:"total_earned"`
	TotalAttempts   int    `bson:"total_attempts" json:"total_attempts"`
}

// AchievementTemplate is a master-list definition of an achievement students
// can earn, managed separately from per-student records.
type AchievementTemplate struct {
	ID              string               `bson:"id" json:"id"`
	AchievementName string               `bson:"achievement_name" json:"achievement_name" validate:"required"`
	CourseID        string               `bson:"course_id" json:"course_id" validate:"required"`
	Title           string               `bson:"title" json:"title" validate:"required"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	MaxPoints       float64              `bson:"max_points" json:"max_points"`
	Requirements    []string             `bson:"requirements,omitempty" json:"requirements,omitempty"`
	Metadata        *AchievementMetadata `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Active          bool                 `bson:"active" json:"active"`
	CreatedAt       time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at" json:"updated_at"`
}
