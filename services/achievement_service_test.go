package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ravencode/models"
)

var testInput = models.AchievementInput{
	AchievementName: "python_basics",
	CourseID:        "python-101",
	Title:           "Python Basics",
	Description:     "Complete the basics module",
}

func TestBuildAchievementRecordEarned(t *testing.T) {
	now := time.Now()

	record, err := BuildAchievementRecord("ana@example.com", testInput, 85, 100, now)
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", record.Email)
	assert.Equal(t, "python_basics", record.AchievementName)
	assert.Equal(t, 85.0, record.Percentage)
	assert.True(t, record.Achieved)
	assert.Equal(t, models.StatusCompleted, record.Status)
	require.NotNil(t, record.DateEarned)
	assert.Equal(t, now, *record.DateEarned)
	assert.NotEmpty(t, record.ID)
}

func TestBuildAchievementRecordThreshold(t *testing.T) {
	now := time.Now()

	// exactly at the threshold counts as earned
	record, err := BuildAchievementRecord("ana@example.com", testInput, 80, 100, now)
	require.NoError(t, err)
	assert.True(t, record.Achieved)
	assert.Equal(t, models.StatusCompleted, record.Status)

	// just below stays in progress with no earned date
	record, err = BuildAchievementRecord("ana@example.com", testInput, 79.9, 100, now)
	require.NoError(t, err)
	assert.False(t, record.Achieved)
	assert.Equal(t, models.StatusInProgress, record.Status)
	assert.Nil(t, record.DateEarned)
}

func TestBuildAchievementRecordZeroScore(t *testing.T) {
	record, err := BuildAchievementRecord("ana@example.com", testInput, 0, 100, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0.0, record.Percentage)
	assert.False(t, record.Achieved)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Nil(t, record.DateEarned)
}

func TestBuildAchievementRecordPercentageRounding(t *testing.T) {
	record, err := BuildAchievementRecord("ana@example.com", testInput, 1, 3, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 33.33, record.Percentage)
}

func TestBuildAchievementRecordInvalidScores(t *testing.T) {
	now := time.Now()

	_, err := BuildAchievementRecord("ana@example.com", testInput, 150, 100, now)
	assert.ErrorIs(t, err, models.ErrInvalidData)

	_, err = BuildAchievementRecord("ana@example.com", testInput, -1, 100, now)
	assert.ErrorIs(t, err, models.ErrInvalidData)

	_, err = BuildAchievementRecord("ana@example.com", testInput, 50, 0, now)
	assert.ErrorIs(t, err, models.ErrInvalidData)

	_, err = BuildAchievementRecord("ana@example.com", testInput, 50, -10, now)
	assert.ErrorIs(t, err, models.ErrInvalidData)
}

func TestBuildAchievementRecordMetadataPassthrough(t *testing.T) {
	hours := 25
	input := testInput
	input.Metadata = &models.AchievementMetadata{
		Category: models.CategoryLearning,
		Rarity:   models.RarityRare,
		XPReward: 500,
		Hours:    &hours,
	}

	record, err := BuildAchievementRecord("ana@example.com", input, 90, 100, time.Now())
	require.NoError(t, err)

	require.NotNil(t, record.Metadata)
	assert.Equal(t, 500, record.Metadata.XPReward)
	assert.Equal(t, 25, record.Metadata.HoursOrDefault())
}

func TestBuildAchievementRecordUniqueIDs(t *testing.T) {
	now := time.Now()
	a, err := BuildAchievementRecord("ana@example.com", testInput, 85, 100, now)
	require.NoError(t, err)
	b, err := BuildAchievementRecord("ana@example.com", testInput, 85, 100, now)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
