package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ravencode/models"
)

func validSubmitRequest() models.SubmitAchievementRequest {
	return models.SubmitAchievementRequest{
		Email: "ana@example.com",
		Achievement: models.AchievementInput{
			AchievementName: "python_basics",
			CourseID:        "python-101",
			Title:           "Python Basics",
		},
		Score:       85,
		TotalPoints: 100,
	}
}

func TestValidateSubmitRequest(t *testing.T) {
	assert.NoError(t, ValidateStruct(validSubmitRequest()))
}

func TestValidateSubmitRequestBadEmail(t *testing.T) {
	req := validSubmitRequest()
	req.Email = "not-an-email"

	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "valid email")
}

func TestValidateSubmitRequestNegativeScore(t *testing.T) {
	req := validSubmitRequest()
	req.Score = -5

	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "at least 0")
}

func TestValidateSubmitRequestZeroTotalPoints(t *testing.T) {
	req := validSubmitRequest()
	req.TotalPoints = 0

	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "greater than 0")
}

func TestValidateDiplomaRequest(t *testing.T) {
	req := models.DiplomaRequest{
		Email:       "ana@example.com",
		CourseID:    "python-101",
		DiplomaType: "curso",
	}
	assert.NoError(t, ValidateStruct(req))

	req.DiplomaType = "degree"
	err := ValidateStruct(req)
	require.Error(t, err)
	assert.Contains(t, FormatValidationErrors(err), "must be one of")
}

func TestValidateDiplomaRequestOptionalFields(t *testing.T) {
	req := models.DiplomaRequest{
		Email:          "ana@example.com",
		CourseID:       "python-101",
		DiplomaType:    "diplomado",
		Locale:         "en",
		DeliveryFormat: "digital",
	}
	assert.NoError(t, ValidateStruct(req))

	req.Locale = "fr"
	assert.Error(t, ValidateStruct(req))
}

func TestFormatValidationErrorsMultiple(t *testing.T) {
	req := models.SubmitAchievementRequest{}

	err := ValidateStruct(req)
	require.Error(t, err)

	msg := FormatValidationErrors(err)
	assert.Contains(t, msg, "Email is required")
	assert.Contains(t, msg, "; ")
}
