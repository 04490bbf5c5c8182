package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"ravencode/models"
)

func TestIssueDiplomaAlreadyIssued(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	request := models.DiplomaRequest{
		Email:       "ana@example.com",
		CourseID:    "python-101",
		DiplomaType: "curso",
		Force:       true,
	}

	mt.Run("existing diploma short-circuits issuance", func(mt *mtest.T) {
		mt.AddMockResponses(
			// no student document yet
			mtest.CreateCursorResponse(0, "ravencode.students", mtest.FirstBatch),
			// no template either; the request forces issuance
			mtest.CreateCursorResponse(0, "ravencode.diploma_templates", mtest.FirstBatch),
			// the unique (email, course_id, diploma_type) key already holds one
			mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch, bson.D{
				{Key: "id", Value: "dip-1"},
				{Key: "email", Value: "ana@example.com"},
				{Key: "course_id", Value: "python-101"},
				{Key: "diploma_type", Value: "curso"},
			}),
		)

		svc := NewDiplomaService(mt.DB, NewAchievementService(mt.DB))
		result, err := svc.IssueDiploma(context.Background(), request)
		require.NoError(mt, err)

		assert.False(mt, result.Issued)
		assert.Equal(mt, "dip-1", result.ExistingDiplomaID)
		assert.Equal(mt, "Ya existe un diploma para este estudiante y curso", result.Message)
		assert.Nil(mt, result.Diploma)
	})

	mt.Run("losing the insert race reports the winner", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "ravencode.students", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "ravencode.diploma_templates", mtest.FirstBatch),
			// nothing issued at pre-check time
			mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch),
			// verification code is free
			mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch),
			// concurrent issuance wins the unique index
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch, bson.D{
				{Key: "id", Value: "dip-1"},
			}),
		)

		svc := NewDiplomaService(mt.DB, NewAchievementService(mt.DB))
		result, err := svc.IssueDiploma(context.Background(), request)
		require.NoError(mt, err)

		assert.False(mt, result.Issued)
		assert.Equal(mt, "dip-1", result.ExistingDiplomaID)
	})
}

func TestVerifyDiplomaByCode(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("known code", func(mt *mtest.T) {
		issued := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "dip-1"},
			{Key: "email", Value: "ana@example.com"},
			{Key: "course_id", Value: "python-101"},
			{Key: "diploma_type", Value: "curso"},
			{Key: "verification_code", Value: "RC-AB12CD34"},
			{Key: "date_issued", Value: issued},
			{Key: "final_grade", Value: 4.2},
		}))

		svc := NewDiplomaService(mt.DB, NewAchievementService(mt.DB))
		result, err := svc.VerifyDiploma(context.Background(), "RC-AB12CD34")
		require.NoError(mt, err)

		assert.True(mt, result.Valid)
		assert.False(mt, result.Expired)
		assert.Equal(mt, "Diploma válido", result.Message)
		require.NotNil(mt, result.Diploma)
		assert.Equal(mt, "dip-1", result.Diploma.ID)
	})

	mt.Run("known but expired code", func(mt *mtest.T) {
		expiry := time.Now().Add(-24 * time.Hour)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch, bson.D{
			{Key: "id", Value: "dip-2"},
			{Key: "verification_code", Value: "RC-99AA88BB"},
			{Key: "expiry_date", Value: expiry},
		}))

		svc := NewDiplomaService(mt.DB, NewAchievementService(mt.DB))
		result, err := svc.VerifyDiploma(context.Background(), "RC-99AA88BB")
		require.NoError(mt, err)

		assert.True(mt, result.Valid)
		assert.True(mt, result.Expired)
		assert.Equal(mt, "Diploma válido pero vencido", result.Message)
	})

	mt.Run("unknown code", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "ravencode.diplomas", mtest.FirstBatch))

		svc := NewDiplomaService(mt.DB, NewAchievementService(mt.DB))
		result, err := svc.VerifyDiploma(context.Background(), "RC-00000000")
		require.NoError(mt, err)

		assert.False(mt, result.Valid)
		assert.Nil(mt, result.Diploma)
		assert.Equal(mt, "Código de verificación no válido", result.Message)
	})
}
