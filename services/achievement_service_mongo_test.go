package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"ravencode/models"
)

func submitRequest() models.SubmitAchievementRequest {
	return models.SubmitAchievementRequest{
		Email:       "ana@example.com",
		Achievement: testInput,
		Score:       85,
		TotalPoints: 100,
	}
}

func startedCommands(mt *mtest.T, name string) []*event.CommandStartedEvent {
	var out []*event.CommandStartedEvent
	for {
		evt := mt.GetStartedEvent()
		if evt == nil {
			break
		}
		if evt.CommandName == name {
			out = append(out, evt)
		}
	}
	return out
}

func TestSubmitAchievementReplacesInPlace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("resubmission replaces the record instead of appending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		svc := NewAchievementService(mt.DB)
		result, err := svc.SubmitAchievement(context.Background(), submitRequest())
		require.NoError(mt, err)

		assert.True(mt, result.Achieved)
		assert.Equal(mt, models.StatusCompleted, result.Status)
		assert.Equal(mt, 85.0, result.Percentage)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 1, "a matched in-place replace must not push a second record")
	})
}

func TestSubmitAchievementFirstWrite(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("push is guarded against an existing name", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		svc := NewAchievementService(mt.DB)
		_, err := svc.SubmitAchievement(context.Background(), submitRequest())
		require.NoError(mt, err)

		updates := startedCommands(mt, "update")
		require.Len(mt, updates, 2)

		guard := updates[1].Command.Lookup("updates", "0", "q", "achievements.achievement_name", "$ne")
		name, ok := guard.StringValueOK()
		require.True(mt, ok, "the append filter must exclude documents that already hold the name")
		assert.Equal(mt, "python_basics", name)
	})

	mt.Run("losing the first-write race falls back to the replace", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		svc := NewAchievementService(mt.DB)
		result, err := svc.SubmitAchievement(context.Background(), submitRequest())
		require.NoError(mt, err)
		assert.Equal(mt, 85.0, result.Percentage)

		require.Len(mt, startedCommands(mt, "update"), 3)
	})
}

func TestDeleteAchievementOutcomes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing achievement is removed", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		svc := NewAchievementService(mt.DB)
		assert.NoError(mt, svc.DeleteAchievement(context.Background(), "ana@example.com", "python_basics"))
	})

	mt.Run("absent achievement on an existing student", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "ravencode.students", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		svc := NewAchievementService(mt.DB)
		err := svc.DeleteAchievement(context.Background(), "ana@example.com", "ghost_badge")
		assert.ErrorIs(mt, err, models.ErrAchievementNotFound)
	})

	mt.Run("unknown student", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "ravencode.students", mtest.FirstBatch),
		)

		svc := NewAchievementService(mt.DB)
		err := svc.DeleteAchievement(context.Background(), "nadie@example.com", "python_basics")
		assert.ErrorIs(mt, err, models.ErrStudentNotFound)
	})
}
