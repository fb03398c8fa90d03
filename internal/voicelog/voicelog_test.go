package voicelog

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *Store {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStore_CreateAndRecent(t *testing.T) {
	store := setupTestStore(t)

	log := &VoiceLog{
		UserID:     "user_1",
		Transcript: "Felt dizzy this morning but better after breakfast",
		Week:       22,
		Mood:       "tired",
		Symptoms:   []string{"dizziness"},
	}
	require.NoError(t, store.Create(log))
	assert.NotEmpty(t, log.ID)

	logs, err := store.Recent("user_1", time.Now().AddDate(0, 0, -7), 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, log.Transcript, logs[0].Transcript)
	assert.Equal(t, []string{"dizziness"}, logs[0].Symptoms)
}

func TestStore_Recent_OrderAndLimit(t *testing.T) {
	store := setupTestStore(t)

	base := time.Now().Add(-3 * time.Hour)
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Create(&VoiceLog{
			UserID:     "user_1",
			Transcript: "entry",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	logs, err := store.Recent("user_1", time.Now().AddDate(0, 0, -1), 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	// Most recent first
	assert.True(t, logs[0].CreatedAt.After(logs[1].CreatedAt))
	assert.True(t, logs[1].CreatedAt.After(logs[2].CreatedAt))
}

func TestStore_Recent_ExcludesOldAndOtherUsers(t *testing.T) {
	store := setupTestStore(t)

	require.NoError(t, store.Create(&VoiceLog{
		UserID:     "user_1",
		Transcript: "old entry",
		CreatedAt:  time.Now().AddDate(0, 0, -10),
	}))
	require.NoError(t, store.Create(&VoiceLog{
		UserID:     "user_2",
		Transcript: "someone else",
	}))

	logs, err := store.Recent("user_1", time.Now().AddDate(0, 0, -7), 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestStore_RecentContext(t *testing.T) {
	store := setupTestStore(t)

	createdAt := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Create(&VoiceLog{
		UserID:     "user_1",
		Transcript: "bad headache since last night",
		Week:       30,
		Mood:       "anxious",
		Symptoms:   []string{"headache"},
		Concerns:   []string{"blood pressure"},
		CreatedAt:  createdAt,
	}))

	contexts, err := store.RecentContext("user_1", createdAt.AddDate(0, 0, -1), 10)
	require.NoError(t, err)
	require.Len(t, contexts, 1)

	ctx := contexts[0]
	assert.Equal(t, "bad headache since last night", ctx.Transcript)
	assert.Equal(t, 30, ctx.Week)
	assert.Equal(t, "2025-03-12", ctx.Date)
	assert.Equal(t, []string{"headache"}, ctx.Symptoms)
	assert.Equal(t, []string{"blood pressure"}, ctx.Concerns)
	assert.Equal(t, "anxious", ctx.Mood)
}
