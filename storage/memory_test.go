package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionbet-games/poker-backend/models"
)

func TestGetOpenGameByTableSkipsCompleted(t *testing.T) {
	store := NewMemoryStorage()

	done := models.Game{TableID: 1, Status: models.GameCompleted}
	require.NoError(t, store.CreateGame(&done))

	_, err := store.GetOpenGameByTable(1)
	require.ErrorIs(t, err, ErrNotFound)

	open := models.Game{TableID: 1, Status: models.GameWaiting}
	require.NoError(t, store.CreateGame(&open))

	found, err := store.GetOpenGameByTable(1)
	require.NoError(t, err)
	assert.Equal(t, open.ID, found.ID)
}

func TestListAuditLogsNewestFirst(t *testing.T) {
	store := NewMemoryStorage()
	for i := 0; i < 5; i++ {
		log := models.AuditLog{EventType: "round_started", GameID: 1}
		require.NoError(t, store.CreateAuditLog(&log))
	}

	logs, err := store.ListAuditLogs(3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Greater(t, logs[0].ID, logs[1].ID)
	assert.Greater(t, logs[1].ID, logs[2].ID)
}

func TestUpsertPlayerStatsKeepsOneRowPerUser(t *testing.T) {
	store := NewMemoryStorage()

	stats := models.PlayerStats{UserID: 7, GamesPlayed: 1}
	require.NoError(t, store.UpsertPlayerStats(&stats))

	stats.GamesPlayed = 2
	require.NoError(t, store.UpsertPlayerStats(&stats))

	loaded, err := store.GetPlayerStats(7)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.GamesPlayed)
	assert.Equal(t, stats.ID, loaded.ID)
}

func TestRecordsAreCopiedOut(t *testing.T) {
	store := NewMemoryStorage()
	user := models.User{Username: "alice", Balance: 10}
	require.NoError(t, store.CreateUser(&user))

	loaded, err := store.GetUser(user.ID)
	require.NoError(t, err)
	loaded.Balance = 999

	again, err := store.GetUser(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.Balance, "mutating a returned record must not touch the store")
}
