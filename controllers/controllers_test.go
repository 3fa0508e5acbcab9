package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
)

func setupRouter(t *testing.T) (*gin.Engine, *storage.MemoryStorage) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := storage.NewMemoryStorage()
	Store = store

	r := gin.New()
	api := r.Group("/api")
	api.POST("/users", RegisterUser)
	api.GET("/users/:id", GetUser)
	api.GET("/users/:id/stats", GetUserStats)
	api.GET("/tables", ListTables)
	api.POST("/admin/tables", CreateTable)
	api.GET("/admin/settings", GetSettings)
	api.PATCH("/admin/settings", UpdateSettings)
	api.GET("/admin/metrics", GetMetrics)
	return r, store
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterUser(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/users", `{"username":"alice","balance":25}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 25.0, user.Balance)
	assert.NotZero(t, user.ID)

	// Duplicate usernames are rejected.
	w = doRequest(r, http.MethodPost, "/api/users", `{"username":"alice"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Username is required.
	w = doRequest(r, http.MethodPost, "/api/users", `{"balance":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUser(t *testing.T) {
	r, store := setupRouter(t)
	user := models.User{Username: "bob", Balance: 10}
	require.NoError(t, store.CreateUser(&user))

	w := doRequest(r, http.MethodGet, "/api/users/1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/users/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/users/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserStatsEmpty(t *testing.T) {
	r, store := setupRouter(t)
	user := models.User{Username: "carol"}
	require.NoError(t, store.CreateUser(&user))

	// A player with no games gets zeroed stats, not a 404.
	w := doRequest(r, http.MethodGet, "/api/users/1/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats models.PlayerStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, uint(1), stats.UserID)
	assert.Equal(t, 0, stats.GamesPlayed)
}

func TestCreateAndListTables(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/admin/tables", `{"name":"High Rollers","stake_amount":10}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var table models.Table
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.Equal(t, 6, table.MaxPlayers, "max players defaults to 6")
	assert.False(t, table.IsPrivate)

	w = doRequest(r, http.MethodPost, "/api/admin/tables", `{"name":"Private","stake_amount":5,"password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
	assert.True(t, table.IsPrivate)

	// Zero or negative stakes are rejected.
	w = doRequest(r, http.MethodPost, "/api/admin/tables", `{"name":"Free","stake_amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodGet, "/api/tables", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listings []struct {
		models.Table
		PlayerCount int      `json:"player_count"`
		PlayerNames []string `json:"player_names"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listings))
	require.Len(t, listings, 2)
	assert.Equal(t, 0, listings[0].PlayerCount)
	assert.NotNil(t, listings[0].PlayerNames)
}

func TestTablePasswordNeverSerialized(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/api/admin/tables", `{"name":"Private","stake_amount":5,"password":"secret"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")

	w = doRequest(r, http.MethodGet, "/api/tables", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestSettings(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/api/admin/settings", "")
	require.Equal(t, http.StatusOK, w.Code)

	var settings models.Settings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, 5.00, settings.CommissionRate)

	w = doRequest(r, http.MethodPatch, "/api/admin/settings", `{"commission_rate":7.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, 7.5, settings.CommissionRate)

	w = doRequest(r, http.MethodPatch, "/api/admin/settings", `{"commission_rate":150}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetrics(t *testing.T) {
	r, store := setupRouter(t)

	admin := models.User{Username: "admin", IsAdmin: true}
	require.NoError(t, store.CreateUser(&admin))
	active := models.User{Username: "active", Balance: 10}
	require.NoError(t, store.CreateUser(&active))
	suspended := models.User{Username: "suspended", IsSuspended: true}
	require.NoError(t, store.CreateUser(&suspended))

	table := models.Table{Name: "T", StakeAmount: 1}
	require.NoError(t, store.CreateTable(&table))

	done := models.Game{TableID: table.ID, Status: models.GameCompleted, TotalPot: 10, Commission: 0.50}
	require.NoError(t, store.CreateGame(&done))

	w := doRequest(r, http.MethodGet, "/api/admin/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	var metrics map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &metrics))
	assert.Equal(t, float64(2), metrics["total_players"], "admins are not players")
	assert.Equal(t, float64(1), metrics["active_players"])
	assert.Equal(t, float64(1), metrics["total_tables"])
	assert.Equal(t, float64(1), metrics["games_completed"])
	assert.Equal(t, 0.50, metrics["total_commission_collected"])
	assert.Equal(t, float64(10), metrics["total_pots_distributed"])
}
