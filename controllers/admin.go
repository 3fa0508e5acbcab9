package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/services"
	"github.com/lionbet-games/poker-backend/storage"
)

// CreateTable creates a poker table
func CreateTable(c *gin.Context) {
	var req struct {
		Name        string  `json:"name" binding:"required"`
		StakeAmount float64 `json:"stake_amount" binding:"required"`
		Password    string  `json:"password"`
		MaxPlayers  int     `json:"max_players"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.StakeAmount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "stake_amount must be positive"})
		return
	}

	table := models.Table{
		Name:        req.Name,
		StakeAmount: req.StakeAmount,
		Password:    req.Password,
		IsPrivate:   req.Password != "",
		MaxPlayers:  req.MaxPlayers,
	}
	if table.MaxPlayers == 0 {
		table.MaxPlayers = 6
	}
	if err := Store.CreateTable(&table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create table"})
		return
	}

	c.JSON(http.StatusCreated, table)
}

// UpdateTable edits a table's configuration
func UpdateTable(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table id"})
		return
	}

	table, err := Store.GetTable(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var req struct {
		Name        *string  `json:"name"`
		StakeAmount *float64 `json:"stake_amount"`
		Password    *string  `json:"password"`
		MaxPlayers  *int     `json:"max_players"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name != nil {
		table.Name = *req.Name
	}
	if req.StakeAmount != nil {
		table.StakeAmount = *req.StakeAmount
	}
	if req.Password != nil {
		table.Password = *req.Password
		table.IsPrivate = *req.Password != ""
	}
	if req.MaxPlayers != nil {
		table.MaxPlayers = *req.MaxPlayers
	}

	if err := Store.UpdateTable(&table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update table"})
		return
	}
	c.JSON(http.StatusOK, table)
}

// DeleteTable removes a table. Any in-flight game keeps running; only
// new games are prevented.
func DeleteTable(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid table id"})
		return
	}
	if err := Store.DeleteTable(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete table"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListUsers returns all users
func ListUsers(c *gin.Context) {
	users, err := Store.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser edits a user's balance or suspension flag
func UpdateUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	user, err := Store.GetUser(uint(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var req struct {
		Balance     *float64 `json:"balance"`
		IsSuspended *bool    `json:"is_suspended"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Balance != nil {
		user.Balance = *req.Balance
	}
	if req.IsSuspended != nil {
		user.IsSuspended = *req.IsSuspended
	}

	if err := Store.UpdateUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user
func DeleteUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if err := Store.DeleteUser(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetSettings returns house settings
func GetSettings(c *gin.Context) {
	settings, err := Store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings edits the commission rate
func UpdateSettings(c *gin.Context) {
	var req struct {
		CommissionRate *float64 `json:"commission_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := Store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}
	if req.CommissionRate != nil {
		if *req.CommissionRate < 0 || *req.CommissionRate > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "commission_rate must be between 0 and 100"})
			return
		}
		settings.CommissionRate = services.Round2(*req.CommissionRate)
	}

	if err := Store.UpdateSettings(&settings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetMetrics aggregates house metrics across completed games
func GetMetrics(c *gin.Context) {
	users, err := Store.ListUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch metrics"})
		return
	}
	tables, err := Store.ListTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch metrics"})
		return
	}
	settings, err := Store.GetSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch metrics"})
		return
	}
	games, err := Store.ListCompletedGames()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch metrics"})
		return
	}

	var totalCommission, totalPots float64
	for _, game := range games {
		totalCommission = services.Round2(totalCommission + game.Commission)
		totalPots = services.Round2(totalPots + game.TotalPot)
	}

	totalPlayers, activePlayers := 0, 0
	for _, user := range users {
		if user.IsAdmin {
			continue
		}
		totalPlayers++
		if !user.IsSuspended {
			activePlayers++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"total_players":              totalPlayers,
		"active_players":             activePlayers,
		"total_tables":               len(tables),
		"games_completed":            len(games),
		"total_commission_collected": totalCommission,
		"total_pots_distributed":     totalPots,
		"commission_rate":            settings.CommissionRate,
	})
}

// GetAuditLogs returns the most recent audit events, optionally scoped
// to one game via ?game_id=
func GetAuditLogs(c *gin.Context) {
	if v := c.Query("game_id"); v != "" {
		gameID, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game id"})
			return
		}
		logs, err := Store.GetGameAuditLogs(uint(gameID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}
		c.JSON(http.StatusOK, logs)
		return
	}

	limit := 100
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	logs, err := Store.ListAuditLogs(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}
