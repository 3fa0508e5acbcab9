package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
)

type tableListing struct {
	models.Table
	PlayerCount int      `json:"player_count"`
	PlayerNames []string `json:"player_names"`
}

// ListTables returns all tables with their current seated players
func ListTables(c *gin.Context) {
	tables, err := Store.ListTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tables"})
		return
	}

	listings := make([]tableListing, 0, len(tables))
	for _, table := range tables {
		listing := tableListing{Table: table, PlayerNames: []string{}}

		game, err := Store.GetOpenGameByTable(table.ID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tables"})
			return
		}
		if err == nil {
			players, err := Store.GetGamePlayers(game.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tables"})
				return
			}
			for _, p := range players {
				if !p.IsActive {
					continue
				}
				listing.PlayerCount++
				name := "Unknown"
				if user, err := Store.GetUser(p.UserID); err == nil {
					name = user.Username
				}
				listing.PlayerNames = append(listing.PlayerNames, name)
			}
		}

		listings = append(listings, listing)
	}

	c.JSON(http.StatusOK, listings)
}
