package storage

import (
	"errors"

	"github.com/lionbet-games/poker-backend/models"
)

// ErrNotFound is returned when a record does not exist. Any other error
// from a Storage method is an I/O failure and fatal to the caller's
// in-flight operation.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence capability consumed by the game engine and
// the HTTP controllers.
type Storage interface {
	// Users
	GetUser(id uint) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	CreateUser(user *models.User) error
	UpdateUser(user *models.User) error
	DeleteUser(id uint) error
	ListUsers() ([]models.User, error)

	// Tables
	GetTable(id uint) (models.Table, error)
	ListTables() ([]models.Table, error)
	CreateTable(table *models.Table) error
	UpdateTable(table *models.Table) error
	DeleteTable(id uint) error

	// Games
	GetGame(id uint) (models.Game, error)
	GetOpenGameByTable(tableID uint) (models.Game, error)
	ListCompletedGames() ([]models.Game, error)
	CreateGame(game *models.Game) error
	UpdateGame(game *models.Game) error

	// Game players
	GetGamePlayers(gameID uint) ([]models.GamePlayer, error)
	GetGamePlayer(gameID, userID uint) (models.GamePlayer, error)
	CreateGamePlayer(player *models.GamePlayer) error
	UpdateGamePlayer(player *models.GamePlayer) error

	// Rounds
	GetGameRounds(gameID uint) ([]models.Round, error)
	CreateRound(round *models.Round) error
	UpdateRound(round *models.Round) error

	// Settings
	GetSettings() (models.Settings, error)
	UpdateSettings(settings *models.Settings) error

	// Audit log
	CreateAuditLog(log *models.AuditLog) error
	ListAuditLogs(limit int) ([]models.AuditLog, error)
	GetGameAuditLogs(gameID uint) ([]models.AuditLog, error)

	// Player stats
	GetPlayerStats(userID uint) (models.PlayerStats, error)
	UpsertPlayerStats(stats *models.PlayerStats) error
}
