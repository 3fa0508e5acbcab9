package storage

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lionbet-games/poker-backend/models"
)

type gormStorage struct {
	db *gorm.DB
}

// NewGormStorage wraps a connected gorm database in the Storage interface.
func NewGormStorage(db *gorm.DB) Storage {
	return &gormStorage{db: db}
}

func wrapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// -------------------- Users --------------------

func (s *gormStorage) GetUser(id uint) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return models.User{}, wrapErr(err)
	}
	return user, nil
}

func (s *gormStorage) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, wrapErr(err)
	}
	return user, nil
}

func (s *gormStorage) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *gormStorage) UpdateUser(user *models.User) error {
	return s.db.Save(user).Error
}

func (s *gormStorage) DeleteUser(id uint) error {
	return s.db.Delete(&models.User{}, id).Error
}

func (s *gormStorage) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// -------------------- Tables --------------------

func (s *gormStorage) GetTable(id uint) (models.Table, error) {
	var table models.Table
	if err := s.db.First(&table, id).Error; err != nil {
		return models.Table{}, wrapErr(err)
	}
	return table, nil
}

func (s *gormStorage) ListTables() ([]models.Table, error) {
	var tables []models.Table
	if err := s.db.Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (s *gormStorage) CreateTable(table *models.Table) error {
	return s.db.Create(table).Error
}

func (s *gormStorage) UpdateTable(table *models.Table) error {
	return s.db.Save(table).Error
}

func (s *gormStorage) DeleteTable(id uint) error {
	return s.db.Delete(&models.Table{}, id).Error
}

// -------------------- Games --------------------

func (s *gormStorage) GetGame(id uint) (models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, id).Error; err != nil {
		return models.Game{}, wrapErr(err)
	}
	return game, nil
}

// GetOpenGameByTable returns the single non-completed game at a table.
func (s *gormStorage) GetOpenGameByTable(tableID uint) (models.Game, error) {
	var game models.Game
	err := s.db.
		Where("table_id = ? AND status <> ?", tableID, models.GameCompleted).
		First(&game).Error
	if err != nil {
		return models.Game{}, wrapErr(err)
	}
	return game, nil
}

func (s *gormStorage) ListCompletedGames() ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Where("status = ?", models.GameCompleted).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (s *gormStorage) CreateGame(game *models.Game) error {
	return s.db.Create(game).Error
}

func (s *gormStorage) UpdateGame(game *models.Game) error {
	return s.db.Save(game).Error
}

// -------------------- Game players --------------------

func (s *gormStorage) GetGamePlayers(gameID uint) ([]models.GamePlayer, error) {
	var players []models.GamePlayer
	if err := s.db.Where("game_id = ?", gameID).Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (s *gormStorage) GetGamePlayer(gameID, userID uint) (models.GamePlayer, error) {
	var player models.GamePlayer
	err := s.db.Where("game_id = ? AND user_id = ?", gameID, userID).First(&player).Error
	if err != nil {
		return models.GamePlayer{}, wrapErr(err)
	}
	return player, nil
}

func (s *gormStorage) CreateGamePlayer(player *models.GamePlayer) error {
	return s.db.Create(player).Error
}

func (s *gormStorage) UpdateGamePlayer(player *models.GamePlayer) error {
	return s.db.Save(player).Error
}

// -------------------- Rounds --------------------

func (s *gormStorage) GetGameRounds(gameID uint) ([]models.Round, error) {
	var rounds []models.Round
	err := s.db.Where("game_id = ?", gameID).Order("round_number ASC").Find(&rounds).Error
	if err != nil {
		return nil, err
	}
	return rounds, nil
}

func (s *gormStorage) CreateRound(round *models.Round) error {
	return s.db.Create(round).Error
}

func (s *gormStorage) UpdateRound(round *models.Round) error {
	return s.db.Save(round).Error
}

// -------------------- Settings --------------------

// GetSettings returns the singleton settings row, creating it with
// defaults on first use.
func (s *gormStorage) GetSettings() (models.Settings, error) {
	var settings models.Settings
	err := s.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.Settings{CommissionRate: 5.00}
		if err := s.db.Create(&settings).Error; err != nil {
			return models.Settings{}, err
		}
		return settings, nil
	}
	if err != nil {
		return models.Settings{}, err
	}
	return settings, nil
}

func (s *gormStorage) UpdateSettings(settings *models.Settings) error {
	return s.db.Save(settings).Error
}

// -------------------- Audit log --------------------

func (s *gormStorage) CreateAuditLog(log *models.AuditLog) error {
	return s.db.Create(log).Error
}

func (s *gormStorage) ListAuditLogs(limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *gormStorage) GetGameAuditLogs(gameID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.Where("game_id = ?", gameID).Order("created_at DESC").Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// -------------------- Player stats --------------------

func (s *gormStorage) GetPlayerStats(userID uint) (models.PlayerStats, error) {
	var stats models.PlayerStats
	if err := s.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
		return models.PlayerStats{}, wrapErr(err)
	}
	return stats, nil
}

func (s *gormStorage) UpsertPlayerStats(stats *models.PlayerStats) error {
	if stats.ID == 0 {
		var existing models.PlayerStats
		err := s.db.Where("user_id = ?", stats.UserID).First(&existing).Error
		if err == nil {
			stats.ID = existing.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return s.db.Save(stats).Error
}
