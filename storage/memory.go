package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/lionbet-games/poker-backend/models"
)

// MemoryStorage is a mutex-guarded in-memory Storage used by tests and
// local development. Records are copied in and out so callers never
// share memory with the store.
type MemoryStorage struct {
	mu sync.Mutex

	nextID      uint
	users       map[uint]models.User
	tables      map[uint]models.Table
	games       map[uint]models.Game
	gamePlayers map[uint]models.GamePlayer
	rounds      map[uint]models.Round
	settings    *models.Settings
	auditLogs   []models.AuditLog
	playerStats map[uint]models.PlayerStats // keyed by user id
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		nextID:      1,
		users:       make(map[uint]models.User),
		tables:      make(map[uint]models.Table),
		games:       make(map[uint]models.Game),
		gamePlayers: make(map[uint]models.GamePlayer),
		rounds:      make(map[uint]models.Round),
		playerStats: make(map[uint]models.PlayerStats),
	}
}

func (s *MemoryStorage) id() uint {
	id := s.nextID
	s.nextID++
	return id
}

// -------------------- Users --------------------

func (s *MemoryStorage) GetUser(id uint) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStorage) GetUserByUsername(username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemoryStorage) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == 0 {
		user.ID = s.id()
	}
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStorage) UpdateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStorage) DeleteUser(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

func (s *MemoryStorage) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// -------------------- Tables --------------------

func (s *MemoryStorage) GetTable(id uint) (models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.tables[id]
	if !ok {
		return models.Table{}, ErrNotFound
	}
	return table, nil
}

func (s *MemoryStorage) ListTables() ([]models.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tables := make([]models.Table, 0, len(s.tables))
	for _, table := range s.tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].ID < tables[j].ID })
	return tables, nil
}

func (s *MemoryStorage) CreateTable(table *models.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if table.ID == 0 {
		table.ID = s.id()
	}
	if table.MaxPlayers == 0 {
		table.MaxPlayers = 6
	}
	table.CreatedAt = time.Now()
	s.tables[table.ID] = *table
	return nil
}

func (s *MemoryStorage) UpdateTable(table *models.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[table.ID]; !ok {
		return ErrNotFound
	}
	s.tables[table.ID] = *table
	return nil
}

func (s *MemoryStorage) DeleteTable(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, id)
	return nil
}

// -------------------- Games --------------------

func (s *MemoryStorage) GetGame(id uint) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return models.Game{}, ErrNotFound
	}
	return game, nil
}

func (s *MemoryStorage) GetOpenGameByTable(tableID uint) (models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, game := range s.games {
		if game.TableID == tableID && game.Status != models.GameCompleted {
			return game, nil
		}
	}
	return models.Game{}, ErrNotFound
}

func (s *MemoryStorage) ListCompletedGames() ([]models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var games []models.Game
	for _, game := range s.games {
		if game.Status == models.GameCompleted {
			games = append(games, game)
		}
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, nil
}

func (s *MemoryStorage) CreateGame(game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game.ID == 0 {
		game.ID = s.id()
	}
	game.CreatedAt = time.Now()
	s.games[game.ID] = *game
	return nil
}

func (s *MemoryStorage) UpdateGame(game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return ErrNotFound
	}
	game.UpdatedAt = time.Now()
	s.games[game.ID] = *game
	return nil
}

// -------------------- Game players --------------------

func (s *MemoryStorage) GetGamePlayers(gameID uint) ([]models.GamePlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var players []models.GamePlayer
	for _, player := range s.gamePlayers {
		if player.GameID == gameID {
			players = append(players, player)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].SeatPosition < players[j].SeatPosition
	})
	return players, nil
}

func (s *MemoryStorage) GetGamePlayer(gameID, userID uint) (models.GamePlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, player := range s.gamePlayers {
		if player.GameID == gameID && player.UserID == userID {
			return player, nil
		}
	}
	return models.GamePlayer{}, ErrNotFound
}

func (s *MemoryStorage) CreateGamePlayer(player *models.GamePlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player.ID == 0 {
		player.ID = s.id()
	}
	player.JoinedAt = time.Now()
	s.gamePlayers[player.ID] = *player
	return nil
}

func (s *MemoryStorage) UpdateGamePlayer(player *models.GamePlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gamePlayers[player.ID]; !ok {
		return ErrNotFound
	}
	s.gamePlayers[player.ID] = *player
	return nil
}

// -------------------- Rounds --------------------

func (s *MemoryStorage) GetGameRounds(gameID uint) ([]models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var rounds []models.Round
	for _, round := range s.rounds {
		if round.GameID == gameID {
			rounds = append(rounds, round)
		}
	}
	sort.Slice(rounds, func(i, j int) bool {
		return rounds[i].RoundNumber < rounds[j].RoundNumber
	})
	return rounds, nil
}

func (s *MemoryStorage) CreateRound(round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if round.ID == 0 {
		round.ID = s.id()
	}
	round.StartedAt = time.Now()
	s.rounds[round.ID] = *round
	return nil
}

func (s *MemoryStorage) UpdateRound(round *models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rounds[round.ID]; !ok {
		return ErrNotFound
	}
	s.rounds[round.ID] = *round
	return nil
}

// -------------------- Settings --------------------

func (s *MemoryStorage) GetSettings() (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = &models.Settings{ID: s.id(), CommissionRate: 5.00}
	}
	return *s.settings, nil
}

func (s *MemoryStorage) UpdateSettings(settings *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.UpdatedAt = time.Now()
	copied := *settings
	s.settings = &copied
	return nil
}

// -------------------- Audit log --------------------

func (s *MemoryStorage) CreateAuditLog(log *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if log.ID == 0 {
		log.ID = s.id()
	}
	log.CreatedAt = time.Now()
	s.auditLogs = append(s.auditLogs, *log)
	return nil
}

func (s *MemoryStorage) ListAuditLogs(limit int) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]models.AuditLog, 0, limit)
	for i := len(s.auditLogs) - 1; i >= 0 && len(logs) < limit; i-- {
		logs = append(logs, s.auditLogs[i])
	}
	return logs, nil
}

func (s *MemoryStorage) GetGameAuditLogs(gameID uint) ([]models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var logs []models.AuditLog
	for i := len(s.auditLogs) - 1; i >= 0; i-- {
		if s.auditLogs[i].GameID == gameID {
			logs = append(logs, s.auditLogs[i])
		}
	}
	return logs, nil
}

// -------------------- Player stats --------------------

func (s *MemoryStorage) GetPlayerStats(userID uint) (models.PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.playerStats[userID]
	if !ok {
		return models.PlayerStats{}, ErrNotFound
	}
	return stats, nil
}

func (s *MemoryStorage) UpsertPlayerStats(stats *models.PlayerStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.playerStats[stats.UserID]; ok {
		stats.ID = existing.ID
	} else if stats.ID == 0 {
		stats.ID = s.id()
	}
	stats.UpdatedAt = time.Now()
	s.playerStats[stats.UserID] = *stats
	return nil
}
