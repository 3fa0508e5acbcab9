package services

import (
	"encoding/json"
	"errors"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
	"github.com/lionbet-games/poker-backend/utils/logger"
)

// wsEvent is the envelope for every message pushed to clients.
type wsEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// PlayerView is one seat as a specific viewer may see it. Cards holds
// the player's private cards only in the viewer's own entry; other
// players' hole cards never leave the server.
type PlayerView struct {
	UserID       uint          `json:"userId"`
	Username     string        `json:"username"`
	Balance      float64       `json:"balance"`
	SeatPosition int           `json:"seatPosition"`
	Cards        []models.Card `json:"cards"`
	RoundsWon    int           `json:"roundsWon"`
	IsActive     bool          `json:"isActive"`
	IsConnected  bool          `json:"isConnected"`
}

type RoundWinnerView struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	HandName string `json:"handName"`
}

// GameStateView is the client-consumable snapshot broadcast after every
// state transition.
type GameStateView struct {
	GameID          uint             `json:"gameId"`
	TableID         uint             `json:"tableId"`
	TableName       string           `json:"tableName"`
	StakeAmount     float64          `json:"stakeAmount"`
	Status          string           `json:"status"`
	CurrentRound    int              `json:"currentRound"`
	TotalPot        float64          `json:"totalPot"`
	Players         []PlayerView     `json:"players"`
	CommunityCards  []models.Card    `json:"communityCards"`
	LastRoundWinner *RoundWinnerView `json:"lastRoundWinner,omitempty"`
}

// StateView assembles the snapshot for one viewer. Re-requesting it
// with no intervening transition yields an identical view.
func (a *GameActor) StateView(viewerID uint) (GameStateView, error) {
	game, err := a.store.GetGame(a.gameID)
	if err != nil {
		return GameStateView{}, err
	}
	players, err := a.store.GetGamePlayers(a.gameID)
	if err != nil {
		return GameStateView{}, err
	}
	rounds, err := a.store.GetGameRounds(a.gameID)
	if err != nil {
		return GameStateView{}, err
	}

	var community []models.Card
	var hands map[uint][]models.Card
	for i := range rounds {
		if rounds[i].RoundNumber == game.CurrentRound {
			if community, err = rounds[i].Community(); err != nil {
				return GameStateView{}, err
			}
			if hands, err = rounds[i].Hands(); err != nil {
				return GameStateView{}, err
			}
			break
		}
	}

	a.mu.Lock()
	connected := make(map[uint]bool, len(a.connected))
	for userID, online := range a.connected {
		connected[userID] = online
	}
	a.mu.Unlock()

	view := GameStateView{
		GameID:         game.ID,
		TableID:        a.table.ID,
		TableName:      a.table.Name,
		StakeAmount:    a.table.StakeAmount,
		Status:         game.Status,
		CurrentRound:   game.CurrentRound,
		TotalPot:       game.TotalPot,
		CommunityCards: community,
	}

	for _, p := range players {
		user, err := a.store.GetUser(p.UserID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return GameStateView{}, err
		}
		pv := PlayerView{
			UserID:       p.UserID,
			Username:     user.Username,
			Balance:      user.Balance,
			SeatPosition: p.SeatPosition,
			RoundsWon:    p.RoundsWon,
			IsActive:     p.IsActive,
			IsConnected:  connected[p.UserID],
		}
		if p.UserID == viewerID && game.Status == models.GameInProgress {
			pv.Cards = hands[p.UserID]
		}
		view.Players = append(view.Players, pv)
	}

	// Most recently completed round with a winner, for result display.
	for i := len(rounds) - 1; i >= 0; i-- {
		r := rounds[i]
		if r.CompletedAt == nil || r.WinnerID == nil {
			continue
		}
		winner, err := a.store.GetUser(*r.WinnerID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return GameStateView{}, err
		}
		handName := ""
		if r.WinningHand != nil {
			handName = *r.WinningHand
		}
		view.LastRoundWinner = &RoundWinnerView{
			UserID:   *r.WinnerID,
			Username: winner.Username,
			HandName: handName,
		}
		break
	}

	return view, nil
}

// broadcastState pushes each subscriber their own filtered snapshot.
// Delivery is best effort per client (buffered send, drop on full).
func (a *GameActor) broadcastState() {
	a.mu.Lock()
	clients := make(map[uint]*Client, len(a.clients))
	for userID, c := range a.clients {
		clients[userID] = c
	}
	a.mu.Unlock()

	for userID, c := range clients {
		view, err := a.StateView(userID)
		if err != nil {
			logger.Errorf("[Game %d] failed to build snapshot for user %d: %v", a.gameID, userID, err)
			continue
		}
		payload, err := json.Marshal(wsEvent{Type: "game-state", Data: view})
		if err != nil {
			logger.Errorf("[Game %d] failed to encode snapshot: %v", a.gameID, err)
			continue
		}
		c.trySend(payload)
	}
}

// broadcastEvent pushes the same named event to every subscriber.
func (a *GameActor) broadcastEvent(eventType string, data any) {
	payload, err := json.Marshal(wsEvent{Type: eventType, Data: data})
	if err != nil {
		logger.Errorf("[Game %d] failed to encode %s event: %v", a.gameID, eventType, err)
		return
	}

	a.mu.Lock()
	clients := make([]*Client, 0, len(a.clients))
	for _, c := range a.clients {
		clients = append(clients, c)
	}
	a.mu.Unlock()

	for _, c := range clients {
		c.trySend(payload)
	}
}
