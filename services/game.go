package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/coder/quartz"
	"gorm.io/datatypes"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
	"github.com/lionbet-games/poker-backend/utils/logger"
)

const (
	// MinPlayersToStart is the seated-player threshold that arms the
	// game start timer.
	MinPlayersToStart = 2

	// JoinReserveRounds is the number of antes a balance must cover at
	// join time. Admission is locked in afterwards.
	JoinReserveRounds = 3

	maxRounds   = 3
	crownsToWin = 2

	// StartDebounce gives near-simultaneous joiners a window before
	// round one locks the field.
	StartDebounce = 2 * time.Second

	// RevealDelay is how long players get to look at their hands
	// before the round is evaluated. No input is possible meanwhile.
	RevealDelay = 12 * time.Second

	// NextRoundDelay shows the round result before the next deal or
	// the game-end settlement.
	NextRoundDelay = 15 * time.Second
)

// GameActor is the single authority for one game: it owns every state
// transition, timer and presence record, so rounds can never be dealt
// or settled twice. All transitions are serialized on its mutex.
type GameActor struct {
	gameID uint
	table  models.Table

	store     storage.Storage
	ledger    *Ledger
	evaluator HandEvaluator
	clock     quartz.Clock
	registry  *Registry

	mu         sync.Mutex
	clients    map[uint]*Client
	connected  map[uint]bool
	startTimer *quartz.Timer
	roundTimer *quartz.Timer
	closed     bool

	// pendingEvents buffers events produced under the lock; they are
	// emitted in order once the lock is released.
	pendingEvents []wsEvent
}

func newGameActor(game models.Game, table models.Table, r *Registry) *GameActor {
	return &GameActor{
		gameID:    game.ID,
		table:     table,
		store:     r.store,
		ledger:    r.ledger,
		evaluator: r.evaluator,
		clock:     r.clock,
		registry:  r,
		clients:   make(map[uint]*Client),
		connected: make(map[uint]bool),
	}
}

// GameID exposes the actor's game for handlers and tests.
func (a *GameActor) GameID() uint {
	return a.gameID
}

// -------------------- Joining and presence --------------------

// Join seats the user (lowest free seat) or reconnects an existing
// seat. A new seat requires a waiting game, a free position and a
// three-round balance reserve. Idempotent for a seated user.
func (a *GameActor) Join(userID uint, c *Client) error {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()
		return ErrGameClosed
	}

	game, err := a.store.GetGame(a.gameID)
	if err != nil {
		a.mu.Unlock()
		return err
	}

	_, err = a.store.GetGamePlayer(a.gameID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		if err := a.seatLocked(game, userID); err != nil {
			a.mu.Unlock()
			return err
		}
	} else if err != nil {
		a.mu.Unlock()
		return err
	}

	if c != nil {
		if old, ok := a.clients[userID]; ok && old != c {
			old.Close()
		}
		a.clients[userID] = c
		c.setActor(a)
	}
	a.connected[userID] = true

	if game.Status == models.GameWaiting && a.startTimer == nil {
		count, err := a.activePlayerCountLocked()
		if err != nil {
			a.mu.Unlock()
			return err
		}
		if count >= MinPlayersToStart {
			a.startTimer = a.clock.AfterFunc(StartDebounce, a.startGame)
			logger.Infof("[Game %d] %d players seated, starting in %s", a.gameID, count, StartDebounce)
		}
	}

	a.mu.Unlock()
	a.broadcastState()
	return nil
}

func (a *GameActor) seatLocked(game models.Game, userID uint) error {
	if game.Status != models.GameWaiting {
		return ErrGameInProgress
	}

	ok, err := a.ledger.CanAfford(userID, a.table.StakeAmount, JoinReserveRounds)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficientFunds
	}

	players, err := a.store.GetGamePlayers(a.gameID)
	if err != nil {
		return err
	}
	taken := make(map[int]bool)
	active := 0
	for _, p := range players {
		if p.IsActive {
			taken[p.SeatPosition] = true
			active++
		}
	}
	if active >= a.table.MaxPlayers {
		return ErrTableFull
	}
	seat := 0
	for seat < a.table.MaxPlayers && taken[seat] {
		seat++
	}
	if seat >= a.table.MaxPlayers {
		return ErrTableFull
	}

	player := models.GamePlayer{
		GameID:       a.gameID,
		UserID:       userID,
		SeatPosition: seat,
		IsActive:     true,
	}
	if err := a.store.CreateGamePlayer(&player); err != nil {
		return err
	}
	logger.Infof("[Game %d] user %d seated at position %d", a.gameID, userID, seat)
	return nil
}

// Disconnect drops the connection but keeps the seat: a disconnected
// player stays active and keeps paying antes.
func (a *GameActor) Disconnect(userID uint) {
	a.mu.Lock()
	if c, ok := a.clients[userID]; ok {
		delete(a.clients, userID)
		c.Close()
	}
	if _, ok := a.connected[userID]; ok {
		a.connected[userID] = false
	}
	closed := a.closed
	a.mu.Unlock()

	logger.Infof("[Game %d] user %d disconnected", a.gameID, userID)
	if !closed {
		a.broadcastState()
	}
}

// detach removes a client that moved to another table without marking
// a disconnect-driven close.
func (a *GameActor) detach(userID uint, c *Client) {
	a.mu.Lock()
	if a.clients[userID] == c {
		delete(a.clients, userID)
		a.connected[userID] = false
	}
	a.mu.Unlock()
}

func (a *GameActor) activePlayerCountLocked() (int, error) {
	players, err := a.store.GetGamePlayers(a.gameID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, p := range players {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}

func (a *GameActor) activePlayersLocked() ([]models.GamePlayer, error) {
	players, err := a.store.GetGamePlayers(a.gameID)
	if err != nil {
		return nil, err
	}
	active := players[:0]
	for _, p := range players {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active, nil
}

// -------------------- Game lifecycle --------------------

func (a *GameActor) startGame() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.startTimer = nil

	game, err := a.store.GetGame(a.gameID)
	if err != nil {
		a.mu.Unlock()
		a.fail("start game", err)
		return
	}
	if game.Status != models.GameWaiting {
		a.mu.Unlock()
		return
	}

	now := a.clock.Now()
	game.Status = models.GameInProgress
	game.CurrentRound = 1
	game.StartedAt = &now
	if err := a.store.UpdateGame(&game); err != nil {
		a.mu.Unlock()
		a.fail("start game", err)
		return
	}
	a.audit("game_started", nil, map[string]any{"table_id": a.table.ID})
	logger.Infof("[Game %d] started", a.gameID)

	if err := a.startRoundLocked(1); err != nil {
		a.mu.Unlock()
		a.fail("start round 1", err)
		return
	}
	a.mu.Unlock()
	a.broadcastState()
}

// startRoundLocked collects antes, deals and arms the reveal timer.
// Ante collection is all or nothing; any failure aborts the round with
// no partial debits left behind.
func (a *GameActor) startRoundLocked(roundNumber int) error {
	game, err := a.store.GetGame(a.gameID)
	if err != nil {
		return err
	}
	players, err := a.activePlayersLocked()
	if err != nil {
		return err
	}

	userIDs := make([]uint, len(players))
	for i, p := range players {
		userIDs[i] = p.UserID
	}
	if err := a.ledger.DebitAll(userIDs, a.table.StakeAmount); err != nil {
		return fmt.Errorf("collect antes: %w", err)
	}

	game.TotalPot = Round2(game.TotalPot + a.table.StakeAmount*float64(len(players)))
	if err := a.store.UpdateGame(&game); err != nil {
		return err
	}

	deck := NewDeck(rand.New(rand.NewSource(time.Now().UnixNano())))
	community := deck.Deal(models.CommunitySize)
	hands := make(map[uint][]models.Card, len(players))
	for _, p := range players {
		hands[p.UserID] = deck.Deal(models.HandSize)
	}

	round := models.Round{GameID: a.gameID, RoundNumber: roundNumber}
	if err := round.SetCards(community, hands); err != nil {
		return err
	}
	if err := a.store.CreateRound(&round); err != nil {
		return err
	}

	a.audit("round_started", nil, map[string]any{
		"round_number": roundNumber,
		"player_count": len(players),
	})
	logger.Infof("[Game %d] round %d dealt to %d players, pot %.2f",
		a.gameID, roundNumber, len(players), game.TotalPot)

	a.roundTimer = a.clock.AfterFunc(RevealDelay, func() {
		a.resolveRound(roundNumber)
	})
	return nil
}

// resolveRound evaluates the hands once the reveal window elapses and
// either crowns a round winner, records a tie, ends the game, or
// schedules the next round.
func (a *GameActor) resolveRound(roundNumber int) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.roundTimer = nil

	rounds, err := a.store.GetGameRounds(a.gameID)
	if err != nil {
		a.mu.Unlock()
		a.fail("resolve round", err)
		return
	}
	var round *models.Round
	for i := range rounds {
		if rounds[i].RoundNumber == roundNumber {
			round = &rounds[i]
			break
		}
	}
	if round == nil {
		a.mu.Unlock()
		a.fail("resolve round", fmt.Errorf("round %d not found", roundNumber))
		return
	}

	players, err := a.activePlayersLocked()
	if err != nil {
		a.mu.Unlock()
		a.fail("resolve round", err)
		return
	}

	community, err := round.Community()
	if err == nil {
		var hands map[uint][]models.Card
		hands, err = round.Hands()
		if err == nil {
			err = a.settleRoundLocked(round, players, community, hands, roundNumber)
		}
	}
	if err != nil {
		a.mu.Unlock()
		a.fail("resolve round", err)
		return
	}

	events := a.pendingEvents
	a.pendingEvents = nil
	a.mu.Unlock()

	for _, e := range events {
		a.broadcastEvent(e.Type, e.Data)
	}
	a.broadcastState()
}

func (a *GameActor) queueEvent(eventType string, data any) {
	a.pendingEvents = append(a.pendingEvents, wsEvent{Type: eventType, Data: data})
}

func (a *GameActor) settleRoundLocked(round *models.Round, players []models.GamePlayer,
	community []models.Card, hands map[uint][]models.Card, roundNumber int) error {

	input := make(map[uint][]models.Card, len(players))
	for _, p := range players {
		hand := hands[p.UserID]
		combined := make([]models.Card, 0, len(hand)+len(community))
		combined = append(combined, hand...)
		combined = append(combined, community...)
		input[p.UserID] = combined
	}

	result, err := a.evaluator.Evaluate(input)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	if len(result.Winners) == 1 {
		return a.recordWinnerLocked(round, players, result, roundNumber, now)
	}
	return a.recordTieLocked(round, roundNumber, now)
}

func (a *GameActor) recordWinnerLocked(round *models.Round, players []models.GamePlayer,
	result EvalResult, roundNumber int, now time.Time) error {

	winnerID := result.Winners[0]
	handName := result.HandNames[winnerID]

	round.WinnerID = &winnerID
	round.WinningHand = &handName
	round.IsTie = false
	round.CompletedAt = &now
	if err := a.store.UpdateRound(round); err != nil {
		return err
	}

	var winner models.GamePlayer
	for _, p := range players {
		if p.UserID == winnerID {
			winner = p
			break
		}
	}
	winner.RoundsWon++
	if err := a.store.UpdateGamePlayer(&winner); err != nil {
		return err
	}

	isTableWinner := winner.RoundsWon >= crownsToWin
	a.audit("round_winner", &winnerID, map[string]any{
		"round_number":    roundNumber,
		"hand_name":       handName,
		"is_table_winner": isTableWinner,
	})
	logger.Infof("[Game %d] round %d winner: user %d with %s", a.gameID, roundNumber, winnerID, handName)

	username := ""
	if user, err := a.store.GetUser(winnerID); err == nil {
		username = user.Username
	}
	a.queueEvent("round-winner", map[string]any{
		"userId":        winnerID,
		"username":      username,
		"handName":      handName,
		"isTableWinner": isTableWinner,
	})

	if isTableWinner {
		// Two crowns: the game ends now, remaining rounds never deal.
		return a.endGameLocked([]models.GamePlayer{winner})
	}
	return a.continueGameLocked(roundNumber)
}

func (a *GameActor) recordTieLocked(round *models.Round, roundNumber int, now time.Time) error {
	round.IsTie = true
	round.CompletedAt = &now
	if err := a.store.UpdateRound(round); err != nil {
		return err
	}
	logger.Infof("[Game %d] round %d is a tie", a.gameID, roundNumber)
	a.queueEvent("round-tie", nil)
	return a.continueGameLocked(roundNumber)
}

// continueGameLocked schedules the next round or ends the game after
// round three with the best-of-three fallback: every active player who
// won at least one round shares the pot.
func (a *GameActor) continueGameLocked(roundNumber int) error {
	if roundNumber < maxRounds {
		next := roundNumber + 1
		a.roundTimer = a.clock.AfterFunc(NextRoundDelay, func() {
			a.nextRound(next)
		})
		return nil
	}

	players, err := a.activePlayersLocked()
	if err != nil {
		return err
	}
	var winners []models.GamePlayer
	for _, p := range players {
		if p.RoundsWon > 0 {
			winners = append(winners, p)
		}
	}
	return a.endGameLocked(winners)
}

func (a *GameActor) nextRound(roundNumber int) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.roundTimer = nil

	game, err := a.store.GetGame(a.gameID)
	if err == nil {
		game.CurrentRound = roundNumber
		err = a.store.UpdateGame(&game)
	}
	if err == nil {
		err = a.startRoundLocked(roundNumber)
	}
	if err != nil {
		a.mu.Unlock()
		a.fail(fmt.Sprintf("start round %d", roundNumber), err)
		return
	}
	a.mu.Unlock()
	a.broadcastState()
}

// endGameLocked settles the pot: commission to the house, the rest
// split evenly among winners, then tears the actor down. Guarded by the
// completed-status check so a settlement can never pay twice. An empty
// winner set turns the entire pot into commission.
func (a *GameActor) endGameLocked(winners []models.GamePlayer) error {
	game, err := a.store.GetGame(a.gameID)
	if err != nil {
		return err
	}
	if game.Status == models.GameCompleted {
		return nil
	}

	settings, err := a.store.GetSettings()
	if err != nil {
		return err
	}

	var commission, share float64
	if len(winners) == 0 {
		commission = game.TotalPot
	} else {
		commission = CommissionFor(game.TotalPot, settings.CommissionRate)
		share = SplitPot(Round2(game.TotalPot-commission), len(winners))
	}

	winnerIDs := make([]uint, 0, len(winners))
	winnerSet := make(map[uint]bool, len(winners))
	for i := range winners {
		w := &winners[i]
		if _, err := a.ledger.Credit(w.UserID, share); err != nil {
			return fmt.Errorf("credit winner %d: %w", w.UserID, err)
		}
		w.Winnings = share
		if err := a.store.UpdateGamePlayer(w); err != nil {
			return err
		}
		winnerIDs = append(winnerIDs, w.UserID)
		winnerSet[w.UserID] = true
	}

	if err := a.updateStatsLocked(game, winnerSet, share); err != nil {
		logger.Errorf("[Game %d] failed to update player stats: %v", a.gameID, err)
	}

	now := a.clock.Now()
	game.Status = models.GameCompleted
	game.Commission = commission
	game.CompletedAt = &now
	if err := a.store.UpdateGame(&game); err != nil {
		return err
	}

	a.audit("game_ended", nil, map[string]any{
		"winner_count": len(winners),
		"total_pot":    game.TotalPot,
		"commission":   commission,
	})
	logger.Infof("[Game %d] ended: %d winner(s), pot %.2f, commission %.2f",
		a.gameID, len(winners), game.TotalPot, commission)

	a.queueEvent("game-ended", map[string]any{
		"winnerIds":  winnerIDs,
		"commission": commission,
	})
	a.teardownLocked()
	return nil
}

func (a *GameActor) updateStatsLocked(game models.Game, winnerSet map[uint]bool, share float64) error {
	players, err := a.store.GetGamePlayers(a.gameID)
	if err != nil {
		return err
	}
	wagered := Round2(a.table.StakeAmount * float64(game.CurrentRound))
	for _, p := range players {
		stats, err := a.store.GetPlayerStats(p.UserID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		stats.UserID = p.UserID
		stats.GamesPlayed++
		stats.RoundsWon += p.RoundsWon
		if p.IsActive {
			stats.TotalWagered = Round2(stats.TotalWagered + wagered)
		}
		if winnerSet[p.UserID] {
			stats.GamesWon++
			stats.TotalWon = Round2(stats.TotalWon + share)
		}
		if err := a.store.UpsertPlayerStats(&stats); err != nil {
			return err
		}
	}
	return nil
}

// teardownLocked releases everything the actor owns: stale timers must
// be cancelled, not merely ignored, so they cannot fire against a
// superseded game.
func (a *GameActor) teardownLocked() {
	a.closed = true
	if a.startTimer != nil {
		a.startTimer.Stop()
		a.startTimer = nil
	}
	if a.roundTimer != nil {
		a.roundTimer.Stop()
		a.roundTimer = nil
	}
	a.registry.remove(a.table.ID, a)
}

// fail halts the game on a mid-round storage or evaluation error: no
// retry (a repeated payout could double-pay), timers stopped, error
// surfaced to every subscriber.
func (a *GameActor) fail(op string, err error) {
	logger.Errorf("[Game %d] %s failed: %v", a.gameID, op, err)
	a.mu.Lock()
	if a.startTimer != nil {
		a.startTimer.Stop()
		a.startTimer = nil
	}
	if a.roundTimer != nil {
		a.roundTimer.Stop()
		a.roundTimer = nil
	}
	a.mu.Unlock()
	a.broadcastEvent("error", map[string]any{"message": "game halted due to an internal error"})
}

func (a *GameActor) audit(eventType string, userID *uint, details map[string]any) {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte("{}")
	}
	log := models.AuditLog{
		EventType: eventType,
		GameID:    a.gameID,
		UserID:    userID,
		Details:   datatypes.JSON(payload),
	}
	if err := a.store.CreateAuditLog(&log); err != nil {
		logger.Errorf("[Game %d] failed to write audit log %s: %v", a.gameID, eventType, err)
	}
}
