package services

import (
	"errors"
	"sync"

	"github.com/coder/quartz"

	"github.com/lionbet-games/poker-backend/models"
	"github.com/lionbet-games/poker-backend/storage"
	"github.com/lionbet-games/poker-backend/utils/logger"
)

// Registry owns the live game actors, one per table. Actors are created
// on first join (reattaching to a persisted open game if one exists) and
// removed when their game completes.
type Registry struct {
	store     storage.Storage
	ledger    *Ledger
	evaluator HandEvaluator
	clock     quartz.Clock

	mu     sync.Mutex
	actors map[uint]*GameActor // keyed by table id
}

// Games is the process-wide registry, set up once at startup.
var Games *Registry

// InitGameService wires the game engine. Must be called before serving
// websocket traffic.
func InitGameService(store storage.Storage, evaluator HandEvaluator, clock quartz.Clock) {
	Games = NewRegistry(store, evaluator, clock)
	logger.Infof("game service initialized")
}

func NewRegistry(store storage.Storage, evaluator HandEvaluator, clock quartz.Clock) *Registry {
	return &Registry{
		store:     store,
		ledger:    NewLedger(store),
		evaluator: evaluator,
		clock:     clock,
		actors:    make(map[uint]*GameActor),
	}
}

// Join seats a user at a table, creating the game actor and the game
// record as needed. Validation errors (unknown table/user, insufficient
// balance, full table) are returned for the caller to surface to the
// requesting client only.
func (r *Registry) Join(tableID, userID uint, c *Client) error {
	table, err := r.store.GetTable(tableID)
	if err != nil {
		return err
	}
	user, err := r.store.GetUser(userID)
	if err != nil {
		return err
	}
	if user.IsSuspended {
		return storage.ErrNotFound
	}

	// The actor can complete and close between lookup and join; retry
	// once against the replacement game.
	for attempt := 0; attempt < 2; attempt++ {
		actor, err := r.actorFor(table)
		if err != nil {
			return err
		}
		err = actor.Join(user.ID, c)
		if errors.Is(err, ErrGameClosed) {
			continue
		}
		return err
	}
	return ErrGameClosed
}

func (r *Registry) actorFor(table models.Table) (*GameActor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if actor, ok := r.actors[table.ID]; ok {
		return actor, nil
	}

	game, err := r.store.GetOpenGameByTable(table.ID)
	if errors.Is(err, storage.ErrNotFound) {
		game = models.Game{TableID: table.ID, Status: models.GameWaiting}
		if err := r.store.CreateGame(&game); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	actor := newGameActor(game, table, r)
	r.actors[table.ID] = actor
	logger.Infof("[Game %d] actor created for table %d", game.ID, table.ID)
	return actor, nil
}

func (r *Registry) remove(tableID uint, actor *GameActor) {
	r.mu.Lock()
	if r.actors[tableID] == actor {
		delete(r.actors, tableID)
	}
	r.mu.Unlock()
}

// ActiveGameCount reports how many actors are live, for health checks.
func (r *Registry) ActiveGameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.actors)
}
