package services

import (
	"fmt"
	"math"
	"sync"

	"github.com/lionbet-games/poker-backend/storage"
	"github.com/lionbet-games/poker-backend/utils/logger"
)

// Round2 rounds a monetary amount to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Ledger applies balance debits and credits against user accounts.
// A user can sit at several tables at once, so every read-modify-write
// runs under that user's lock to avoid lost updates.
type Ledger struct {
	store storage.Storage

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewLedger(store storage.Storage) *Ledger {
	return &Ledger{
		store: store,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (l *Ledger) userLock(userID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[userID] = lock
	}
	return lock
}

// Debit decreases a user's balance by amount and returns the new
// balance. Fails with ErrInsufficientFunds before the balance would go
// negative.
func (l *Ledger) Debit(userID uint, amount float64) (float64, error) {
	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := l.store.GetUser(userID)
	if err != nil {
		return 0, err
	}
	if user.Balance < amount {
		return user.Balance, ErrInsufficientFunds
	}
	user.Balance = Round2(user.Balance - amount)
	if err := l.store.UpdateUser(&user); err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// Credit increases a user's balance by amount. Amount must be >= 0.
func (l *Ledger) Credit(userID uint, amount float64) (float64, error) {
	if amount < 0 {
		return 0, fmt.Errorf("credit amount must be >= 0, got %.2f", amount)
	}

	lock := l.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := l.store.GetUser(userID)
	if err != nil {
		return 0, err
	}
	user.Balance = Round2(user.Balance + amount)
	if err := l.store.UpdateUser(&user); err != nil {
		return 0, err
	}
	return user.Balance, nil
}

// DebitAll collects the same amount from every listed user, all or
// nothing. On any failure the debits already applied are refunded, so
// no partial-debit state survives.
func (l *Ledger) DebitAll(userIDs []uint, amount float64) error {
	debited := make([]uint, 0, len(userIDs))
	for _, userID := range userIDs {
		if _, err := l.Debit(userID, amount); err != nil {
			for _, paid := range debited {
				if _, crErr := l.Credit(paid, amount); crErr != nil {
					logger.Errorf("failed to refund %.2f to user %d after aborted ante: %v", amount, paid, crErr)
				}
			}
			return err
		}
		debited = append(debited, userID)
	}
	return nil
}

// CanAfford reports whether a user's balance covers stake for the given
// number of reserved rounds. Checked at join time only; admission is
// locked in afterwards.
func (l *Ledger) CanAfford(userID uint, stake float64, roundsReserved int) (bool, error) {
	user, err := l.store.GetUser(userID)
	if err != nil {
		return false, err
	}
	return user.Balance >= stake*float64(roundsReserved), nil
}

// CommissionFor computes the house cut for a pot at the given
// percentage rate, rounded to 2 decimals.
func CommissionFor(pot, ratePercent float64) float64 {
	return Round2(pot * ratePercent / 100)
}

// SplitPot divides the distributable amount evenly among n winners,
// each share rounded to 2 decimals. The residual cent error is
// accepted, not redistributed.
func SplitPot(distributable float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return Round2(distributable / float64(n))
}
