package services

import "errors"

var (
	// ErrInsufficientFunds rejects a join whose balance does not cover a
	// three-round reserve, or an ante debit that would go negative.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrTableFull rejects a join when all seats are taken.
	ErrTableFull = errors.New("table full")

	// ErrGameInProgress rejects a new seat once round one has locked the
	// field. Players already seated may still reconnect.
	ErrGameInProgress = errors.New("game already in progress")

	// ErrGameClosed marks an actor that has completed and been torn down.
	ErrGameClosed = errors.New("game closed")

	// ErrEvaluation is a precondition violation in the hand evaluator
	// input. It indicates a dealing bug upstream, not a user error.
	ErrEvaluation = errors.New("malformed hand input")
)
