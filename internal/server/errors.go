package server

import (
	"errors"

	"github.com/lox/holdem-tables/internal/game"
	"github.com/lox/holdem-tables/internal/table"
)

var (
	ErrNotJoined    = errors.New("server: join a table first")
	ErrMissingTable = errors.New("server: table code required")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrSeatTaken, "seat_taken"},
	{game.ErrNotYourTurn, "not_your_turn"},
	{game.ErrInvalidRaise, "invalid_raise"},
	{game.ErrInsufficientChips, "insufficient_chips"},
	{game.ErrAlreadySeated, "already_seated"},
	{game.ErrInvalidSeat, "invalid_seat"},
	{game.ErrPlayerNotFound, "player_not_found"},
	{game.ErrInvalidAction, "invalid_action"},
	{game.ErrHandInProgress, "hand_in_progress"},
	{game.ErrNotEnoughPlayers, "not_enough_players"},
	{table.ErrTableNotFound, "table_not_found"},
	{ErrNotJoined, "not_joined"},
	{ErrMissingTable, "missing_table"},
}

// errorCode maps a rejection to the code sent to the client.
func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "request_failed"
}
