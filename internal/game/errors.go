package game

import "errors"

// Rejections returned by Table intents. None of them leave partial state
// behind.
var (
	ErrNotYourTurn       = errors.New("game: not your turn")
	ErrSeatTaken         = errors.New("game: seat taken")
	ErrInvalidRaise      = errors.New("game: invalid raise")
	ErrInsufficientChips = errors.New("game: insufficient chips")
	ErrAlreadySeated     = errors.New("game: already seated")
	ErrInvalidSeat       = errors.New("game: invalid seat")
	ErrPlayerNotFound    = errors.New("game: player not found")
	ErrHandInProgress    = errors.New("game: hand in progress")
	ErrNotEnoughPlayers  = errors.New("game: not enough players")
	ErrNoStreetToDeal    = errors.New("game: no street to deal")
	ErrShowdownNotReady  = errors.New("game: showdown not ready")
	ErrInvalidAction     = errors.New("game: invalid action")
)
