package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrInvalidCell      = errors.New("invalid cell index")
	ErrNoAvailableMoves = errors.New("no available moves")
	ErrNoActiveGame     = errors.New("no active game")
	ErrInvalidMark      = errors.New("invalid mark")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInputClosed      = errors.New("input closed before the game ended")
)
