package apperror

import "errors"

// Lobby rejection reasons.
var (
	ErrNameTaken      = errors.New("name is already taken")
	ErrNoName         = errors.New("client has no name")
	ErrAlreadyInGame  = errors.New("client is already in a game")
	ErrNotInGame      = errors.New("client is not in a game")
	ErrGameNotFound   = errors.New("game not found")
	ErrGameFull       = errors.New("game is full")
	ErrAlreadyReady   = errors.New("client is already ready")
	ErrGameInProgress = errors.New("game is already in progress")
	ErrAlreadyWaiting = errors.New("client is already waiting")
	ErrUnknownCommand = errors.New("cannot determine command")
	ErrBadRequest     = errors.New("invalid request")
)

// Gameplay rejection reasons, in validation order.
var (
	ErrOutOfBounds     = errors.New("destination is out of bounds")
	ErrTileNotPlayable = errors.New("destination tile is not playable")
	ErrTileOccupied    = errors.New("destination tile is occupied")
	ErrNotDiagonal     = errors.New("move is not diagonal")
	ErrBadDistance     = errors.New("move distance must be one or two tiles")
	ErrWrongDirection  = errors.New("piece cannot move backwards")
	ErrNothingToJump   = errors.New("no opponent piece to jump over")

	ErrGameNotStarted = errors.New("game is not started")
	ErrGameFinished   = errors.New("game is already finished")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrNotYourPiece   = errors.New("piece belongs to the other player")
	ErrPieceNotFound  = errors.New("piece is not in play")
	ErrMustContinue   = errors.New("the capturing piece must continue jumping")
	ErrInvalidPieceID = errors.New("invalid piece identifier")
)
