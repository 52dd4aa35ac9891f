package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/checkers"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
	"github.com/rocketscienceinc/checkers-backend/internal/protocol"
)

// Session states.
const (
	stateAwaiting   = "awaiting"
	stateInProgress = "in-progress"
	stateGameOver   = "game-over"
)

// Player - one seated side of a session: the lobby client plus its assigned
// team and the push half of its connection.
type Player struct {
	Client *entity.Client
	Team   int
	Pusher protocol.Pusher
}

// startPayload - the data field of the SP push sent to each player.
type startPayload struct {
	Board        [entity.BoardSize][entity.BoardSize]*entity.PieceState `json:"board"`
	PlayerColour int                                                    `json:"playerColour"`
	Turn         int                                                    `json:"turn"`
}

// Session - one in-progress match: a board, the two seated players and the
// turn indicator. All moves are serialized through the session mutex so two
// near-simultaneous requests can never validate against a stale board.
type Session struct {
	logger *slog.Logger

	mu           sync.Mutex
	board        *entity.Board
	players      [2]Player
	turn         int
	state        string
	winner       int
	forfeit      bool
	continuation *entity.Piece // piece that must keep jumping, nil otherwise

	gameName string
}

// New - creates a session for a lobby game whose both participants are seated
// and ready. The host plays black (team 0), the joiner red (team 1).
func New(logger *slog.Logger, gameName string, host, joiner Player) *Session {
	host.Team = entity.TeamBlack
	joiner.Team = entity.TeamRed

	return &Session{
		logger:   logger.With("component", "session", "game", gameName),
		players:  [2]Player{host, joiner},
		state:    stateAwaiting,
		gameName: gameName,
	}
}

// Start - builds the standard board, hands the first turn to black and sends
// each player the start-playing push with their assigned team and the full
// board snapshot.
func (that *Session) Start() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.board = entity.NewStandardBoard()
	that.turn = entity.TeamBlack
	that.state = stateInProgress

	snapshot := that.board.Snapshot()

	for _, player := range that.players {
		player.Pusher.Push(protocol.Push{
			Cmd: protocol.PushStartPlaying,
			Data: startPayload{
				Board:        snapshot,
				PlayerColour: player.Team,
				Turn:         that.turn,
			},
		})
	}

	that.logger.Info("session started",
		"host", that.players[entity.TeamBlack].Client.Name,
		"joiner", that.players[entity.TeamRed].Client.Name,
	)
}

// HandleMove - validates and applies a move request from the given client.
// Push order on acceptance: piece positioned, piece dead, piece kinged, then
// either begin-turn or game-over. Returns the reply payload and whether the
// game ended.
func (that *Session) HandleMove(clientID, pieceID string, x, y int) (protocol.MoveReply, bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	switch that.state {
	case stateAwaiting:
		return protocol.MoveReply{}, false, apperror.ErrGameNotStarted
	case stateGameOver:
		return protocol.MoveReply{}, false, apperror.ErrGameFinished
	}

	mover, err := that.playerByClientID(clientID)
	if err != nil {
		return protocol.MoveReply{}, false, err
	}

	team, _, err := entity.ParsePieceID(pieceID)
	if err != nil {
		return protocol.MoveReply{}, false, err
	}

	if team != mover.Team {
		return protocol.MoveReply{}, false, fmt.Errorf("%w: %s", apperror.ErrNotYourPiece, pieceID)
	}

	if that.turn != mover.Team {
		return protocol.MoveReply{}, false, apperror.ErrNotYourTurn
	}

	piece, err := that.board.PieceByID(pieceID)
	if err != nil {
		return protocol.MoveReply{}, false, err
	}

	if that.continuation != nil {
		if that.continuation != piece {
			return protocol.MoveReply{}, false, apperror.ErrMustContinue
		}

		// mid-sequence the piece may only jump, never step
		if dx := x - piece.X; dx != 2 && dx != -2 {
			return protocol.MoveReply{}, false, apperror.ErrMustContinue
		}
	}

	result, err := checkers.AttemptMove(that.board, piece, x, y)
	if err != nil {
		return protocol.MoveReply{}, false, err
	}

	that.broadcast(protocol.Push{
		Cmd:  protocol.PushPiecePositioned,
		Data: protocol.PiecePayload{Piece: piece.ID(), X: piece.X, Y: piece.Y},
	})

	reply := protocol.MoveReply{EndTurn: result.EndsTurn, Kinged: result.Promoted}

	if result.Captured != nil {
		reply.Captured = result.Captured.ID()
		that.broadcast(protocol.Push{
			Cmd:  protocol.PushPieceDead,
			Data: protocol.PieceRef{Piece: result.Captured.ID()},
		})
	}

	if result.Promoted {
		that.broadcast(protocol.Push{
			Cmd:  protocol.PushPieceKinged,
			Data: protocol.PieceRef{Piece: piece.ID()},
		})
	}

	opponent := entity.Opponent(mover.Team)

	if checkers.Defeated(that.board, opponent) {
		that.finish(mover.Team)
		reply.EndTurn = true

		return reply, true, nil
	}

	if result.EndsTurn {
		that.continuation = nil
		that.turn = opponent
		that.broadcast(protocol.Push{
			Cmd:  protocol.PushBeginTurn,
			Data: that.players[that.turn].Client.Name,
		})
	} else {
		that.continuation = piece
	}

	return reply, false, nil
}

// Forfeit - ends the game in favour of the remaining player, used when a
// participant leaves or disconnects mid-game. Returns false if the client is
// not seated in this session or the game is already over.
func (that *Session) Forfeit(clientID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state != stateInProgress {
		return false
	}

	leaver, err := that.playerByClientID(clientID)
	if err != nil {
		return false
	}

	that.forfeit = true
	that.finish(entity.Opponent(leaver.Team))

	return true
}

// Result - returns the archived outcome of a finished session, or nil while
// the game is still running.
func (that *Session) Result() *entity.MatchResult {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.state != stateGameOver {
		return nil
	}

	return &entity.MatchResult{
		GameName:   that.gameName,
		Winner:     that.players[that.winner].Client.Name,
		Loser:      that.players[entity.Opponent(that.winner)].Client.Name,
		WinnerTeam: entity.TeamLabel(that.winner),
		Forfeit:    that.forfeit,
		FinishedAt: time.Now().UTC(),
	}
}

// Players - returns both seated players, host first.
func (that *Session) Players() [2]Player {
	return that.players
}

// finish - transitions to game over and broadcasts the winner. Caller holds
// the session mutex.
func (that *Session) finish(winner int) {
	that.state = stateGameOver
	that.winner = winner
	that.continuation = nil

	that.broadcast(protocol.Push{
		Cmd:  protocol.PushGameOver,
		Data: entity.TeamLabel(winner),
	})

	that.logger.Info("game over", "winner", entity.TeamLabel(winner))
}

func (that *Session) broadcast(push protocol.Push) {
	for _, player := range that.players {
		player.Pusher.Push(push)
	}
}

func (that *Session) playerByClientID(id string) (Player, error) {
	for _, player := range that.players {
		if player.Client.ID == id {
			return player, nil
		}
	}

	return Player{}, fmt.Errorf("%w: client %s", apperror.ErrNotInGame, id)
}
