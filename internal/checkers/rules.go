package checkers

import (
	"fmt"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
)

// Diagonals - the four diagonal directions a piece can move or jump in.
var Diagonals = [4][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}

// MoveResult - the outcome of an accepted move.
type MoveResult struct {
	Captured *entity.Piece // the jumped piece, nil for a simple move
	Promoted bool          // the piece reached its promotion row this move
	EndsTurn bool          // false when the same piece must keep jumping
}

// AttemptMove - validates a move for the given piece and applies it to the
// board on success. Turn-agnostic: the caller is responsible for checking
// whose turn it is. Rejections are checked in a fixed order so clients get a
// stable reason for any given illegal move.
func AttemptMove(board *entity.Board, piece *entity.Piece, toX, toY int) (*MoveResult, error) {
	destination, err := board.TileAt(toX, toY)
	if err != nil {
		return nil, err
	}

	if !destination.Playable {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrTileNotPlayable, toX, toY)
	}

	if destination.Piece != nil {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrTileOccupied, toX, toY)
	}

	dx := toX - piece.X
	dy := toY - piece.Y

	if abs(dx) != abs(dy) {
		return nil, apperror.ErrNotDiagonal
	}

	if abs(dx) != 1 && abs(dx) != 2 {
		return nil, fmt.Errorf("%w: got %d", apperror.ErrBadDistance, abs(dx))
	}

	if !piece.King && !advances(piece.Team, dy) {
		return nil, apperror.ErrWrongDirection
	}

	var captured *entity.Piece

	if abs(dx) == 2 {
		captured, err = jumpedPiece(board, piece, dx, dy)
		if err != nil {
			return nil, err
		}
	}

	if err = board.PlacePiece(piece, toX, toY); err != nil {
		return nil, err
	}

	if captured != nil {
		board.RemovePiece(captured)
	}

	result := &MoveResult{Captured: captured, EndsTurn: true}

	if !piece.King && piece.Y == entity.PromotionRow(piece.Team) {
		board.Promote(piece)
		result.Promoted = true
	}

	if captured != nil && HasCaptureFrom(board, piece) {
		result.EndsTurn = false
	}

	return result, nil
}

// jumpedPiece - resolves the intermediate piece of a distance-2 move. The
// tile being jumped must hold an opponent piece.
func jumpedPiece(board *entity.Board, piece *entity.Piece, dx, dy int) (*entity.Piece, error) {
	between, err := board.TileAt(piece.X+dx/2, piece.Y+dy/2)
	if err != nil {
		return nil, err
	}

	if between.Piece == nil || between.Piece.Team == piece.Team {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrNothingToJump, between.X, between.Y)
	}

	return between.Piece, nil
}

// HasCaptureFrom - reports whether the piece has a capture immediately
// available from its current position. Used to drive forced continuation.
func HasCaptureFrom(board *entity.Board, piece *entity.Piece) bool {
	for _, d := range Diagonals {
		if !piece.King && !advances(piece.Team, d[1]) {
			continue
		}

		landing, err := board.TileAt(piece.X+2*d[0], piece.Y+2*d[1])
		if err != nil || !landing.Playable || landing.Piece != nil {
			continue
		}

		between, err := board.TileAt(piece.X+d[0], piece.Y+d[1])
		if err != nil {
			continue
		}

		if between.Piece != nil && between.Piece.Team != piece.Team {
			return true
		}
	}

	return false
}

// HasAnyLegalMove - reports whether any of the team's pieces can make a
// simple move or a capture.
func HasAnyLegalMove(board *entity.Board, team int) bool {
	for _, piece := range board.Pieces(team) {
		if HasCaptureFrom(board, piece) {
			return true
		}

		for _, d := range Diagonals {
			if !piece.King && !advances(piece.Team, d[1]) {
				continue
			}

			tile, err := board.TileAt(piece.X+d[0], piece.Y+d[1])
			if err == nil && tile.Playable && tile.Piece == nil {
				return true
			}
		}
	}

	return false
}

// Defeated - reports whether a team has lost: no pieces left, or no legal
// move available across all of its pieces.
func Defeated(board *entity.Board, team int) bool {
	if len(board.Pieces(team)) == 0 {
		return true
	}

	return !HasAnyLegalMove(board, team)
}

// advances - reports whether a vertical delta moves a non-king piece toward
// its opponent's back row. Black advances down the board (decreasing y), red
// up (increasing y).
func advances(team, dy int) bool {
	if team == entity.TeamBlack {
		return dy < 0
	}

	return dy > 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
