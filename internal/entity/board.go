package entity

import (
	"fmt"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
)

// BoardSize - boards are always 8x8.
const BoardSize = 8

// Tile - one square of the board. Only dark squares (x+y odd) are playable.
type Tile struct {
	X        int
	Y        int
	Playable bool
	Piece    *Piece
}

// Board - an 8x8 grid of tiles plus the two per-team piece lists. A piece
// reference lives on a tile if and only if the piece's own coordinates equal
// the tile's; captured pieces are removed from both the tile and the list.
type Board struct {
	tiles  [BoardSize][BoardSize]Tile
	pieces [2][]*Piece
}

// NewBoard - returns an empty board with playability flags set.
func NewBoard() *Board {
	board := &Board{}

	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			board.tiles[y][x] = Tile{
				X:        x,
				Y:        y,
				Playable: (x+y)%2 == 1,
			}
		}
	}

	return board
}

// NewStandardBoard - returns a board with the standard starting position:
// 12 black pieces on the playable tiles of rows 5..7 and 12 red pieces on
// the playable tiles of rows 0..2. Indices are assigned scanning each team's
// back row outward, x ascending. Deterministic.
func NewStandardBoard() *Board {
	board := NewBoard()

	blackRows := [3]int{7, 6, 5}
	redRows := [3]int{0, 1, 2}

	board.placeTeam(TeamBlack, blackRows)
	board.placeTeam(TeamRed, redRows)

	return board
}

func (that *Board) placeTeam(team int, rows [3]int) {
	index := 0

	for _, y := range rows {
		for x := 0; x < BoardSize; x++ {
			if (x+y)%2 != 1 {
				continue
			}

			that.AddPiece(&Piece{Team: team, Index: index, X: x, Y: y})
			index++
		}
	}
}

// AddPiece - registers a piece with the board and places it on the tile
// matching its coordinates. Panics on an unplayable or occupied tile, since
// that can only be a programming error.
func (that *Board) AddPiece(piece *Piece) {
	tile, err := that.TileAt(piece.X, piece.Y)
	if err != nil {
		panic(err)
	}

	if !tile.Playable || tile.Piece != nil {
		panic(fmt.Sprintf("cannot place %s on tile (%d,%d)", piece.ID(), tile.X, tile.Y))
	}

	tile.Piece = piece
	that.pieces[piece.Team] = append(that.pieces[piece.Team], piece)
}

// InBounds - reports whether both coordinates are inside [0,7].
func InBounds(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// TileAt - returns the tile at the given coordinates.
func (that *Board) TileAt(x, y int) (*Tile, error) {
	if !InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d)", apperror.ErrOutOfBounds, x, y)
	}

	return &that.tiles[y][x], nil
}

// PlacePiece - moves a piece onto the destination tile, clearing the tile it
// came from. Exclusive ownership: no two tiles ever claim the same piece.
func (that *Board) PlacePiece(piece *Piece, x, y int) error {
	destination, err := that.TileAt(x, y)
	if err != nil {
		return err
	}

	if source, _ := that.TileAt(piece.X, piece.Y); source != nil && source.Piece == piece {
		source.Piece = nil
	}

	piece.X = x
	piece.Y = y
	destination.Piece = piece

	return nil
}

// RemovePiece - takes a captured piece out of play. The piece keeps its
// identifier so push events can still address it.
func (that *Board) RemovePiece(piece *Piece) {
	if tile, _ := that.TileAt(piece.X, piece.Y); tile != nil && tile.Piece == piece {
		tile.Piece = nil
	}

	remaining := that.pieces[piece.Team][:0]
	for _, p := range that.pieces[piece.Team] {
		if p != piece {
			remaining = append(remaining, p)
		}
	}

	that.pieces[piece.Team] = remaining
}

// Promote - sets the king flag; no-op if the piece is already a king.
// The caller must have confirmed the piece reached its promotion row.
func (that *Board) Promote(piece *Piece) {
	piece.King = true
}

// PromotionRow - the row on which a team's pieces are kinged: the opponent's
// back row (y=0 for black, y=7 for red).
func PromotionRow(team int) int {
	if team == TeamBlack {
		return 0
	}

	return BoardSize - 1
}

// Pieces - returns the live pieces of a team.
func (that *Board) Pieces(team int) []*Piece {
	return that.pieces[team]
}

// PieceByID - resolves a textual piece identifier to a live piece.
func (that *Board) PieceByID(id string) (*Piece, error) {
	team, index, err := ParsePieceID(id)
	if err != nil {
		return nil, err
	}

	for _, piece := range that.pieces[team] {
		if piece.Index == index {
			return piece, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", apperror.ErrPieceNotFound, id)
}

// Snapshot - returns the wire representation of the board: 8 rows of 8 cells,
// each cell either nil or the occupying piece's state.
func (that *Board) Snapshot() [BoardSize][BoardSize]*PieceState {
	var snapshot [BoardSize][BoardSize]*PieceState

	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			piece := that.tiles[y][x].Piece
			if piece == nil {
				continue
			}

			snapshot[y][x] = &PieceState{
				ID:   piece.ID(),
				X:    piece.X,
				Y:    piece.Y,
				King: piece.King,
			}
		}
	}

	return snapshot
}
