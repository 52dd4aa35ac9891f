package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
)

const (
	TeamBlack = 0
	TeamRed   = 1

	PiecesPerTeam = 12
)

var teamLabels = [2]string{"Black", "Red"}

var teamPrefixes = [2]string{"B", "R"}

// TeamLabel - returns the human-readable label of a team ("Black" or "Red").
func TeamLabel(team int) string {
	return teamLabels[team]
}

// Opponent - returns the opposing team number.
func Opponent(team int) int {
	return 1 - team
}

// Piece - a single checkers piece. A piece belongs to exactly one team, keeps
// an index unique within its team, and never loses its king flag once kinged.
type Piece struct {
	Team  int  `json:"-"`
	Index int  `json:"-"`
	X     int  `json:"x"`
	Y     int  `json:"y"`
	King  bool `json:"king"`
}

// ID - returns the textual piece identifier, e.g. "B4" or "R11".
func (that *Piece) ID() string {
	return teamPrefixes[that.Team] + strconv.Itoa(that.Index)
}

// ParsePieceID - parses a textual piece identifier into team and index.
func ParsePieceID(id string) (team, index int, err error) {
	if len(id) < 2 {
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidPieceID, id)
	}

	switch {
	case strings.HasPrefix(id, teamPrefixes[TeamBlack]):
		team = TeamBlack
	case strings.HasPrefix(id, teamPrefixes[TeamRed]):
		team = TeamRed
	default:
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidPieceID, id)
	}

	index, err = strconv.Atoi(id[1:])
	if err != nil || index < 0 || index >= PiecesPerTeam {
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrInvalidPieceID, id)
	}

	return team, index, nil
}

// PieceState - a piece as it appears in a board snapshot cell.
type PieceState struct {
	ID   string `json:"id"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	King bool   `json:"king"`
}
