package entity

import "time"

// MatchResult - the archived outcome of a finished match.
type MatchResult struct {
	GameName   string    `json:"game_name"`
	Winner     string    `json:"winner"`
	Loser      string    `json:"loser"`
	WinnerTeam string    `json:"winner_team"`
	Forfeit    bool      `json:"forfeit,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
