package entity

import "slices"

// MaxParticipants - checkers is strictly a two-player game.
const MaxParticipants = 2

// Game - a pending or active match in the lobby. The name doubles as the
// registry key and is derived from the host's name; the host is always
// participant index 0.
type Game struct {
	Name         string
	Participants []*Client
}

// NewGame - creates a game with the given host as its sole, unready occupant.
func NewGame(host *Client) *Game {
	host.InGame = true
	host.GameName = host.Name
	host.Ready = false

	return &Game{
		Name:         host.Name,
		Participants: []*Client{host},
	}
}

// Host - returns the game's host (participant index 0).
func (that *Game) Host() *Client {
	return that.Participants[0]
}

// IsFull - reports whether the game already seats two participants.
func (that *Game) IsFull() bool {
	return len(that.Participants) >= MaxParticipants
}

// AddParticipant - seats a client as participant index 1.
func (that *Game) AddParticipant(client *Client) {
	client.InGame = true
	client.GameName = that.Name
	client.Ready = false

	that.Participants = append(that.Participants, client)
}

// RemoveParticipant - removes a non-host participant from the game.
func (that *Game) RemoveParticipant(client *Client) {
	that.Participants = slices.DeleteFunc(that.Participants, func(c *Client) bool {
		return c == client
	})
}

// AllReady - reports whether the game seats two participants and both have
// flagged ready. This is the start trigger for a session.
func (that *Game) AllReady() bool {
	if !that.IsFull() {
		return false
	}

	for _, participant := range that.Participants {
		if !participant.Ready {
			return false
		}
	}

	return true
}

// ParticipantInfo - a participant's entry in game pushes and snapshots.
type ParticipantInfo struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// GameInfo - a game's entry in lobby snapshots and game pushes.
type GameInfo struct {
	Name    string            `json:"name"`
	Players []ParticipantInfo `json:"players"`
}

// Info - returns the game's snapshot entry, host first.
func (that *Game) Info() GameInfo {
	players := make([]ParticipantInfo, 0, len(that.Participants))
	for _, participant := range that.Participants {
		players = append(players, ParticipantInfo{Name: participant.Name, Ready: participant.Ready})
	}

	return GameInfo{Name: that.Name, Players: players}
}
