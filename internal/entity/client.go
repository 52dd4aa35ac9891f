package entity

// Player lobby states as they appear on the wire.
const (
	StateAvailable = "Available"
	StatePlaying   = "Playing"
)

// Client - one connected socket. Created with an empty name on connect and
// destroyed on disconnect. Owned exclusively by the lobby directory.
type Client struct {
	ID          string
	Name        string
	InGame      bool
	GameName    string
	Ready       bool
	Playing     bool
	Initialized bool
}

// State - returns the client's lobby state label. A client counts as Playing
// only once its game has actually started, not when it merely created one.
func (that *Client) State() string {
	if that.Playing {
		return StatePlaying
	}

	return StateAvailable
}

// HasName - reports whether the client has been assigned a display name yet.
func (that *Client) HasName() bool {
	return that.Name != ""
}

// LeaveGame - clears all game membership state.
func (that *Client) LeaveGame() {
	that.InGame = false
	that.GameName = ""
	that.Ready = false
	that.Playing = false
}

// PlayerInfo - a player's entry in lobby snapshots and player pushes.
type PlayerInfo struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Info - returns the client's lobby snapshot entry.
func (that *Client) Info() PlayerInfo {
	return PlayerInfo{Name: that.Name, State: that.State()}
}
