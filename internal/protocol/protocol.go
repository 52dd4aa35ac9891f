package protocol

import "encoding/json"

// Lobby request command codes.
const (
	CmdInit       = "I"
	CmdCreateGame = "C"
	CmdLeaveGame  = "L"
	CmdJoinGame   = "J"
	CmdSetName    = "N"
	CmdSetReady   = "R"
	CmdSetWaiting = "W"
)

// Lobby push command codes.
const (
	PushGameCreated   = "GC"
	PushGameRemoved   = "GR"
	PushGameUpdated   = "GU"
	PushPlayerCreated = "PC"
	PushPlayerRemoved = "PR"
	PushPlayerUpdated = "PU"
	PushStartPlaying  = "SP"
)

// Gameplay command codes.
const (
	CmdMovePiece = "M"

	PushPiecePositioned = "P"
	PushPieceDead       = "D"
	PushPieceKinged     = "K"
	PushBeginTurn       = "B"
	PushGameOver        = "GO"
)

// Request - a client message. The id is an opaque correlation value echoed
// back in the response.
type Request struct {
	Cmd  string          `json:"cmd"`
	Data json.RawMessage `json:"data,omitempty"`
	ID   int64           `json:"id"`
}

// Response - the server's direct reply to a request. On rejection the data
// field carries a human-readable reason string.
type Response struct {
	Approved bool  `json:"approved"`
	Data     any   `json:"data"`
	ID       int64 `json:"id"`
}

// Push - an unsolicited server-to-client message, not correlated to any
// request.
type Push struct {
	Cmd  string `json:"cmd"`
	Data any    `json:"data"`
}

// Pusher - the send half of a client's connection as the core sees it: an
// opaque capability to deliver a push, never a concrete transport.
type Pusher interface {
	Push(push Push)
}

// Approve - builds an approved response carrying the given payload.
func Approve(id int64, data any) Response {
	return Response{Approved: true, Data: data, ID: id}
}

// Reject - builds a rejected response carrying the reason string.
func Reject(id int64, reason string) Response {
	return Response{Approved: false, Data: reason, ID: id}
}

// MovePayload - the data field of an 'M' request.
type MovePayload struct {
	Piece string `json:"piece"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// MoveReply - the data field of an approved 'M' response.
type MoveReply struct {
	EndTurn  bool   `json:"endTurn"`
	Captured string `json:"captured,omitempty"`
	Kinged   bool   `json:"kinged,omitempty"`
}

// PiecePayload - the data field of the P push.
type PiecePayload struct {
	Piece string `json:"piece"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// PieceRef - the data field of the D and K pushes.
type PieceRef struct {
	Piece string `json:"piece"`
}
