package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/checkers-backend/internal/apperror"
	"github.com/rocketscienceinc/checkers-backend/internal/entity"
	"github.com/rocketscienceinc/checkers-backend/internal/pkg"
	"github.com/rocketscienceinc/checkers-backend/internal/protocol"
	"github.com/rocketscienceinc/checkers-backend/internal/session"
)

const recordTimeout = 5 * time.Second

type namePool interface {
	Next() string
}

type resultRecorder interface {
	Record(ctx context.Context, result *entity.MatchResult) error
}

// client - a connected socket as the directory tracks it: the lobby record
// plus the push half of its connection.
type client struct {
	*entity.Client
	pusher protocol.Pusher
}

// playerUpdate - a player push snapshotted under the directory lock, so the
// fan-out never reads client fields outside a critical section.
type playerUpdate struct {
	id   string
	info entity.PlayerInfo
}

// snapshot - the data field of an approved init response.
type snapshot struct {
	Players []entity.PlayerInfo `json:"players"`
	Games   []entity.GameInfo   `json:"games"`
}

// Directory - the process-wide registry of connected clients, named players
// and open or in-progress games. All pre-game and cross-game concerns go
// through here; every registry mutation happens under the directory mutex so
// check-then-act sequences (name claims, game joins) are atomic.
type Directory struct {
	logger  *slog.Logger
	pool    namePool
	results resultRecorder // nil when the archive is disabled

	mu       sync.RWMutex
	clients  map[string]*client          // by connection id
	named    map[string]*client          // by display name
	games    map[string]*entity.Game     // by game name
	sessions map[string]*session.Session // by game name
}

// New - constructs an empty directory. The name pool provides candidate
// display names; the recorder may be nil to disable the match archive.
func New(logger *slog.Logger, pool namePool, results resultRecorder) *Directory {
	if pool == nil {
		pool = pkg.NewNamePool()
	}

	return &Directory{
		logger:   logger.With("component", "lobby"),
		pool:     pool,
		results:  results,
		clients:  make(map[string]*client),
		named:    make(map[string]*client),
		games:    make(map[string]*entity.Game),
		sessions: make(map[string]*session.Session),
	}
}

// Connect - registers a new connection and returns its client record. The
// client has no name until it issues a set-name request.
func (that *Directory) Connect(pusher protocol.Pusher) *entity.Client {
	record := &entity.Client{ID: pkg.GenerateClientID()}

	that.mu.Lock()
	that.clients[record.ID] = &client{Client: record, pusher: pusher}
	that.mu.Unlock()

	that.logger.Info("client connected", "clientID", record.ID)

	return record
}

// Disconnect - deterministically unwinds everything the client held, exactly
// as if it had left its game first, then removes it from the registries and
// tells everyone else it is gone.
func (that *Directory) Disconnect(clientID string) {
	log := that.logger.With("method", "Disconnect", "clientID", clientID)

	that.mu.RLock()
	cl, ok := that.clients[clientID]
	inGame := ok && cl.InGame
	that.mu.RUnlock()

	if !ok {
		return
	}

	if inGame {
		// the game may finish concurrently; leaveGame re-checks under the lock
		if _, err := that.leaveGame(cl); err != nil && !errors.Is(err, apperror.ErrNotInGame) {
			log.Error("failed to unwind game membership", "error", err)
		}
	}

	that.mu.Lock()
	name := cl.Name
	delete(that.named, name)
	delete(that.clients, clientID)
	that.mu.Unlock()

	if name != "" {
		that.pushToOthers(clientID, protocol.Push{Cmd: protocol.PushPlayerRemoved, Data: name})
	}

	log.Info("client disconnected")
}

// Dispatch - routes one client request to its handler and returns the
// response. Lobby commands are handled here; move commands are forwarded to
// the client's session. Every request gets a synchronous response with the
// request id echoed back.
func (that *Directory) Dispatch(clientID string, req protocol.Request) protocol.Response {
	that.mu.RLock()
	cl, ok := that.clients[clientID]
	that.mu.RUnlock()

	if !ok {
		return protocol.Reject(req.ID, apperror.ErrBadRequest.Error())
	}

	var (
		data any
		err  error
	)

	switch req.Cmd {
	case protocol.CmdInit:
		data, err = that.initSnapshot(cl)
	case protocol.CmdSetName:
		data, err = that.setName(cl, decodeString(req.Data))
	case protocol.CmdCreateGame:
		data, err = that.createGame(cl)
	case protocol.CmdJoinGame:
		data, err = that.joinGame(cl, decodeString(req.Data))
	case protocol.CmdLeaveGame:
		data, err = that.leaveGame(cl)
	case protocol.CmdSetReady:
		data, err = that.setReady(cl)
	case protocol.CmdSetWaiting:
		data, err = that.setWaiting(cl)
	case protocol.CmdMovePiece:
		data, err = that.movePiece(cl, req.Data)
	default:
		err = apperror.ErrUnknownCommand
	}

	if err != nil {
		return protocol.Reject(req.ID, err.Error())
	}

	return protocol.Approve(req.ID, data)
}

// setName - assigns or changes a client's display name. An empty requested
// name draws from the pool until a free candidate is found; an explicit name
// is accepted iff nobody else holds it. The check and the claim happen under
// one critical section so two concurrent requests can never both win.
func (that *Directory) setName(cl *client, requested string) (any, error) {
	that.mu.Lock()

	if cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyInGame
	}

	name := requested
	if name == "" {
		for {
			name = that.pool.Next()
			if _, taken := that.named[name]; !taken {
				break
			}
		}
	} else if holder, taken := that.named[name]; taken && holder != cl {
		that.mu.Unlock()
		return nil, apperror.ErrNameTaken
	}

	firstName := !cl.HasName()

	delete(that.named, cl.Name)
	cl.Name = name
	that.named[name] = cl

	that.mu.Unlock()

	push := protocol.Push{Cmd: protocol.PushPlayerUpdated, Data: cl.Info()}
	if firstName {
		push.Cmd = protocol.PushPlayerCreated
	}

	that.pushToOthers(cl.ID, push)

	return name, nil
}

// createGame - opens a new game with the client as its sole occupant. The
// game is registered under the client's name.
func (that *Directory) createGame(cl *client) (any, error) {
	that.mu.Lock()

	if cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyInGame
	}

	if !cl.HasName() {
		that.mu.Unlock()
		return nil, apperror.ErrNoName
	}

	game := entity.NewGame(cl.Client)
	that.games[game.Name] = game
	info := game.Info()

	that.mu.Unlock()

	that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameCreated, Data: info})
	// the creator stays Available until the game actually starts
	that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushPlayerUpdated, Data: cl.Info()})

	that.logger.Info("game created", "game", game.Name)

	return info, nil
}

// joinGame - seats the client in the game hosted by the named player and
// returns the full participant list.
func (that *Directory) joinGame(cl *client, hostName string) (any, error) {
	that.mu.Lock()

	if cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyInGame
	}

	if !cl.HasName() {
		that.mu.Unlock()
		return nil, apperror.ErrNoName
	}

	game, ok := that.games[hostName]
	if !ok {
		that.mu.Unlock()
		return nil, apperror.ErrGameNotFound
	}

	if game.IsFull() {
		that.mu.Unlock()
		return nil, apperror.ErrGameFull
	}

	game.AddParticipant(cl.Client)
	info := game.Info()

	that.mu.Unlock()

	that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameUpdated, Data: info})

	that.logger.Info("player joined game", "game", game.Name, "player", cl.Name)

	return info, nil
}

// leaveGame - removes the client from its game. A leaving host cancels the
// whole game; a leaving joiner returns it to one occupant. Leaving an
// in-progress game forfeits it.
func (that *Directory) leaveGame(cl *client) (any, error) {
	that.mu.Lock()

	if !cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrNotInGame
	}

	gameName := cl.GameName

	if sess, started := that.sessions[gameName]; started {
		that.mu.Unlock()

		// session locking happens outside the directory lock
		sess.Forfeit(cl.ID)
		that.finalizeGame(gameName)

		return nil, nil
	}

	game, ok := that.games[gameName]
	if !ok {
		that.mu.Unlock()
		return nil, apperror.ErrGameNotFound
	}

	isHost := game.Host() == cl.Client

	var affected []*entity.Client

	if isHost {
		delete(that.games, gameName)
		affected = append(affected, game.Participants...)
	} else {
		game.RemoveParticipant(cl.Client)
		affected = append(affected, cl.Client)
	}

	updates := make([]playerUpdate, 0, len(affected))
	for _, participant := range affected {
		participant.LeaveGame()
		updates = append(updates, playerUpdate{id: participant.ID, info: participant.Info()})
	}

	var gameInfo entity.GameInfo
	if !isHost {
		gameInfo = game.Info()
	}

	that.mu.Unlock()

	if isHost {
		that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameRemoved, Data: gameName})
	} else {
		that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameUpdated, Data: gameInfo})
	}

	for _, update := range updates {
		that.pushToOthers(update.id, protocol.Push{Cmd: protocol.PushPlayerUpdated, Data: update.info})
	}

	that.logger.Info("player left game", "game", gameName, "player", cl.Name, "host", isHost)

	return nil, nil
}

// setReady - flags the client ready. When both seated participants are
// ready, the game transitions to in-progress and a session starts. Ready
// flags are frozen once the game is running.
func (that *Directory) setReady(cl *client) (any, error) {
	that.mu.Lock()

	if !cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrNotInGame
	}

	if _, started := that.sessions[cl.GameName]; started {
		that.mu.Unlock()
		return nil, apperror.ErrGameInProgress
	}

	if cl.Ready {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyReady
	}

	cl.Ready = true

	game := that.games[cl.GameName]
	info := game.Info()

	var (
		sess   *session.Session
		seated []playerUpdate
	)

	if game.AllReady() {
		host := that.clients[game.Host().ID]
		joiner := that.clients[game.Participants[1].ID]

		for _, participant := range game.Participants {
			participant.Playing = true
			seated = append(seated, playerUpdate{id: participant.ID, info: participant.Info()})
		}

		sess = session.New(that.logger, game.Name,
			session.Player{Client: host.Client, Pusher: host.pusher},
			session.Player{Client: joiner.Client, Pusher: joiner.pusher},
		)
		that.sessions[game.Name] = sess
	}

	that.mu.Unlock()

	that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameUpdated, Data: info})

	if sess != nil {
		sess.Start()

		for _, update := range seated {
			that.pushToOthers(update.id, protocol.Push{Cmd: protocol.PushPlayerUpdated, Data: update.info})
		}
	}

	return nil, nil
}

// setWaiting - clears the client's ready flag. Rejected once the game is
// running.
func (that *Directory) setWaiting(cl *client) (any, error) {
	that.mu.Lock()

	if !cl.InGame {
		that.mu.Unlock()
		return nil, apperror.ErrNotInGame
	}

	if _, started := that.sessions[cl.GameName]; started {
		that.mu.Unlock()
		return nil, apperror.ErrGameInProgress
	}

	if !cl.Ready {
		that.mu.Unlock()
		return nil, apperror.ErrAlreadyWaiting
	}

	cl.Ready = false

	game := that.games[cl.GameName]
	info := game.Info()

	that.mu.Unlock()

	that.pushToOthers(cl.ID, protocol.Push{Cmd: protocol.PushGameUpdated, Data: info})

	return nil, nil
}

// initSnapshot - returns the full current player and game lists and marks
// the client initialized.
func (that *Directory) initSnapshot(cl *client) (any, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if cl.InGame {
		return nil, apperror.ErrAlreadyInGame
	}

	if !cl.HasName() {
		return nil, apperror.ErrNoName
	}

	cl.Initialized = true

	snap := snapshot{
		Players: make([]entity.PlayerInfo, 0, len(that.named)),
		Games:   make([]entity.GameInfo, 0, len(that.games)),
	}

	for _, other := range that.named {
		snap.Players = append(snap.Players, other.Info())
	}

	for _, game := range that.games {
		snap.Games = append(snap.Games, game.Info())
	}

	return snap, nil
}

// movePiece - forwards a move request to the client's session. The directory
// lock is released before the session is entered, so lobby traffic never
// stalls behind move validation.
func (that *Directory) movePiece(cl *client, data json.RawMessage) (any, error) {
	var payload protocol.MovePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperror.ErrBadRequest
	}

	that.mu.RLock()
	sess, ok := that.sessions[cl.GameName]
	that.mu.RUnlock()

	if !ok {
		return nil, apperror.ErrGameNotStarted
	}

	reply, over, err := sess.HandleMove(cl.ID, payload.Piece, payload.X, payload.Y)
	if err != nil {
		return nil, err
	}

	if over {
		that.finalizeGame(cl.GameName)
	}

	return reply, nil
}

// finalizeGame - tears down a finished session: drops the game and session
// records, returns both participants to the lobby and archives the result.
// Idempotent; concurrent finishes of the same game collapse to one cleanup.
func (that *Directory) finalizeGame(gameName string) {
	that.mu.Lock()

	sess, ok := that.sessions[gameName]
	if !ok {
		that.mu.Unlock()
		return
	}

	delete(that.sessions, gameName)
	delete(that.games, gameName)

	players := sess.Players()
	updates := make([]playerUpdate, 0, len(players))

	for _, player := range players {
		player.Client.LeaveGame()
		updates = append(updates, playerUpdate{id: player.Client.ID, info: player.Client.Info()})
	}

	that.mu.Unlock()

	that.pushToAll(protocol.Push{Cmd: protocol.PushGameRemoved, Data: gameName})

	for _, update := range updates {
		that.pushToOthers(update.id, protocol.Push{Cmd: protocol.PushPlayerUpdated, Data: update.info})
	}

	if result := sess.Result(); result != nil && that.results != nil {
		go that.record(result)
	}

	that.logger.Info("game finalized", "game", gameName)
}

func (that *Directory) record(result *entity.MatchResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := that.results.Record(ctx, result); err != nil {
		that.logger.Error("failed to archive match result", "game", result.GameName, "error", err)
	}
}

// pushToOthers - delivers a push to every connected client except the one
// whose action triggered it.
func (that *Directory) pushToOthers(exceptID string, push protocol.Push) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for id, other := range that.clients {
		if id == exceptID {
			continue
		}

		other.pusher.Push(push)
	}
}

func (that *Directory) pushToAll(push protocol.Push) {
	that.pushToOthers("", push)
}

// decodeString - lobby payloads that are plain strings (names) arrive as
// JSON strings; anything undecodable degrades to the empty string, which the
// handlers treat as absent.
func decodeString(data json.RawMessage) string {
	var value string
	if len(data) == 0 {
		return ""
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return ""
	}

	return value
}
