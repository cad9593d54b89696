package main

import (
	"log"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	TickRate     = 20 // simulation ticks per second, identical for every room
	TickInterval = time.Second / TickRate

	ScoreLimitDefault = 3
	ScoreLimitMin     = 1
	ScoreLimitMax     = 10
)

// Broadcaster is the outbound side of a player connection. Sends are
// fire-and-forget; a slow client drops frames rather than stalling the loop.
type Broadcaster interface {
	SendJSON(msg interface{})
	SendBinary(data []byte)
}

// LobbyPlayer is a roster entry during the lobby phase. Team stays nil until
// the host assigns one or auto-balance fills it in at game start.
type LobbyPlayer struct {
	ID          string
	DisplayName string
	Team        *Team
}

// GameRoom is one isolated match: lobby roster, host, simulation state and
// the fixed-rate tick loop. Rooms never share state; the RoomManager only
// routes players in and tears empty rooms down.
//
// Lifecycle: lobby (players join, host assigns teams) -> active (loop runs)
// -> ended (score limit reached or room emptied; loop stopped).
type GameRoom struct {
	Code string

	mu      sync.Mutex
	world   *world
	lobby   []*LobbyPlayer
	clients map[string]Broadcaster

	hostID     string
	scoreLimit int
	started    bool
	ended      bool

	running bool
	stopCh  chan struct{}

	// Pending deferred respawns, cancelled wholesale on Stop so no callback
	// can fire into a torn-down room
	respawnTimers map[*time.Timer]struct{}
}

// NewGameRoom creates a room in the lobby phase. The loop does not run until
// the host starts the game.
func NewGameRoom(code string, m *GameMap) *GameRoom {
	return &GameRoom{
		Code:          code,
		world:         newWorld(m),
		clients:       make(map[string]Broadcaster),
		scoreLimit:    ScoreLimitDefault,
		respawnTimers: make(map[*time.Timer]struct{}),
	}
}

// Size returns the number of players in the room.
func (r *GameRoom) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lobby)
}

// IsEmpty reports whether no players remain.
func (r *GameRoom) IsEmpty() bool {
	return r.Size() == 0
}

// HostID returns the current host's player id ("" if the room is empty).
func (r *GameRoom) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

// Started reports whether the match has begun.
func (r *GameRoom) Started() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.started
}

// HasPlayer reports whether the player is in the room.
func (r *GameRoom) HasPlayer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.lobby {
		if p.ID == id {
			return true
		}
	}
	return false
}

// AddPlayer appends a player to the lobby. The first player ever added
// becomes host. Every join rebroadcasts the lobby roster.
func (r *GameRoom) AddPlayer(id, displayName string, client Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lobby = append(r.lobby, &LobbyPlayer{ID: id, DisplayName: displayName})
	if client != nil {
		r.clients[id] = client
	}
	if r.hostID == "" {
		r.hostID = id
	}

	r.broadcastLobbyLocked()
	log.Printf("[%s] player %q (%s) joined lobby (%d players)", r.Code, displayName, id, len(r.lobby))
}

// RemovePlayer takes a player out of the room in either phase: their tank and
// buffered input go away, any flag they carried drops in place, and the host
// role passes to the next player in join order. Emptying the room stops the
// loop; the RoomManager handles deletion.
func (r *GameRoom) RemovePlayer(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, p := range r.lobby {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	r.lobby = append(r.lobby[:idx], r.lobby[idx+1:]...)
	delete(r.clients, id)
	r.world.removeTank(id)

	for _, flag := range r.world.flags {
		if flag.CarrierID == id {
			flag.CarrierID = ""
			flag.AtBase = false
		}
	}

	if r.hostID == id {
		r.hostID = ""
		if len(r.lobby) > 0 {
			r.hostID = r.lobby[0].ID
			log.Printf("[%s] host left, promoted %s", r.Code, r.hostID)
		}
	}

	log.Printf("[%s] player %s left (%d players)", r.Code, id, len(r.lobby))

	if !r.started && len(r.lobby) > 0 {
		r.broadcastLobbyLocked()
	}
	if len(r.lobby) == 0 {
		r.stopLocked()
	}
}

// AssignTeam sets (or clears, with nil) a player's team. Host-only and
// lobby-only; anything else is dropped silently so non-hosts learn nothing
// about host affordances.
func (r *GameRoom) AssignTeam(callerID, targetID string, team *Team) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID || r.started {
		return
	}
	for _, p := range r.lobby {
		if p.ID == targetID {
			p.Team = team
			r.broadcastLobbyLocked()
			return
		}
	}
}

// SetScoreLimit changes the win threshold. Host-only, lobby-only; the value
// is clamped into [ScoreLimitMin, ScoreLimitMax] rather than rejected.
func (r *GameRoom) SetScoreLimit(callerID string, limit int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID || r.started {
		return
	}
	r.scoreLimit = ClampInt(limit, ScoreLimitMin, ScoreLimitMax)
	r.broadcastLobbyLocked()
}

// StartGame transitions lobby -> active: unassigned players are balanced onto
// the smaller team (red on exact ties — red is counted first), tanks spawn at
// per-team slots in join order, each player learns their final team, everyone
// gets the gameStarted signal and the loop begins. Host-only; a second call
// is a no-op.
func (r *GameRoom) StartGame(callerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID || r.started {
		return
	}

	redCount, blueCount := 0, 0
	for _, p := range r.lobby {
		if p.Team == nil {
			continue
		}
		if *p.Team == TeamRed {
			redCount++
		} else {
			blueCount++
		}
	}
	for _, p := range r.lobby {
		if p.Team != nil {
			continue
		}
		team := TeamBlue
		if redCount <= blueCount {
			team = TeamRed
			redCount++
		} else {
			blueCount++
		}
		p.Team = &team
	}

	r.started = true

	slots := map[Team]int{}
	for _, p := range r.lobby {
		team := *p.Team
		tank := NewTank(p.ID, team, slots[team], p.DisplayName, r.world.gameMap)
		slots[team]++
		r.world.addTank(tank)

		if client, ok := r.clients[p.ID]; ok {
			client.SendJSON(Envelope{T: MsgPlayerAssignment, Data: PlayerAssignmentMsg{PlayerID: p.ID, Team: team}})
		}
	}

	r.broadcastJSONLocked(Envelope{T: MsgGameStarted})
	r.startLoopLocked()
	log.Printf("[%s] game started with %d players at %d ticks/sec", r.Code, len(r.lobby), TickRate)
}

// HandleInput buffers the latest input for a player. Called from connection
// goroutines; the next tick consumes whatever is buffered, last write wins.
// Dropped silently before the game starts (no tank exists yet).
func (r *GameRoom) HandleInput(id string, input PlayerInput) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return
	}
	if _, ok := r.world.tanks[id]; !ok {
		return
	}
	r.world.inputs[id] = input
}

// Tick returns the current tick counter.
func (r *GameRoom) Tick() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world.tick
}

// Scores returns a copy of the current team scores.
func (r *GameRoom) Scores() map[Team]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return map[Team]int{TeamRed: r.world.scores[TeamRed], TeamBlue: r.world.scores[TeamBlue]}
}

func (r *GameRoom) startLoopLocked() {
	if r.running {
		return
	}
	r.running = true
	r.stopCh = make(chan struct{})
	go r.run(r.stopCh)
}

func (r *GameRoom) run(stop chan struct{}) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.step()
		case <-stop:
			return
		}
	}
}

// step is one tick: physics, tank collisions, projectiles, flags, win check,
// tick counter, state broadcast — strictly in that order, atomically under
// the room lock. A capture that reaches the score limit ends the match
// immediately; the remaining steps of that tick are skipped.
func (r *GameRoom) step() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}

	now := time.Now().UnixMilli()
	dt := TickInterval.Seconds()

	updatePhysics(r.world, dt)
	resolveCollisions(r.world)

	kills, deaths := updateProjectiles(r.world, now, dt)
	for _, kill := range kills {
		r.broadcastJSONLocked(Envelope{T: MsgPlayerKilled, Data: kill})
	}
	for _, tank := range deaths {
		r.scheduleRespawnLocked(tank.ID)
	}

	flagEvents := updateFlags(r.world)
	for _, ret := range flagEvents.Returns {
		r.broadcastJSONLocked(Envelope{T: MsgFlagReturned, Data: ret})
	}
	for _, capture := range flagEvents.Captures {
		r.broadcastJSONLocked(Envelope{T: MsgFlagCaptured, Data: capture})
		log.Printf("[%s] team %s scored (%d - %d)", r.Code, capture.Team,
			r.world.scores[TeamRed], r.world.scores[TeamBlue])

		if r.world.scores[capture.Team] >= r.scoreLimit {
			r.broadcastJSONLocked(Envelope{T: MsgGameOver, Data: GameOverMsg{
				Winner: capture.Team,
				Scores: map[Team]int{TeamRed: r.world.scores[TeamRed], TeamBlue: r.world.scores[TeamBlue]},
			}})
			log.Printf("[%s] game over, %s wins", r.Code, capture.Team)
			r.ended = true
			r.stopLocked()
			return
		}
	}

	r.world.tick++
	r.broadcastStateLocked()
}

// scheduleRespawnLocked queues a deferred respawn for a destroyed tank. The
// timer belongs to the room and is cancelled on Stop.
func (r *GameRoom) scheduleRespawnLocked(tankID string) {
	var timer *time.Timer
	timer = time.AfterFunc(TankRespawnDelay*time.Millisecond, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		delete(r.respawnTimers, timer)
		if r.ended {
			return
		}
		tank, ok := r.world.tanks[tankID]
		if !ok || tank.Alive {
			return
		}
		tank.Respawn(r.world.gameMap)
	})
	r.respawnTimers[timer] = struct{}{}
}

// Stop halts the tick loop and cancels pending respawns. Safe to call any
// number of times, in any state.
func (r *GameRoom) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *GameRoom) stopLocked() {
	for timer := range r.respawnTimers {
		timer.Stop()
		delete(r.respawnTimers, timer)
	}
	if !r.running {
		return
	}
	r.running = false
	close(r.stopCh)
	log.Printf("[%s] game loop stopped", r.Code)
}

func (r *GameRoom) broadcastLobbyLocked() {
	players := make([]LobbyPlayerInfo, 0, len(r.lobby))
	for _, p := range r.lobby {
		players = append(players, LobbyPlayerInfo{ID: p.ID, DisplayName: p.DisplayName, Team: p.Team})
	}
	r.broadcastJSONLocked(Envelope{T: MsgLobbyUpdate, Data: LobbyStateMsg{
		RoomCode:   r.Code,
		HostID:     r.hostID,
		Players:    players,
		ScoreLimit: r.scoreLimit,
	}})
}

func (r *GameRoom) broadcastJSONLocked(msg Envelope) {
	for _, client := range r.clients {
		client.SendJSON(msg)
	}
}

func (r *GameRoom) broadcastStateLocked() {
	data, err := msgpack.Marshal(r.world.snapshot())
	if err != nil {
		log.Printf("[%s] snapshot encode: %v", r.Code, err)
		return
	}
	for _, client := range r.clients {
		client.SendBinary(data)
	}
}
