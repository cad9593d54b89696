package main

import "encoding/json"

// Client -> Server message types
const (
	MsgCreateRoom    = "createRoom"
	MsgJoinRoom      = "joinRoom"
	MsgAssignTeam    = "assignTeam"
	MsgSetScoreLimit = "setScoreLimit"
	MsgStartGame     = "startGame"
	MsgPlayerInput   = "playerInput"
	MsgRegister      = "register"
	MsgLogin         = "login"
	MsgAuth          = "auth" // resume with a previously issued token
)

// Server -> Client message types
const (
	MsgRoomCreated      = "roomCreated"
	MsgRoomJoined       = "roomJoined"
	MsgRoomError        = "roomError"
	MsgLobbyUpdate      = "lobbyUpdate"
	MsgGameStarted      = "gameStarted"
	MsgPlayerAssignment = "playerAssignment"
	MsgGameState        = "gameState" // sent as a binary msgpack frame
	MsgFlagCaptured     = "flagCaptured"
	MsgFlagReturned     = "flagReturned"
	MsgPlayerKilled     = "playerKilled"
	MsgGameOver         = "gameOver"
	MsgAuthOK           = "authOk"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages — json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// PlayerInput is the buffered per-player input consumed by the tick loop.
// Last write wins; Tick is client-local and not validated by the server.
type PlayerInput struct {
	Tick  int  `json:"tick"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Shoot bool `json:"shoot"`
}

// CreateRoomMsg requests a new room
type CreateRoomMsg struct {
	DisplayName string `json:"displayName"`
}

// JoinRoomMsg requests joining an existing room by code
type JoinRoomMsg struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// AssignTeamMsg is a host-only team assignment; nil Team unassigns
type AssignTeamMsg struct {
	TargetPlayerID string `json:"targetPlayerId"`
	Team           *Team  `json:"team"`
}

// SetScoreLimitMsg is a host-only score limit change
type SetScoreLimitMsg struct {
	ScoreLimit int `json:"scoreLimit"`
}

// RoomCodeMsg carries a room code back to the caller
type RoomCodeMsg struct {
	Code string `json:"code"`
}

// ErrorMsg is a user-facing recoverable error
type ErrorMsg struct {
	Message string `json:"message"`
}

// LobbyPlayerInfo is one entry of the lobby roster. Team is null until the
// host assigns one (or auto-balance does at game start).
type LobbyPlayerInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Team        *Team  `json:"team"`
}

// LobbyStateMsg is broadcast on every lobby change
type LobbyStateMsg struct {
	RoomCode   string            `json:"roomCode"`
	HostID     string            `json:"hostId"`
	Players    []LobbyPlayerInfo `json:"players"`
	ScoreLimit int               `json:"scoreLimit"`
}

// PlayerAssignmentMsg tells one player their final team
type PlayerAssignmentMsg struct {
	PlayerID string `json:"playerId"`
	Team     Team   `json:"team"`
}

// FlagEventMsg announces a capture or return
type FlagEventMsg struct {
	Team     Team   `json:"team"`
	PlayerID string `json:"playerId"`
}

// KillMsg announces a destroyed tank
type KillMsg struct {
	KillerID string `json:"killerId"`
	VictimID string `json:"victimId"`
}

// GameOverMsg announces the winner and final scores; the room loop stops
// right after this is sent
type GameOverMsg struct {
	Winner Team         `json:"winner"`
	Scores map[Team]int `json:"scores"`
}

// TankState is the wire snapshot of one tank
type TankState struct {
	ID           string  `json:"id" msgpack:"id"`
	Team         Team    `json:"team" msgpack:"team"`
	DisplayName  string  `json:"displayName" msgpack:"displayName"`
	X            float64 `json:"x" msgpack:"x"`
	Y            float64 `json:"y" msgpack:"y"`
	Rotation     float64 `json:"rotation" msgpack:"rotation"`
	Health       int     `json:"health" msgpack:"health"`
	Alive        bool    `json:"alive" msgpack:"alive"`
	HasFlag      bool    `json:"hasFlag" msgpack:"hasFlag"`
	LastShotTime int64   `json:"lastShotTime" msgpack:"lastShotTime"`
}

// ProjectileState is the wire snapshot of one projectile
type ProjectileState struct {
	ID        int64   `json:"id" msgpack:"id"`
	OwnerID   string  `json:"ownerId" msgpack:"ownerId"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Rotation  float64 `json:"rotation" msgpack:"rotation"`
	VX        float64 `json:"vx" msgpack:"vx"`
	VY        float64 `json:"vy" msgpack:"vy"`
	CreatedAt int64   `json:"createdAt" msgpack:"createdAt"`
}

// FlagSnapshot is the wire snapshot of one flag
type FlagSnapshot struct {
	Team      Team    `json:"team" msgpack:"team"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	CarrierID string  `json:"carrierId" msgpack:"carrierId"` // "" when uncarried
	AtBase    bool    `json:"atBase" msgpack:"atBase"`
}

// GameState is the full per-tick snapshot. It is msgpack-encoded and sent as
// a binary frame; everything else on the wire is JSON.
type GameState struct {
	Tick        uint64                `json:"tick" msgpack:"tick"`
	Tanks       map[string]TankState  `json:"tanks" msgpack:"tanks"`
	Projectiles []ProjectileState     `json:"projectiles" msgpack:"projectiles"`
	Flags       map[Team]FlagSnapshot `json:"flags" msgpack:"flags"`
	Scores      map[Team]int          `json:"scores" msgpack:"scores"`
}

// RegisterMsg creates an account
type RegisterMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginMsg authenticates with username/password
type LoginMsg struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthMsg resumes a session with a token
type AuthMsg struct {
	Token string `json:"token"`
}

// AuthOKMsg confirms authentication
type AuthOKMsg struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	PlayerID int64  `json:"playerId"`
}
