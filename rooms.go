package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"strings"
	"sync"
)

const (
	roomCodeLength = 4
	// I and O omitted: too easy to misread as 1 and 0 on a shared screen
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	maxRooms         = 200
)

// RoomManager owns the registry of active rooms: code generation, routing a
// connecting player to their room, and teardown when a room empties. Rooms
// themselves are isolated; this is the only cross-room structure.
type RoomManager struct {
	mu         sync.Mutex
	rooms      map[string]*GameRoom
	playerRoom map[string]string // playerID -> room code
	gameMap    *GameMap
}

// NewRoomManager creates a registry; all rooms it creates simulate on m.
func NewRoomManager(m *GameMap) *RoomManager {
	return &RoomManager{
		rooms:      make(map[string]*GameRoom),
		playerRoom: make(map[string]string),
		gameMap:    m,
	}
}

// CreateRoom makes a new room with a fresh code and adds the caller as its
// first player (and host). Fails if the caller is already in a room.
func (rm *RoomManager) CreateRoom(playerID, displayName string, client Broadcaster) (*GameRoom, error) {
	rm.mu.Lock()

	if code, ok := rm.playerRoom[playerID]; ok {
		rm.mu.Unlock()
		return nil, fmt.Errorf("you are already in room %s", code)
	}
	if len(rm.rooms) >= maxRooms {
		rm.mu.Unlock()
		return nil, fmt.Errorf("too many active rooms, try again later")
	}

	code := rm.generateCodeLocked()
	room := NewGameRoom(code, rm.gameMap)
	rm.rooms[code] = room
	rm.playerRoom[playerID] = code
	rm.mu.Unlock()

	room.AddPlayer(playerID, displayName, client)
	log.Printf("room %s created by %q (%d active rooms)", code, displayName, rm.RoomCount())
	return room, nil
}

// JoinRoom adds the caller to an existing room's lobby. The code is
// normalized (trimmed, uppercased) before lookup. Fails if the caller is
// already in a room or no such room exists.
func (rm *RoomManager) JoinRoom(playerID, code, displayName string, client Broadcaster) (*GameRoom, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	rm.mu.Lock()
	if existing, ok := rm.playerRoom[playerID]; ok {
		rm.mu.Unlock()
		return nil, fmt.Errorf("you are already in room %s", existing)
	}
	room, ok := rm.rooms[normalized]
	if !ok {
		rm.mu.Unlock()
		return nil, fmt.Errorf("room %q not found, check the code and try again", normalized)
	}
	rm.playerRoom[playerID] = normalized
	rm.mu.Unlock()

	room.AddPlayer(playerID, displayName, client)
	return room, nil
}

// Get returns the room for a code, or nil.
func (rm *RoomManager) Get(code string) *GameRoom {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.rooms[code]
}

// RoomFor returns the room a player is in, or nil.
func (rm *RoomManager) RoomFor(playerID string) *GameRoom {
	rm.mu.Lock()
	code, ok := rm.playerRoom[playerID]
	if !ok {
		rm.mu.Unlock()
		return nil
	}
	room := rm.rooms[code]
	rm.mu.Unlock()
	return room
}

// Disconnect removes a player from their room, if any. A room left with no
// players has its loop stopped and is deleted, freeing all its resources.
func (rm *RoomManager) Disconnect(playerID string) {
	rm.mu.Lock()
	code, ok := rm.playerRoom[playerID]
	if !ok {
		rm.mu.Unlock()
		return
	}
	delete(rm.playerRoom, playerID)
	room := rm.rooms[code]
	rm.mu.Unlock()

	if room == nil {
		return
	}
	room.RemovePlayer(playerID)

	if room.IsEmpty() {
		room.Stop()
		rm.mu.Lock()
		delete(rm.rooms, code)
		n := len(rm.rooms)
		rm.mu.Unlock()
		log.Printf("room %s destroyed (%d active rooms)", code, n)
	}
}

// RoomCount returns the number of active rooms.
func (rm *RoomManager) RoomCount() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.rooms)
}

// StopAll stops every active room's loop. Used on shutdown.
func (rm *RoomManager) StopAll() {
	rm.mu.Lock()
	rooms := make([]*GameRoom, 0, len(rm.rooms))
	for _, room := range rm.rooms {
		rooms = append(rooms, room)
	}
	rm.mu.Unlock()

	for _, room := range rooms {
		room.Stop()
	}
}

// generateCodeLocked draws 4-character codes until one is unused. 24^4
// combinations make retries rare but not impossible.
func (rm *RoomManager) generateCodeLocked() string {
	for {
		b := make([]byte, roomCodeLength)
		rand.Read(b)
		for i := range b {
			b[i] = roomCodeAlphabet[int(b[i])%len(roomCodeAlphabet)]
		}
		code := string(b)
		if _, exists := rm.rooms[code]; !exists {
			return code
		}
	}
}
