package main

import (
	"math"
	"sync"
	"testing"
)

// testBoard is a small open arena (no walls) so movement tests get clean
// numbers. Tests that need walls add their own.
func testBoard() *GameMap {
	return &GameMap{
		Name:   "test",
		Width:  800,
		Height: 600,
		Flags: map[Team]Vec2{
			TeamRed:  {X: 100, Y: 300},
			TeamBlue: {X: 700, Y: 300},
		},
		Spawns: map[Team][]Vec2{
			TeamRed:  {{X: 100, Y: 100}, {X: 100, Y: 500}},
			TeamBlue: {{X: 700, Y: 100}, {X: 700, Y: 500}},
		},
		Respawns: map[Team][]Vec2{
			TeamRed:  {{X: 60, Y: 60}},
			TeamBlue: {{X: 740, Y: 540}},
		},
	}
}

// spawnTank drops a tank into the world at an explicit position facing east.
func spawnTank(w *world, id string, team Team, x, y float64) *Tank {
	tank := NewTank(id, team, 0, id, w.gameMap)
	tank.X = x
	tank.Y = y
	tank.Rotation = 0
	w.addTank(tank)
	return tank
}

func almostEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !almostEq(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// mockBroadcaster captures everything a room sends to one player.
type mockBroadcaster struct {
	mu     sync.Mutex
	json   []Envelope
	binary [][]byte
}

func (m *mockBroadcaster) SendJSON(msg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if env, ok := msg.(Envelope); ok {
		m.json = append(m.json, env)
	}
}

func (m *mockBroadcaster) SendBinary(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.binary = append(m.binary, cp)
}

func (m *mockBroadcaster) count(msgType string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, env := range m.json {
		if env.T == msgType {
			n++
		}
	}
	return n
}

func (m *mockBroadcaster) last(msgType string) (Envelope, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.json) - 1; i >= 0; i-- {
		if m.json[i].T == msgType {
			return m.json[i], true
		}
	}
	return Envelope{}, false
}
