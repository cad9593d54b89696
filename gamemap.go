package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Team identifies one of the two sides. The string values are part of the
// wire protocol, so clients see "red"/"blue" directly.
type Team string

const (
	TeamRed  Team = "red"
	TeamBlue Team = "blue"
)

// Teams lists both teams in a stable order (red first).
var Teams = [2]Team{TeamRed, TeamBlue}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlue
	}
	return TeamRed
}

// Vec2 is a point in arena coordinates.
type Vec2 struct {
	X float64 `yaml:"x" json:"x" msgpack:"x"`
	Y float64 `yaml:"y" json:"y" msgpack:"y"`
}

// WallRect is an axis-aligned interior wall, defined by its top-left corner.
type WallRect struct {
	X      float64 `yaml:"x" json:"x" msgpack:"x"`
	Y      float64 `yaml:"y" json:"y" msgpack:"y"`
	Width  float64 `yaml:"width" json:"width" msgpack:"width"`
	Height float64 `yaml:"height" json:"height" msgpack:"height"`
}

// GameMap is the static board geometry a room simulates on: arena size,
// interior walls, flag bases, ordered spawn slots and respawn corners per team.
// Rooms treat it as read-only.
type GameMap struct {
	Name   string     `yaml:"name"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Walls  []WallRect `yaml:"walls"`

	// Flag base position per team. Doubles as the team's capture zone center.
	Flags map[Team]Vec2 `yaml:"flags"`

	// Ordered spawn slots per team; slot i wraps around len(slots).
	Spawns map[Team][]Vec2 `yaml:"spawns"`

	// Respawn corners per team; destroyed tanks reappear at a random one.
	Respawns map[Team][]Vec2 `yaml:"respawns"`
}

// SpawnSlot returns the spawn position for the i-th tank of a team.
func (m *GameMap) SpawnSlot(team Team, i int) Vec2 {
	slots := m.Spawns[team]
	return slots[i%len(slots)]
}

// RespawnPoint returns a random respawn corner for the team, so enemies
// cannot predict the reentry point. rand's global source is goroutine-safe;
// respawn timers call this outside the tick.
func (m *GameMap) RespawnPoint(team Team) Vec2 {
	corners := m.Respawns[team]
	return corners[rand.Intn(len(corners))]
}

// FlagBase returns the team's flag home position.
func (m *GameMap) FlagBase(team Team) Vec2 {
	return m.Flags[team]
}

// SpawnRotation returns the default facing for a team. Red sits at the top of
// the board and faces south; blue sits at the bottom and faces north.
func SpawnRotation(team Team) float64 {
	if team == TeamRed {
		return math.Pi / 2
	}
	return -math.Pi / 2
}

// Validate checks a loaded map for the structural invariants the simulation
// relies on.
func (m *GameMap) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("map %q: non-positive arena size %gx%g", m.Name, m.Width, m.Height)
	}
	for _, team := range Teams {
		if _, ok := m.Flags[team]; !ok {
			return fmt.Errorf("map %q: missing %s flag position", m.Name, team)
		}
		if len(m.Spawns[team]) == 0 {
			return fmt.Errorf("map %q: no %s spawn slots", m.Name, team)
		}
		if len(m.Respawns[team]) == 0 {
			return fmt.Errorf("map %q: no %s respawn corners", m.Name, team)
		}
	}
	for i, w := range m.Walls {
		if w.Width <= 0 || w.Height <= 0 {
			return fmt.Errorf("map %q: wall %d has non-positive size", m.Name, i)
		}
	}
	return nil
}

// LoadMap reads a map definition from a YAML file.
func LoadMap(path string) (*GameMap, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m GameMap
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse map %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ClassicBoard returns the built-in vertical board: red base at the top, blue
// at the bottom, two big mid-field barriers with a central corridor, and
// smaller cover walls shielding each flag.
func ClassicBoard() *GameMap {
	return &GameMap{
		Name:   "Classic Board",
		Width:  800,
		Height: 1200,
		Walls: []WallRect{
			{X: 0, Y: 400, Width: 335, Height: 400},   // left mid-field barrier
			{X: 465, Y: 400, Width: 335, Height: 400}, // right mid-field barrier

			{X: 0, Y: 280, Width: 180, Height: 120},    // left cover, red side
			{X: 620, Y: 280, Width: 180, Height: 120},  // right cover, red side
			{X: 270, Y: 120, Width: 260, Height: 10},   // bar in front of red flag
			{X: 335, Y: 280, Width: 130, Height: 10},   // second bar, red side
			{X: 395, Y: 130, Width: 10, Height: 85},    // divider under red flag
			{X: 180, Y: 0, Width: 10, Height: 190},     // left divider, red corner
			{X: 610, Y: 0, Width: 10, Height: 190},     // right divider, red corner

			{X: 0, Y: 800, Width: 180, Height: 120},    // left cover, blue side
			{X: 620, Y: 800, Width: 180, Height: 120},  // right cover, blue side
			{X: 270, Y: 1070, Width: 260, Height: 10},  // bar in front of blue flag
			{X: 335, Y: 910, Width: 130, Height: 10},   // second bar, blue side
			{X: 395, Y: 985, Width: 10, Height: 85},    // divider above blue flag
			{X: 180, Y: 1010, Width: 10, Height: 190},  // left divider, blue corner
			{X: 610, Y: 1010, Width: 10, Height: 190},  // right divider, blue corner
		},
		Flags: map[Team]Vec2{
			TeamRed:  {X: 400, Y: 80},
			TeamBlue: {X: 400, Y: 1120},
		},
		Spawns: map[Team][]Vec2{
			TeamRed: {
				{X: 240, Y: 60}, {X: 560, Y: 60}, {X: 300, Y: 220}, {X: 500, Y: 220},
			},
			TeamBlue: {
				{X: 240, Y: 1140}, {X: 560, Y: 1140}, {X: 300, Y: 980}, {X: 500, Y: 980},
			},
		},
		Respawns: map[Team][]Vec2{
			TeamRed:  {{X: 80, Y: 60}, {X: 720, Y: 60}},
			TeamBlue: {{X: 80, Y: 1140}, {X: 720, Y: 1140}},
		},
	}
}
