package main

const (
	TankWidth           = 40.0
	TankHeight          = 30.0
	TankSpeed           = 200.0 // pixels/s
	TankReverseFactor   = 0.5   // reverse speed as a fraction of forward
	TankRotationSpeed   = 3.0   // radians/s
	TankCollisionRadius = 20.0
	TankPushFactor      = 0.35 // how far a stationary tank is dragged
	TankMaxHealth       = 1
	TankShootCooldown   = 500  // ms between shots
	TankRespawnDelay    = 3000 // ms before a destroyed tank reappears
)

// Tank is the live in-game state for one player. Owned exclusively by its
// room; all mutation happens under the room lock.
type Tank struct {
	ID           string
	Team         Team
	DisplayName  string
	X, Y         float64
	Rotation     float64 // radians
	Health       int
	Alive        bool
	HasFlag      bool
	LastShotTime int64 // unix ms
}

// NewTank creates a tank at the team's spawn slot for the given index.
func NewTank(id string, team Team, slot int, displayName string, m *GameMap) *Tank {
	pos := m.SpawnSlot(team, slot)
	return &Tank{
		ID:          id,
		Team:        team,
		DisplayName: displayName,
		X:           pos.X,
		Y:           pos.Y,
		Rotation:    SpawnRotation(team),
		Health:      TankMaxHealth,
		Alive:       true,
	}
}

// Respawn brings a destroyed tank back at a random corner on its team's side.
func (t *Tank) Respawn(m *GameMap) {
	pos := m.RespawnPoint(t.Team)
	t.X = pos.X
	t.Y = pos.Y
	t.Rotation = SpawnRotation(t.Team)
	t.Health = TankMaxHealth
	t.Alive = true
	t.HasFlag = false
}

// ResetToSlot returns the tank to a formation spawn slot. Used on full map
// resets after a capture, where tanks line up again instead of scattering.
func (t *Tank) ResetToSlot(slot int, m *GameMap) {
	pos := m.SpawnSlot(t.Team, slot)
	t.X = pos.X
	t.Y = pos.Y
	t.Rotation = SpawnRotation(t.Team)
	t.Health = TankMaxHealth
	t.Alive = true
	t.HasFlag = false
}

// ToState converts to the wire snapshot form.
func (t *Tank) ToState() TankState {
	return TankState{
		ID:           t.ID,
		Team:         t.Team,
		DisplayName:  t.DisplayName,
		X:            t.X,
		Y:            t.Y,
		Rotation:     t.Rotation,
		Health:       t.Health,
		Alive:        t.Alive,
		HasFlag:      t.HasFlag,
		LastShotTime: t.LastShotTime,
	}
}
