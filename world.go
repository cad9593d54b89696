package main

// world is one room's simulation state: the tanks, projectiles, flags and
// scores the four systems operate on. It is owned exclusively by a GameRoom
// and only touched under the room lock; the broadcast boundary sees copies
// built by snapshot().
type world struct {
	gameMap *GameMap
	tick    uint64

	tanks     map[string]*Tank
	tankOrder []string // join order, for deterministic iteration

	projectiles      []*Projectile
	nextProjectileID int64

	flags  map[Team]*Flag
	scores map[Team]int

	// Latest buffered input per player; last write wins
	inputs map[string]PlayerInput
}

func newWorld(m *GameMap) *world {
	return &world{
		gameMap: m,
		tanks:   make(map[string]*Tank),
		flags: map[Team]*Flag{
			TeamRed:  NewFlag(TeamRed, m),
			TeamBlue: NewFlag(TeamBlue, m),
		},
		scores: map[Team]int{TeamRed: 0, TeamBlue: 0},
		inputs: make(map[string]PlayerInput),
	}
}

func (w *world) addTank(t *Tank) {
	w.tanks[t.ID] = t
	w.tankOrder = append(w.tankOrder, t.ID)
}

func (w *world) removeTank(id string) {
	delete(w.tanks, id)
	delete(w.inputs, id)
	for i, tid := range w.tankOrder {
		if tid == id {
			w.tankOrder = append(w.tankOrder[:i], w.tankOrder[i+1:]...)
			break
		}
	}
}

// aliveTanks returns the alive tanks in join order.
func (w *world) aliveTanks() []*Tank {
	tanks := make([]*Tank, 0, len(w.tanks))
	for _, id := range w.tankOrder {
		if t := w.tanks[id]; t.Alive {
			tanks = append(tanks, t)
		}
	}
	return tanks
}

// resetAfterCapture puts the map back into formation after a score: every
// tank on both teams returns to a spawn slot and both flags go home.
// Projectiles in flight are left alone; they expire on their own.
func (w *world) resetAfterCapture() {
	slots := map[Team]int{}
	for _, id := range w.tankOrder {
		tank := w.tanks[id]
		tank.ResetToSlot(slots[tank.Team], w.gameMap)
		slots[tank.Team]++
	}
	for _, flag := range w.flags {
		flag.Reset(w.gameMap)
	}
}

// snapshot builds a read-only copy of the state for the broadcast boundary.
func (w *world) snapshot() GameState {
	gs := GameState{
		Tick:        w.tick,
		Tanks:       make(map[string]TankState, len(w.tanks)),
		Projectiles: make([]ProjectileState, 0, len(w.projectiles)),
		Flags:       make(map[Team]FlagSnapshot, len(w.flags)),
		Scores:      map[Team]int{TeamRed: w.scores[TeamRed], TeamBlue: w.scores[TeamBlue]},
	}
	for id, tank := range w.tanks {
		gs.Tanks[id] = tank.ToState()
	}
	for _, proj := range w.projectiles {
		gs.Projectiles = append(gs.Projectiles, proj.ToState())
	}
	for team, flag := range w.flags {
		gs.Flags[team] = flag.ToSnapshot()
	}
	return gs
}
