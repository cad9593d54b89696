package main

const (
	FlagPickupDistance = 30.0
	CaptureZoneRadius  = 50.0
)

// Flag is one team's flag. Exactly one exists per team for the life of the
// room; it is only ever reset, never destroyed. CarrierID names the tank
// carrying it ("" when it is on the ground).
type Flag struct {
	Team      Team
	X, Y      float64
	CarrierID string
	AtBase    bool
}

// NewFlag creates a flag at its team's base.
func NewFlag(team Team, m *GameMap) *Flag {
	pos := m.FlagBase(team)
	return &Flag{Team: team, X: pos.X, Y: pos.Y, AtBase: true}
}

// Reset returns the flag to its base, uncarried.
func (f *Flag) Reset(m *GameMap) {
	pos := f.homeOn(m)
	f.X = pos.X
	f.Y = pos.Y
	f.CarrierID = ""
	f.AtBase = true
}

func (f *Flag) homeOn(m *GameMap) Vec2 {
	return m.FlagBase(f.Team)
}

// ToSnapshot converts to the wire snapshot form.
func (f *Flag) ToSnapshot() FlagSnapshot {
	return FlagSnapshot{Team: f.Team, X: f.X, Y: f.Y, CarrierID: f.CarrierID, AtBase: f.AtBase}
}

// FlagEvents is what one flag pass produced.
type FlagEvents struct {
	Captures []FlagEventMsg
	Returns  []FlagEventMsg
}

// updateFlags runs the flag state machine for both flags.
//
// Carried: the flag mirrors its carrier's position. A dead or vanished
// carrier drops it in place. A carrier standing inside their OWN team's
// capture zone scores — the zone check is against the carrier's base, not the
// flag's home, so hauling red's flag into red's zone scores nothing.
// A capture resets the whole map (tanks back to formation, both flags home),
// which invalidates every position this pass has looked at, so the pass stops
// there for the tick.
//
// On the ground: any alive enemy tank within pickup range takes the flag
// (first match wins). A dropped flag touched by its own team returns home
// immediately.
func updateFlags(w *world) FlagEvents {
	var events FlagEvents

	for _, flagTeam := range Teams {
		flag := w.flags[flagTeam]

		if flag.CarrierID != "" {
			carrier, ok := w.tanks[flag.CarrierID]
			if !ok || !carrier.Alive {
				// Dropped where the carrier fell (or disconnected)
				flag.CarrierID = ""
				flag.AtBase = false
				continue
			}

			flag.X = carrier.X
			flag.Y = carrier.Y

			base := w.gameMap.FlagBase(carrier.Team)
			if Distance(carrier.X, carrier.Y, base.X, base.Y) < CaptureZoneRadius {
				w.scores[carrier.Team]++
				carrier.HasFlag = false
				events.Captures = append(events.Captures, FlagEventMsg{Team: carrier.Team, PlayerID: carrier.ID})
				w.resetAfterCapture()
				return events
			}
			continue
		}

		for _, id := range w.tankOrder {
			tank := w.tanks[id]
			if !tank.Alive {
				continue
			}
			if Distance(tank.X, tank.Y, flag.X, flag.Y) >= FlagPickupDistance {
				continue
			}

			if tank.Team == flagTeam {
				// Own team touching a dropped flag sends it straight home;
				// even a tank already carrying the enemy flag returns it
				if !flag.AtBase {
					flag.Reset(w.gameMap)
					events.Returns = append(events.Returns, FlagEventMsg{Team: flagTeam, PlayerID: tank.ID})
					break
				}
				continue
			}

			// Picking up requires a free hand
			if tank.HasFlag {
				continue
			}
			flag.CarrierID = tank.ID
			flag.AtBase = false
			tank.HasFlag = true
			break
		}
	}

	return events
}
