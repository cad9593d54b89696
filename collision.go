package main

import "math"

// resolveCollisions separates overlapping tank pairs using a circular
// approximation. The split is asymmetric: a tank that is actively moving
// (forward or backward input this tick) pushing into a stationary one
// absorbs most of the correction itself and drags the stationary tank by
// TankPushFactor, so an obstacle slows the mover without stopping it dead.
// Head-on pairs and two idle tanks split the overlap evenly — neither has
// priority.
//
// Runs right after updatePhysics each tick, over alive tanks only.
func resolveCollisions(w *world) {
	tanks := w.aliveTanks()
	minDist := TankCollisionRadius * 2
	minDistSq := minDist * minDist

	for i := 0; i < len(tanks); i++ {
		for j := i + 1; j < len(tanks); j++ {
			a, b := tanks[i], tanks[j]

			dx := b.X - a.X
			dy := b.Y - a.Y
			distSq := dx*dx + dy*dy
			if distSq >= minDistSq || distSq == 0 {
				continue
			}

			dist := math.Sqrt(distSq)
			overlap := minDist - dist

			// Unit normal from a to b
			nx := dx / dist
			ny := dy / dist

			movingA := hasMoveInput(w.inputs, a.ID)
			movingB := hasMoveInput(w.inputs, b.ID)

			// shareA is the fraction of the overlap pushing a backward
			// (along -normal); shareB pushes b forward along +normal.
			var shareA, shareB float64
			switch {
			case movingA && !movingB:
				shareA = 1 - TankPushFactor
				shareB = TankPushFactor
			case !movingA && movingB:
				shareA = TankPushFactor
				shareB = 1 - TankPushFactor
			default:
				shareA = 0.5
				shareB = 0.5
			}

			a.X -= nx * overlap * shareA
			a.Y -= ny * overlap * shareA
			b.X += nx * overlap * shareB
			b.Y += ny * overlap * shareB

			clampTankToArena(a, w.gameMap)
			clampTankToArena(b, w.gameMap)
		}
	}
}

func hasMoveInput(inputs map[string]PlayerInput, id string) bool {
	in, ok := inputs[id]
	return ok && (in.Up || in.Down)
}
