package main

import "math"

// updatePhysics advances tank movement for every player with buffered input.
// Dead tanks are skipped entirely. After moving, each tank is pushed out of
// any interior wall it overlaps and clamped to the arena bounds.
//
// Runs first in the tick pipeline.
func updatePhysics(w *world, dt float64) {
	for playerID, input := range w.inputs {
		tank, ok := w.tanks[playerID]
		if !ok || !tank.Alive {
			continue
		}

		if input.Left {
			tank.Rotation -= TankRotationSpeed * dt
		}
		if input.Right {
			tank.Rotation += TankRotationSpeed * dt
		}
		tank.Rotation = NormalizeAngle(tank.Rotation)

		var dx, dy float64
		if input.Up {
			dx += math.Cos(tank.Rotation) * TankSpeed * dt
			dy += math.Sin(tank.Rotation) * TankSpeed * dt
		}
		if input.Down {
			dx -= math.Cos(tank.Rotation) * TankSpeed * TankReverseFactor * dt
			dy -= math.Sin(tank.Rotation) * TankSpeed * TankReverseFactor * dt
		}

		tank.X += dx
		tank.Y += dy

		for _, wall := range w.gameMap.Walls {
			pushTankOutOfWall(tank, wall)
		}

		clampTankToArena(tank, w.gameMap)
	}
}

// pushTankOutOfWall resolves a single tank/wall overlap by pushing the tank
// along whichever axis has the smaller penetration, away from the wall
// center. Exact ties go to the x axis (the `<` comparison). Walls are
// resolved sequentially against the already-adjusted position; boards keep
// their walls non-overlapping, so the order does not matter in practice.
func pushTankOutOfWall(tank *Tank, wall WallRect) {
	halfW := TankWidth / 2
	halfH := TankHeight / 2

	overlapX := math.Min(tank.X+halfW, wall.X+wall.Width) - math.Max(tank.X-halfW, wall.X)
	overlapY := math.Min(tank.Y+halfH, wall.Y+wall.Height) - math.Max(tank.Y-halfH, wall.Y)
	if overlapX <= 0 || overlapY <= 0 {
		return
	}

	if overlapX < overlapY {
		if tank.X < wall.X+wall.Width/2 {
			tank.X -= overlapX
		} else {
			tank.X += overlapX
		}
	} else {
		if tank.Y < wall.Y+wall.Height/2 {
			tank.Y -= overlapY
		} else {
			tank.Y += overlapY
		}
	}
}

func clampTankToArena(tank *Tank, m *GameMap) {
	halfW := TankWidth / 2
	halfH := TankHeight / 2
	tank.X = Clamp(tank.X, halfW, m.Width-halfW)
	tank.Y = Clamp(tank.Y, halfH, m.Height-halfH)
}
