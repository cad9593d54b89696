package main

import "math"

const (
	ProjectileSpeed       = 400.0 // pixels/s
	ProjectileRadius      = 4.0
	ProjectileLifetime    = 2000 // ms; bouncing shots still expire
	ProjectileSpawnOffset = 5.0  // muzzle gap beyond the tank's half width
)

// Projectile is a live shot. IDs are monotonically increasing per room, so
// rooms never share id space.
type Projectile struct {
	ID        int64
	OwnerID   string
	X, Y      float64
	Rotation  float64
	VX, VY    float64
	CreatedAt int64 // unix ms
}

// NewProjectile spawns a shot at the tank's muzzle, moving along its facing.
func NewProjectile(id int64, tank *Tank, now int64) *Projectile {
	offset := TankWidth/2 + ProjectileSpawnOffset
	return &Projectile{
		ID:        id,
		OwnerID:   tank.ID,
		X:         tank.X + math.Cos(tank.Rotation)*offset,
		Y:         tank.Y + math.Sin(tank.Rotation)*offset,
		Rotation:  tank.Rotation,
		VX:        math.Cos(tank.Rotation) * ProjectileSpeed,
		VY:        math.Sin(tank.Rotation) * ProjectileSpeed,
		CreatedAt: now,
	}
}

// ToState converts to the wire snapshot form.
func (p *Projectile) ToState() ProjectileState {
	return ProjectileState{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		X:         p.X,
		Y:         p.Y,
		Rotation:  p.Rotation,
		VX:        p.VX,
		VY:        p.VY,
		CreatedAt: p.CreatedAt,
	}
}

// updateProjectiles runs the projectile pass: spawn shots for players holding
// shoot, integrate and bounce everything, then hit-test tanks and expire old
// shots. Returns the kill events and the tanks that died this tick (the room
// schedules their respawns).
//
// Friendly fire is on: a shot hits any alive tank, including its owner's
// teammates and — after a bounce — the owner itself.
func updateProjectiles(w *world, now int64, dt float64) (kills []KillMsg, deaths []*Tank) {
	// Spawn
	for playerID, input := range w.inputs {
		tank, ok := w.tanks[playerID]
		if !ok || !tank.Alive || !input.Shoot {
			continue
		}
		if now-tank.LastShotTime < TankShootCooldown {
			continue
		}
		w.nextProjectileID++
		w.projectiles = append(w.projectiles, NewProjectile(w.nextProjectileID, tank, now))
		tank.LastShotTime = now
	}

	// Integrate and bounce
	for _, proj := range w.projectiles {
		proj.X += proj.VX * dt
		proj.Y += proj.VY * dt

		bounceOffArenaBounds(proj, w.gameMap)
		for _, wall := range w.gameMap.Walls {
			bounceOffWall(proj, wall)
		}
	}

	// Lifetime and hits
	remove := make(map[int64]bool)
	for _, proj := range w.projectiles {
		if now-proj.CreatedAt > ProjectileLifetime {
			remove[proj.ID] = true
			continue
		}

		for _, id := range w.tankOrder {
			tank := w.tanks[id]
			if !tank.Alive {
				continue
			}

			dx := math.Abs(proj.X - tank.X)
			dy := math.Abs(proj.Y - tank.Y)
			if dx >= TankWidth/2+ProjectileRadius || dy >= TankHeight/2+ProjectileRadius {
				continue
			}

			remove[proj.ID] = true
			tank.Health--

			if tank.Health <= 0 {
				tank.Alive = false
				kills = append(kills, KillMsg{KillerID: proj.OwnerID, VictimID: tank.ID})
				deaths = append(deaths, tank)

				// A dead carrier drops the flag where it fell
				if tank.HasFlag {
					tank.HasFlag = false
					for _, flag := range w.flags {
						if flag.CarrierID == tank.ID {
							flag.CarrierID = ""
							flag.X = tank.X
							flag.Y = tank.Y
							flag.AtBase = false
						}
					}
				}
			}
			break
		}
	}

	if len(remove) > 0 {
		kept := w.projectiles[:0]
		for _, proj := range w.projectiles {
			if !remove[proj.ID] {
				kept = append(kept, proj)
			}
		}
		w.projectiles = kept
	}

	return kills, deaths
}

// bounceOffArenaBounds reflects a projectile off the arena edges: the
// crossed coordinate is clamped to the boundary and that velocity component
// negated. Facing is recomputed so clients render the new heading.
func bounceOffArenaBounds(proj *Projectile, m *GameMap) {
	bounced := false

	if proj.X-ProjectileRadius <= 0 {
		proj.X = ProjectileRadius
		proj.VX = math.Abs(proj.VX)
		bounced = true
	} else if proj.X+ProjectileRadius >= m.Width {
		proj.X = m.Width - ProjectileRadius
		proj.VX = -math.Abs(proj.VX)
		bounced = true
	}

	if proj.Y-ProjectileRadius <= 0 {
		proj.Y = ProjectileRadius
		proj.VY = math.Abs(proj.VY)
		bounced = true
	} else if proj.Y+ProjectileRadius >= m.Height {
		proj.Y = m.Height - ProjectileRadius
		proj.VY = -math.Abs(proj.VY)
		bounced = true
	}

	if bounced {
		proj.Rotation = math.Atan2(proj.VY, proj.VX)
	}
}

// bounceOffWall reflects a projectile off an interior wall using the closest
// point on the rectangle. The projectile is pushed out along the contact
// normal and the velocity component dominant along that normal is negated.
// If the center sits exactly inside the wall (degenerate case: spawned or
// clamped into it), it is pushed out through the nearest face instead.
func bounceOffWall(proj *Projectile, wall WallRect) {
	cx := Clamp(proj.X, wall.X, wall.X+wall.Width)
	cy := Clamp(proj.Y, wall.Y, wall.Y+wall.Height)

	dx := proj.X - cx
	dy := proj.Y - cy
	distSq := dx*dx + dy*dy
	if distSq >= ProjectileRadius*ProjectileRadius {
		return
	}

	if distSq == 0 {
		// Center inside the wall: exit through the nearest face
		left := proj.X - wall.X
		right := wall.X + wall.Width - proj.X
		top := proj.Y - wall.Y
		bottom := wall.Y + wall.Height - proj.Y

		min := math.Min(math.Min(left, right), math.Min(top, bottom))
		switch min {
		case left:
			proj.X = wall.X - ProjectileRadius
			proj.VX = -math.Abs(proj.VX)
		case right:
			proj.X = wall.X + wall.Width + ProjectileRadius
			proj.VX = math.Abs(proj.VX)
		case top:
			proj.Y = wall.Y - ProjectileRadius
			proj.VY = -math.Abs(proj.VY)
		default:
			proj.Y = wall.Y + wall.Height + ProjectileRadius
			proj.VY = math.Abs(proj.VY)
		}
	} else {
		dist := math.Sqrt(distSq)
		nx := dx / dist
		ny := dy / dist

		push := ProjectileRadius - dist
		proj.X += nx * push
		proj.Y += ny * push

		if math.Abs(nx) > math.Abs(ny) {
			proj.VX = -proj.VX
		} else {
			proj.VY = -proj.VY
		}
	}

	proj.Rotation = math.Atan2(proj.VY, proj.VX)
}
