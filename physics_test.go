package main

import (
	"math"
	"testing"
)

const testDt = 0.05 // one tick at 20Hz

func TestForwardMovement(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, 400, 300)
	w.inputs["p1"] = PlayerInput{Up: true}

	updatePhysics(w, testDt)

	assertNear(t, "X", tank.X, 400+TankSpeed*testDt)
	assertNear(t, "Y", tank.Y, 300)
}

func TestReverseIsSlower(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, 400, 300)
	w.inputs["p1"] = PlayerInput{Down: true}

	updatePhysics(w, testDt)

	assertNear(t, "X", tank.X, 400-TankSpeed*TankReverseFactor*testDt)
}

func TestRotationInput(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, 400, 300)

	w.inputs["p1"] = PlayerInput{Left: true}
	updatePhysics(w, testDt)
	assertNear(t, "rotation after left", tank.Rotation, -TankRotationSpeed*testDt)

	w.inputs["p1"] = PlayerInput{Right: true}
	updatePhysics(w, testDt)
	assertNear(t, "rotation after right", tank.Rotation, 0)
}

func TestRotationAppliesBeforeMovement(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, 400, 300)
	w.inputs["p1"] = PlayerInput{Right: true, Up: true}

	updatePhysics(w, testDt)

	// Displacement uses the already-turned facing
	rot := TankRotationSpeed * testDt
	assertNear(t, "X", tank.X, 400+math.Cos(rot)*TankSpeed*testDt)
	assertNear(t, "Y", tank.Y, 300+math.Sin(rot)*TankSpeed*testDt)
}

func TestDeadTankIgnoresInput(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, 400, 300)
	tank.Alive = false
	w.inputs["p1"] = PlayerInput{Up: true, Right: true}

	updatePhysics(w, testDt)

	assertNear(t, "X", tank.X, 400)
	assertNear(t, "Y", tank.Y, 300)
	assertNear(t, "rotation", tank.Rotation, 0)
}

func TestArenaClamp(t *testing.T) {
	w := newWorld(testBoard())
	tank := spawnTank(w, "p1", TeamRed, w.gameMap.Width-TankWidth/2, 300)
	w.inputs["p1"] = PlayerInput{Up: true}

	for i := 0; i < 10; i++ {
		updatePhysics(w, testDt)
	}

	assertNear(t, "X", tank.X, w.gameMap.Width-TankWidth/2)
}

func TestWallPushOutSmallerAxisX(t *testing.T) {
	wall := WallRect{X: 300, Y: 300, Width: 100, Height: 100}
	tank := &Tank{X: 295, Y: 350, Alive: true}

	// x penetration 15, y penetration 30: push along x, away from wall center
	pushTankOutOfWall(tank, wall)

	assertNear(t, "X", tank.X, 280)
	assertNear(t, "Y", tank.Y, 350)
}

func TestWallPushOutSmallerAxisY(t *testing.T) {
	wall := WallRect{X: 300, Y: 300, Width: 100, Height: 100}
	tank := &Tank{X: 350, Y: 295, Alive: true}

	// y penetration 10, x penetration 40: push along y
	pushTankOutOfWall(tank, wall)

	assertNear(t, "X", tank.X, 350)
	assertNear(t, "Y", tank.Y, 285)
}

func TestWallPushOutNoOverlap(t *testing.T) {
	wall := WallRect{X: 300, Y: 300, Width: 100, Height: 100}
	tank := &Tank{X: 100, Y: 100, Alive: true}

	pushTankOutOfWall(tank, wall)

	assertNear(t, "X", tank.X, 100)
	assertNear(t, "Y", tank.Y, 100)
}

func TestDrivingIntoWallStopsAtFace(t *testing.T) {
	m := testBoard()
	m.Walls = []WallRect{{X: 500, Y: 200, Width: 50, Height: 200}}
	w := newWorld(m)
	tank := spawnTank(w, "p1", TeamRed, 450, 300)
	w.inputs["p1"] = PlayerInput{Up: true}

	for i := 0; i < 20; i++ {
		updatePhysics(w, testDt)
	}

	// Tank ends flush against the wall's left face
	assertNear(t, "X", tank.X, 500-TankWidth/2)
	assertNear(t, "Y", tank.Y, 300)
}
