package main

import "testing"

func TestOverlapSplitEvenlyWhenIdle(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, 400, 300)
	b := spawnTank(w, "b", TeamBlue, 410, 300)

	resolveCollisions(w)

	// 30 of overlap, split 15/15
	assertNear(t, "a.X", a.X, 385)
	assertNear(t, "b.X", b.X, 425)
	assertNear(t, "distance", Distance(a.X, a.Y, b.X, b.Y), 2*TankCollisionRadius)
}

func TestMoverAbsorbsMostOfCorrection(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, 400, 300)
	b := spawnTank(w, "b", TeamBlue, 410, 300)
	w.inputs["a"] = PlayerInput{Up: true}

	resolveCollisions(w)

	// The mover backs off by 1-TankPushFactor of the overlap and drags the
	// stationary tank the rest of the way
	assertNear(t, "a.X", a.X, 400-(1-TankPushFactor)*30)
	assertNear(t, "b.X", b.X, 410+TankPushFactor*30)
	assertNear(t, "distance", Distance(a.X, a.Y, b.X, b.Y), 2*TankCollisionRadius)
}

func TestHeadOnSplitsEvenly(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, 400, 300)
	b := spawnTank(w, "b", TeamBlue, 410, 300)
	w.inputs["a"] = PlayerInput{Up: true}
	w.inputs["b"] = PlayerInput{Up: true}

	resolveCollisions(w)

	assertNear(t, "a.X", a.X, 385)
	assertNear(t, "b.X", b.X, 425)
}

func TestSeparatedTanksUntouched(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, 100, 100)
	b := spawnTank(w, "b", TeamBlue, 200, 200)

	resolveCollisions(w)

	assertNear(t, "a.X", a.X, 100)
	assertNear(t, "b.X", b.X, 200)
}

func TestDeadTanksDoNotCollide(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, 400, 300)
	b := spawnTank(w, "b", TeamBlue, 410, 300)
	b.Alive = false

	resolveCollisions(w)

	assertNear(t, "a.X", a.X, 400)
	assertNear(t, "b.X", b.X, 410)
}

func TestCollisionRespectsArenaBounds(t *testing.T) {
	w := newWorld(testBoard())
	a := spawnTank(w, "a", TeamRed, TankWidth/2, 300)
	b := spawnTank(w, "b", TeamBlue, TankWidth/2+10, 300)

	resolveCollisions(w)

	if a.X < TankWidth/2 {
		t.Errorf("a pushed out of the arena: X = %v", a.X)
	}
	if b.X <= a.X {
		t.Errorf("b not pushed away: a.X = %v, b.X = %v", a.X, b.X)
	}
}
