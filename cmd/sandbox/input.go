package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"particle-sandbox/internal/sandbox"
)

// rotationSpeed is how fast keys 1 and 2 turn the gun, in radians per second.
const rotationSpeed = 2.0

// input maps keyboard and mouse to gun and simulation controls:
// 1/2 rotate, W cycles weapon, Space fires, P pauses, N single-steps while paused,
// LMB holds attractors and RMB holds repulsors.
type input struct {
	lmb, rmb bool
}

func newInput() *input {
	return &input{}
}

func (in *input) attracting() bool { return in.lmb }
func (in *input) repelling() bool  { return in.rmb }

func (in *input) update(sb *sandbox.Sandbox, dt float32, enabled bool) {
	if !enabled {
		in.lmb, in.rmb = false, false
		return
	}
	in.lmb = rl.IsMouseButtonDown(rl.MouseButtonLeft)
	in.rmb = rl.IsMouseButtonDown(rl.MouseButtonRight)

	gun := sb.Gun()
	if rl.IsKeyDown(rl.KeyOne) {
		gun.Rotate(rotationSpeed * dt)
	}
	if rl.IsKeyDown(rl.KeyTwo) {
		gun.Rotate(-rotationSpeed * dt)
	}
	if rl.IsKeyPressed(rl.KeyW) {
		gun.CycleNext()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		if _, err := gun.Fire(); err != nil {
			rl.TraceLog(rl.LogWarning, err.Error())
		}
	}
	if rl.IsKeyPressed(rl.KeyP) {
		if sb.Paused() {
			sb.Resume()
		} else {
			sb.Pause()
		}
	}
	if rl.IsKeyPressed(rl.KeyN) {
		sb.StepOnce(1)
	}
}
