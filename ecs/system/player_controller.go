package system

import (
	"math"

	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/jakecoffman/cp"
)

const (
	// walkAcceleration is how fast input drives horizontal speed, per second.
	walkAcceleration = 2048.0
	// brakingDeceleration slows a grounded pawn with no input, per second.
	brakingDeceleration = 2048.0
	// jumpCutFactor scales the remaining rise speed when jump is released.
	jumpCutFactor = 0.5
)

type PlayerControllerSystem struct{}

func NewPlayerControllerSystem() *PlayerControllerSystem {
	return &PlayerControllerSystem{}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	entities := w.Query(
		component.PlayerTagComponent.Kind(),
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
	)
	for _, e := range entities {
		player, _ := ecs.Get(w, e, component.PlayerComponent)
		input, _ := ecs.Get(w, e, component.InputComponent)
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
		if bodyComp.Body == nil {
			continue
		}

		vel := steer(player, input, bodyComp.Body.Velocity(), bodyComp.Grounded, common.Dt)
		bodyComp.Body.SetVelocityVector(vel)
	}
}

// steer applies one tick of MoveRight and Jump input to vel.
func steer(p *component.Player, in *component.Input, vel cp.Vector, grounded bool, dt float64) cp.Vector {
	vel.X = moveRight(p, in.MoveX, vel.X, grounded, dt)

	switch {
	case in.JumpPressed && grounded:
		vel.Y = -p.JumpZVelocity
		p.Jumping = true
	case in.JumpReleased:
		// releasing early shortens the jump
		if p.Jumping && vel.Y < 0 {
			vel.Y *= jumpCutFactor
		}
		p.Jumping = false
	}
	if grounded && !in.JumpPressed {
		p.Jumping = false
	}
	return vel
}

// moveRight adds movement input along +X. Airborne pawns steer with
// AirControl and keep their momentum when there is no input.
func moveRight(p *component.Player, value, vx float64, grounded bool, dt float64) float64 {
	value = common.Clamp(value, -1, 1)
	accel := walkAcceleration
	if !grounded {
		accel *= p.AirControl
	}

	if value != 0 {
		target := value * p.MaxWalkSpeed
		return common.Approach(vx, target, accel*dt)
	}
	if !grounded {
		return vx
	}
	// friction scales with speed on top of the flat braking rate
	decel := (brakingDeceleration + p.GroundFriction*math.Abs(vx)) * dt
	return common.Approach(vx, 0, decel)
}
