package system

import (
	"math"

	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/jakecoffman/cp"
)

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypeSolid
)

// groundedRiseSpeed is the upward speed above which ground contact is
// ignored, so a jump leaves the ground on its first step.
const groundedRiseSpeed = 1.0

type PhysicsSystem struct {
	space         *cp.Space
	handlersReady bool

	entities     map[ecs.Entity]*bodyInfo
	groundShapes map[*cp.Shape]ecs.Entity
	contacts     map[ecs.Entity]bool
}

type bodyInfo struct {
	body        *cp.Body
	groundShape *cp.Shape
	shapes      []*cp.Shape
	static      bool
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return &PhysicsSystem{
		space:        space,
		entities:     make(map[ecs.Entity]*bodyInfo),
		groundShapes: make(map[*cp.Shape]ecs.Entity),
		contacts:     make(map[ecs.Entity]bool),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	ps.ensureHandlers()
	ps.syncEntities(w)

	for e := range ps.contacts {
		ps.contacts[e] = false
	}

	ps.space.Step(common.Dt)

	ps.syncTransforms(w)
	ps.flushContacts(w)
}

func (ps *PhysicsSystem) ensureHandlers() {
	if ps.handlersReady {
		return
	}

	groundHandler := ps.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypeSolid)
	groundHandler.UserData = ps
	groundHandler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*PhysicsSystem)
		if !ok || sys == nil {
			return true
		}
		shapeA, shapeB := arb.Shapes()
		e, okA := sys.groundShapes[shapeA]
		if !okA {
			var okB bool
			e, okB = sys.groundShapes[shapeB]
			if !okB {
				return true
			}
		}

		n := arb.Normal()
		if !okA {
			n = n.Neg()
		}
		// screen-down coordinates: the floor pushes back along +Y from the sensor
		if n.Y <= 0.5 {
			return true
		}
		sys.contacts[e] = true
		return true
	}

	ps.handlersReady = true
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ps.cleanupEntities(w)

	for _, e := range w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind()) {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
		transform, _ := ecs.Get(w, e, component.TransformComponent)

		var info *bodyInfo
		if bodyComp.Static {
			info = ps.createStatic(transform, bodyComp)
		} else {
			info = ps.createCapsule(w, e, transform, bodyComp)
		}
		if info == nil {
			continue
		}
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shapes = info.shapes
		bodyComp.GroundShape = info.groundShape
		if info.groundShape != nil {
			ps.groundShapes[info.groundShape] = e
			ps.contacts[e] = false
		}
	}
}

// createStatic adds a box whose top-left corner is the entity transform.
func (ps *PhysicsSystem) createStatic(t *component.Transform, b *component.PhysicsBody) *bodyInfo {
	if b.Width <= 0 || b.Height <= 0 {
		return nil
	}
	bb := cp.BB{L: t.X, B: t.Y, R: t.X + b.Width, T: t.Y + b.Height}
	shape := cp.NewBox2(ps.space.StaticBody, bb, 0)
	shape.SetFriction(b.Friction)
	shape.SetCollisionType(collisionTypeSolid)
	ps.space.AddShape(shape)
	return &bodyInfo{body: ps.space.StaticBody, shapes: []*cp.Shape{shape}, static: true}
}

// createCapsule builds an upright capsule centred on the entity transform: a
// radius-swept vertical segment that cannot rotate, with a flat ground sensor
// under its feet.
func (ps *PhysicsSystem) createCapsule(w *ecs.World, e ecs.Entity, t *component.Transform, b *component.PhysicsBody) *bodyInfo {
	radius := b.Radius
	half := b.HalfHeight
	if radius <= 0 || half < radius {
		return nil
	}
	mass := b.Mass
	if mass <= 0 {
		mass = 1
	}

	gravityScale := 1.0
	if p, ok := ecs.Get(w, e, component.PlayerComponent); ok && p.GravityScale > 0 {
		gravityScale = p.GravityScale
	}

	body := cp.NewBody(mass, math.Inf(1))
	body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, gravity.Mult(gravityScale), damping, dt)
	})

	top := cp.Vector{X: 0, Y: -(half - radius)}
	bottom := cp.Vector{X: 0, Y: half - radius}
	capsule := cp.NewSegment(body, top, bottom, radius)
	capsule.SetFriction(b.Friction)
	capsule.SetCollisionType(collisionTypePlayer)

	sensor := cp.NewBox2(body, cp.BB{L: -radius * 0.9, B: half - 1, R: radius * 0.9, T: half + 2}, 0)
	sensor.SetSensor(true)
	sensor.SetCollisionType(collisionTypePlayerGround)

	ps.space.AddBody(body)
	ps.space.AddShape(capsule)
	ps.space.AddShape(sensor)

	return &bodyInfo{body: body, groundShape: sensor, shapes: []*cp.Shape{capsule, sensor}}
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		if info.static {
			continue
		}
		transform, ok := ecs.Get(w, e, component.TransformComponent)
		if !ok {
			continue
		}
		pos := info.body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
	}
}

func (ps *PhysicsSystem) flushContacts(w *ecs.World) {
	for e, touching := range ps.contacts {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || bodyComp.Body == nil {
			continue
		}
		grounded := touching && bodyComp.Body.Velocity().Y > -groundedRiseSpeed
		if grounded != bodyComp.Grounded {
			w.Events().Push(ecs.Event{Type: ecs.EventGrounded, Data: GroundedEvent{Entity: e, Grounded: grounded}})
		}
		bodyComp.Grounded = grounded
	}
}

// GroundedEvent is published when a body gains or loses ground contact.
type GroundedEvent struct {
	Entity   ecs.Entity
	Grounded bool
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		if w.IsAlive(e) && ecs.Has(w, e, component.PhysicsBodyComponent) {
			continue
		}
		for _, shape := range info.shapes {
			ps.space.RemoveShape(shape)
			delete(ps.groundShapes, shape)
		}
		if !info.static {
			ps.space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
		delete(ps.contacts, e)
	}
}
