package system

import (
	"log"

	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/locomotion"
	"github.com/insect2d/insect2d/timer"
)

// LocomotionSystem drives one locomotion.Machine per character. All run
// re-check timers live on one queue that advances a tick at a time before the
// machines sample velocity.
type LocomotionSystem struct {
	timers *timer.Queue
	debug  bool
}

func NewLocomotionSystem(debug bool) *LocomotionSystem {
	return &LocomotionSystem{timers: timer.NewQueue(), debug: debug}
}

// Timers exposes the re-check queue.
func (ls *LocomotionSystem) Timers() *timer.Queue {
	if ls == nil {
		return nil
	}
	return ls.timers
}

func (ls *LocomotionSystem) Update(w *ecs.World) {
	if ls == nil || w == nil {
		return
	}

	ls.timers.Advance(common.Dt)

	entities := w.Query(
		component.LocomotionComponent.Kind(),
		component.PhysicsBodyComponent.Kind(),
		component.AnimationComponent.Kind(),
		component.FacingComponent.Kind(),
	)
	for _, e := range entities {
		loco, _ := ecs.Get(w, e, component.LocomotionComponent)
		if loco.Machine == nil {
			m, err := ls.build(w, e, loco.Clips)
			if err != nil {
				log.Printf("locomotion: entity %s: %v", e, err)
				continue
			}
			loco.Machine = m
		}
		loco.Machine.Tick()
	}
}

func (ls *LocomotionSystem) build(w *ecs.World, e ecs.Entity, clips locomotion.Clips) (*locomotion.Machine, error) {
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent)
	anim, _ := ecs.Get(w, e, component.AnimationComponent)
	facing, _ := ecs.Get(w, e, component.FacingComponent)

	return locomotion.New(locomotion.Config{
		Clips:     clips,
		Movement:  bodyMovement{body: body},
		Animation: animationHost{anim: anim},
		Scheduler: ls.timers,
		Facing:    facingControl{facing: facing},
		OnStatus: func(from, to locomotion.Status) {
			if ls.debug {
				log.Printf("locomotion: entity %s status %s -> %s", e, from, to)
			}
			w.Events().Push(ecs.Event{Type: ecs.EventLocomotionStatus, Data: StatusChange{Entity: e, From: from, To: to}})
		},
		OnPhase: func(from, to locomotion.RunPhase) {
			if ls.debug {
				log.Printf("locomotion: entity %s run phase %s -> %s", e, from, to)
			}
			w.Events().Push(ecs.Event{Type: ecs.EventLocomotionPhase, Data: PhaseChange{Entity: e, From: from, To: to}})
		},
	})
}

// StatusChange is the payload of ecs.EventLocomotionStatus.
type StatusChange struct {
	Entity   ecs.Entity
	From, To locomotion.Status
}

// PhaseChange is the payload of ecs.EventLocomotionPhase.
type PhaseChange struct {
	Entity   ecs.Entity
	From, To locomotion.RunPhase
}

// bodyMovement reads a chipmunk body. A grounded body walks along the floor,
// so its vertical velocity is reported as zero.
type bodyMovement struct {
	body *component.PhysicsBody
}

func (m bodyMovement) Velocity() locomotion.Vector {
	if m.body == nil || m.body.Body == nil {
		return locomotion.Vector{}
	}
	v := m.body.Body.Velocity()
	if m.body.Grounded {
		v.Y = 0
	}
	return locomotion.Vector{X: v.X, Y: v.Y}
}

func (m bodyMovement) IsFalling() bool {
	return m.body.Falling()
}

type animationHost struct {
	anim *component.Animation
}

func (h animationHost) SetClip(clip locomotion.Clip) {
	h.anim.Play(string(clip))
}

func (h animationHost) ClipLength() float64 {
	def, ok := h.anim.CurrentDef()
	if !ok {
		return 0
	}
	return def.Length()
}

func (h animationHost) ClipFrameCount() int {
	def, ok := h.anim.CurrentDef()
	if !ok {
		return 0
	}
	return def.FrameCount
}

type facingControl struct {
	facing *component.Facing
}

func (f facingControl) SetFacing(yaw float64) {
	f.facing.Yaw = yaw
}
