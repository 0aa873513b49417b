// Package locomotion selects idle and run flipbooks for a side-scrolling
// character from sampled velocity.
//
// A Machine is driven once per simulation tick through Tick. While the
// character runs, the run phase re-evaluates itself through one-shot timers
// whose delay follows the clip that is playing, so transition clips get time
// to show before the next velocity sample is taken.
package locomotion

import (
	"errors"
	"fmt"

	"github.com/insect2d/insect2d/timer"
)

const (
	// RunSpeedSquared is the squared speed above which a grounded character runs.
	RunSpeedSquared = 0.1
	// SustainSpeedSquared is the squared speed a running character must keep
	// at each re-check to stay in the run cycle.
	SustainSpeedSquared = 0.5

	// FacingRight and FacingLeft are yaw angles in degrees.
	FacingRight = 0.0
	FacingLeft  = 180.0

	// MinRecheckDelay replaces a non-positive re-check delay.
	MinRecheckDelay = 1.0 / 60.0
)

var ErrMissingCollaborator = errors.New("locomotion: missing collaborator")

// Movement reports the physics state of the character.
type Movement interface {
	Velocity() Vector
	IsFalling() bool
}

// AnimationHost plays clips. SetClip must be a no-op when clip is already
// playing. ClipLength and ClipFrameCount describe the clip currently playing.
type AnimationHost interface {
	SetClip(clip Clip)
	ClipLength() float64
	ClipFrameCount() int
}

// Scheduler runs one-shot callbacks on the same thread as Tick.
type Scheduler interface {
	ScheduleOnce(delay float64, fn func()) timer.Handle
	Cancel(h timer.Handle) bool
}

// Facing turns the character around its vertical axis.
type Facing interface {
	SetFacing(yaw float64)
}

// Config wires a Machine to its clips and collaborators.
type Config struct {
	Clips     Clips
	Movement  Movement
	Animation AnimationHost
	Scheduler Scheduler
	Facing    Facing

	// OnStatus and OnPhase are optional observers called after a change.
	OnStatus func(from, to Status)
	OnPhase  func(from, to RunPhase)
}

// Machine is the locomotion state machine for one character. It is not safe
// for concurrent use; Tick and scheduled callbacks must share one thread.
type Machine struct {
	clips     Clips
	movement  Movement
	animation AnimationHost
	scheduler Scheduler
	facing    Facing
	onStatus  func(from, to Status)
	onPhase   func(from, to RunPhase)

	status  Status
	phase   RunPhase
	pending timer.Handle
}

// New builds a Machine in StatusIdle / RunNone.
func New(cfg Config) (*Machine, error) {
	switch {
	case cfg.Movement == nil:
		return nil, fmt.Errorf("%w: movement", ErrMissingCollaborator)
	case cfg.Animation == nil:
		return nil, fmt.Errorf("%w: animation", ErrMissingCollaborator)
	case cfg.Scheduler == nil:
		return nil, fmt.Errorf("%w: scheduler", ErrMissingCollaborator)
	case cfg.Facing == nil:
		return nil, fmt.Errorf("%w: facing", ErrMissingCollaborator)
	}
	return &Machine{
		clips:     cfg.Clips,
		movement:  cfg.Movement,
		animation: cfg.Animation,
		scheduler: cfg.Scheduler,
		facing:    cfg.Facing,
		onStatus:  cfg.OnStatus,
		onPhase:   cfg.OnPhase,
	}, nil
}

// Status returns the current coarse status.
func (m *Machine) Status() Status { return m.status }

// RunPhase returns the current run sub-phase.
func (m *Machine) RunPhase() RunPhase { return m.phase }

// Pending reports whether a run re-check is scheduled.
func (m *Machine) Pending() bool { return m.pending.Valid() }

// Tick classifies the character for this frame and faces it along its
// horizontal velocity.
//
// Falling always re-selects the idle clip, every tick. When grounded and slow
// while a run phase is still winding down, the previous status is kept and
// nothing is dispatched; the run timer chain finishes the transition.
func (m *Machine) Tick() {
	v := m.movement.Velocity()

	if m.movement.IsFalling() {
		m.Idle()
		m.setStatus(StatusFall)
	} else {
		candidate := m.status
		speed := v.SizeSquared()
		if speed > RunSpeedSquared {
			candidate = StatusRun
		} else if m.phase == RunNone || m.status == StatusRun {
			candidate = StatusIdle
		}

		if candidate != m.status {
			m.setStatus(candidate)
			switch candidate {
			case StatusIdle:
				m.Idle()
			case StatusRun:
				m.Running()
			}
		}
	}

	switch {
	case v.X < 0:
		m.facing.SetFacing(FacingLeft)
	case v.X > 0:
		m.facing.SetFacing(FacingRight)
	}
}

// Idle selects the idle clip.
func (m *Machine) Idle() {
	m.animation.SetClip(m.clips.Idle)
}

// Running advances the run phase by one step. It is entered from Tick when the
// status becomes StatusRun and again from its own re-check timer.
func (m *Machine) Running() {
	delay := m.recheckDelay()
	speed := m.movement.Velocity().SizeSquared()

	switch m.phase {
	case RunNone:
		if speed == 0 {
			return
		}
		m.setPhase(PreRun)
		m.animation.SetClip(m.clips.PreRun)
		m.schedule(delay)
	case PreRun:
		if speed > SustainSpeedSquared {
			m.setPhase(Running)
		} else {
			m.setPhase(RunStop)
		}
		// decide now, not on the next timer
		m.Running()
	case Running:
		if speed > SustainSpeedSquared {
			m.animation.SetClip(m.clips.Running)
		} else {
			m.setPhase(RunStop)
			m.animation.SetClip(m.clips.StopRunning)
		}
		m.schedule(delay)
	case RunStop:
		m.setPhase(RunNone)
		m.Idle()
		m.cancelPending()
	}
}

// Reset cancels any pending re-check and returns to StatusIdle / RunNone
// without touching the animation.
func (m *Machine) Reset() {
	m.cancelPending()
	m.setPhase(RunNone)
	m.setStatus(StatusIdle)
}

// recheckDelay derives the re-check delay from the clip playing right now.
func (m *Machine) recheckDelay() float64 {
	frames := float64(m.animation.ClipFrameCount() + 1)
	length := m.animation.ClipLength()
	if frames <= 0 || length <= 0 {
		return MinRecheckDelay
	}
	delay := length / frames
	if delay <= 0 {
		return MinRecheckDelay
	}
	return delay
}

// schedule replaces any outstanding re-check with a new one.
func (m *Machine) schedule(delay float64) {
	m.cancelPending()
	var h timer.Handle
	h = m.scheduler.ScheduleOnce(delay, func() {
		if m.pending != h {
			return
		}
		m.pending = timer.Handle{}
		m.Running()
	})
	m.pending = h
}

func (m *Machine) cancelPending() {
	if !m.pending.Valid() {
		return
	}
	m.scheduler.Cancel(m.pending)
	m.pending = timer.Handle{}
}

func (m *Machine) setStatus(s Status) {
	if s == m.status {
		return
	}
	from := m.status
	m.status = s
	if m.onStatus != nil {
		m.onStatus(from, s)
	}
}

func (m *Machine) setPhase(p RunPhase) {
	if p == m.phase {
		return
	}
	from := m.phase
	m.phase = p
	if m.onPhase != nil {
		m.onPhase(from, p)
	}
}
