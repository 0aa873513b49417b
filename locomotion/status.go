package locomotion

import "fmt"

// Status is the coarse locomotion state of a character.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRun
	StatusFall
	// StatusAttack and StatusBlock are reserved; the classifier never produces them.
	StatusAttack
	StatusBlock
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRun:
		return "run"
	case StatusFall:
		return "fall"
	case StatusAttack:
		return "attack"
	case StatusBlock:
		return "block"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// RunPhase is the sub-phase of StatusRun that blends into and out of the run cycle.
type RunPhase uint8

const (
	RunNone RunPhase = iota
	PreRun
	Running
	RunStop
)

func (p RunPhase) String() string {
	switch p {
	case RunNone:
		return "none"
	case PreRun:
		return "pre_run"
	case Running:
		return "running"
	case RunStop:
		return "run_stop"
	default:
		return fmt.Sprintf("run_phase(%d)", uint8(p))
	}
}

// Vector is a velocity sample. Only X is used for facing; all axes count
// toward speed.
type Vector struct {
	X, Y, Z float64
}

// SizeSquared returns the squared length of v.
func (v Vector) SizeSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Clip names an authored flipbook animation.
type Clip string

// Clips holds the animations the state machine selects between.
type Clips struct {
	Idle        Clip
	PreRun      Clip
	Running     Clip
	StopRunning Clip
}
