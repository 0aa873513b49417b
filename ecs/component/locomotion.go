package component

import "github.com/insect2d/insect2d/locomotion"

// Locomotion attaches a run/idle state machine to a character. The
// locomotion system builds Machine on first sight of the entity.
type Locomotion struct {
	Clips   locomotion.Clips
	Machine *locomotion.Machine
}

var LocomotionComponent = NewComponent[Locomotion]()
