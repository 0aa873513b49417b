package component

import "github.com/jakecoffman/cp"

// PhysicsBody stores Chipmunk2D runtime data and collider configuration.
// Dynamic bodies use a capsule: HalfHeight is the distance from the centre
// to the top of the cap, Radius the cap radius.
type PhysicsBody struct {
	Body        *cp.Body
	Shapes      []*cp.Shape
	GroundShape *cp.Shape
	HalfHeight  float64
	Radius      float64
	Width       float64
	Height      float64
	Mass        float64
	Friction    float64
	Static      bool

	Grounded bool
}

// Falling reports whether a dynamic body has lost ground contact.
func (p *PhysicsBody) Falling() bool {
	return p != nil && !p.Static && !p.Grounded
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
