package component

// Player holds movement tuning for a side-scrolling pawn. Speeds are in world
// units per second.
type Player struct {
	MaxWalkSpeed   float64
	JumpZVelocity  float64
	AirControl     float64
	GroundFriction float64
	GravityScale   float64
	// Jumping is true between a jump press and its release.
	Jumping bool
}

var PlayerComponent = NewComponent[Player]()
