package component

// Camera is a side-view boom. The camera sits ArmLength in front of the
// target looking along the plane normal, so in 2D only SocketOffsetY and the
// orthographic width change what is seen.
type Camera struct {
	TargetName    string
	ArmLength     float64
	SocketOffsetY float64
	OrthoWidth    float64
	Smoothness    float64
}

var CameraComponent = NewComponent[Camera]()
