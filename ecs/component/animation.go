package component

import (
	"github.com/hajimehoshi/ebiten/v2"
)

type AnimationDef struct {
	Name       string
	Row        int
	ColStart   int // start column (frame 0)
	FrameCount int
	FrameW     int
	FrameH     int
	FPS        float64
	Loop       bool
}

// Length returns the playback time of one pass through the clip in seconds.
func (d AnimationDef) Length() float64 {
	if d.FPS <= 0 || d.FrameCount <= 0 {
		return 0
	}
	return float64(d.FrameCount) / d.FPS
}

type Animation struct {
	Sheet      *ebiten.Image
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool
}

// Play switches to the named clip from its first frame. Playing the clip that
// is already current does nothing.
func (a *Animation) Play(name string) bool {
	if a == nil || a.Current == name {
		return false
	}
	if _, ok := a.Defs[name]; !ok {
		return false
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
	return true
}

// CurrentDef returns the definition of the clip that is playing.
func (a *Animation) CurrentDef() (AnimationDef, bool) {
	if a == nil {
		return AnimationDef{}, false
	}
	def, ok := a.Defs[a.Current]
	return def, ok
}

var AnimationComponent = NewComponent[Animation]()
