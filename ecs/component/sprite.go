package component

import (
	"github.com/hajimehoshi/ebiten/v2"
)

type Sprite struct {
	Image   *ebiten.Image
	OriginX float64
	OriginY float64
}

var SpriteComponent = NewComponent[Sprite]()

// Facing is the yaw of a side-view character in degrees. 0 faces +X and
// 180 faces -X.
type Facing struct {
	Yaw float64
}

// Left reports whether the character faces -X.
func (f Facing) Left() bool {
	return f.Yaw > 90 && f.Yaw < 270
}

var FacingComponent = NewComponent[Facing]()
