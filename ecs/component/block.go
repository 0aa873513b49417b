package component

import "image/color"

// Block is a solid axis-aligned rectangle of level geometry. The entity's
// Transform is its top-left corner.
type Block struct {
	Width  float64
	Height float64
	Color  color.Color
}

var BlockComponent = NewComponent[Block]()
