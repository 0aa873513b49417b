package system

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
)

type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.AnimationComponent, component.SpriteComponent, func(e ecs.Entity, anim *component.Animation, sprite *component.Sprite) {
		def, ok := anim.CurrentDef()
		if !ok || def.FrameCount <= 0 {
			return
		}

		advanceFrame(anim, def)

		if anim.Sheet == nil {
			return
		}
		x := def.ColStart*def.FrameW + anim.Frame*def.FrameW
		y := def.Row * def.FrameH
		rect := image.Rect(x, y, x+def.FrameW, y+def.FrameH)
		sprite.Image = anim.Sheet.SubImage(rect).(*ebiten.Image)
	})
}

// ticksPerFrame converts a clip's FPS to simulation ticks per frame.
func ticksPerFrame(def component.AnimationDef) int {
	if def.FPS <= 0 {
		return 1
	}
	return max(1, int(math.Round(common.TPS/def.FPS)))
}

func advanceFrame(anim *component.Animation, def component.AnimationDef) {
	if !anim.Playing {
		return
	}
	anim.FrameTimer++
	if anim.FrameTimer < ticksPerFrame(def) {
		return
	}
	anim.FrameTimer = 0
	anim.Frame++
	if anim.Frame >= def.FrameCount {
		if def.Loop {
			anim.Frame = 0
		} else {
			anim.Frame = def.FrameCount - 1
			anim.Playing = false
		}
	}
}
