package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
)

const stickDeadzone = 0.2

type InputSystem struct {
	touches []ebiten.TouchID
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	jumpPressed := inpututil.IsKeyJustPressed(ebiten.KeySpace)
	jumpReleased := inpututil.IsKeyJustReleased(ebiten.KeySpace)
	pausePressed := inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}

		jumpPressed = jumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		jumpReleased = jumpReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonRightBottom)
		pausePressed = pausePressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	// any touch jumps, lifting it stops jumping
	i.touches = inpututil.AppendJustPressedTouchIDs(i.touches[:0])
	if len(i.touches) > 0 {
		jumpPressed = true
	}
	i.touches = inpututil.AppendJustReleasedTouchIDs(i.touches[:0])
	if len(i.touches) > 0 {
		jumpReleased = true
	}

	ecs.ForEach(w, component.InputComponent, func(e ecs.Entity, input *component.Input) {
		input.MoveX = moveX
		input.JumpPressed = jumpPressed
		input.JumpReleased = jumpReleased
		input.PausePressed = pausePressed
	})
}
