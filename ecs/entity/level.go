package entity

import (
	"fmt"
	"image/color"

	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/prefabs"
	"golang.org/x/image/colornames"
)

var defaultBlockColor color.Color = colornames.Darkolivegreen

// LoadLevelToWorld creates a solid block entity for every block in the level.
func LoadLevelToWorld(w *ecs.World, lvl *prefabs.LevelSpec) ([]ecs.Entity, error) {
	if lvl == nil {
		return nil, fmt.Errorf("level: %w: nil spec", prefabs.ErrInvalidSpec)
	}
	blocks := make([]ecs.Entity, 0, len(lvl.Blocks))
	for i, b := range lvl.Blocks {
		e := w.CreateEntity()
		if err := ecs.Add(w, e, component.TransformComponent, &component.Transform{X: b.X, Y: b.Y, ScaleX: 1, ScaleY: 1}); err != nil {
			return blocks, fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
		if err := ecs.Add(w, e, component.BlockComponent, &component.Block{
			Width:  b.Width,
			Height: b.Height,
			Color:  b.Color.Or(defaultBlockColor),
		}); err != nil {
			return blocks, fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
		if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{
			Width:    b.Width,
			Height:   b.Height,
			Friction: 1,
			Static:   true,
		}); err != nil {
			return blocks, fmt.Errorf("level %s: block %d: %w", lvl.Name, i, err)
		}
		blocks = append(blocks, e)
	}
	return blocks, nil
}
