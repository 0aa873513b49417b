package entity

import (
	"fmt"

	"github.com/insect2d/insect2d/assets"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/locomotion"
	"github.com/insect2d/insect2d/prefabs"
)

// paintSheet builds the flipbook sheet for a player's clips.
var paintSheet = assets.PlaceholderSheet

// NewPlayer spawns the player pawn described by player.yaml.
func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return 0, fmt.Errorf("player: load spec: %w", err)
	}
	return BuildPlayer(w, spec)
}

// BuildPlayer creates a player entity from an already loaded spec.
func BuildPlayer(w *ecs.World, spec *prefabs.PlayerSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("player: %w: nil spec", prefabs.ErrInvalidSpec)
	}

	player := w.CreateEntity()
	name := spec.Name
	if name == "" {
		name = "player"
	}
	anim := animationFromSpec(spec.Animation)
	anim.Sheet = paintSheet(spec.Animation.FrameW, spec.Animation.FrameH, stripsFromSpec(spec.Animation))

	steps := []struct {
		what string
		add  func() error
	}{
		{"player tag", func() error { return ecs.Add(w, player, component.PlayerTagComponent, &component.PlayerTag{}) }},
		{"name", func() error { return ecs.Add(w, player, component.NameComponent, &component.Name{Value: name}) }},
		{"transform", func() error { return ecs.Add(w, player, component.TransformComponent, transformFromSpec(spec.Transform)) }},
		{"sprite", func() error {
			return ecs.Add(w, player, component.SpriteComponent, &component.Sprite{OriginX: spec.Sprite.OriginX, OriginY: spec.Sprite.OriginY})
		}},
		{"render layer", func() error {
			return ecs.Add(w, player, component.RenderLayerComponent, &component.RenderLayer{Index: spec.RenderLayer.Index})
		}},
		{"animation", func() error { return ecs.Add(w, player, component.AnimationComponent, anim) }},
		{"player", func() error { return ecs.Add(w, player, component.PlayerComponent, playerFromSpec(spec)) }},
		{"input", func() error { return ecs.Add(w, player, component.InputComponent, &component.Input{}) }},
		{"facing", func() error {
			return ecs.Add(w, player, component.FacingComponent, &component.Facing{Yaw: locomotion.FacingRight})
		}},
		{"physics body", func() error {
			return ecs.Add(w, player, component.PhysicsBodyComponent, &component.PhysicsBody{
				HalfHeight: spec.Capsule.HalfHeight,
				Radius:     spec.Capsule.Radius,
				Mass:       spec.Capsule.Mass,
				Friction:   spec.Capsule.Friction,
			})
		}},
		{"locomotion", func() error {
			return ecs.Add(w, player, component.LocomotionComponent, &component.Locomotion{Clips: clipsFromSpec(spec.Locomotion)})
		}},
	}
	for _, step := range steps {
		if err := step.add(); err != nil {
			w.DestroyEntity(player)
			return 0, fmt.Errorf("player: add %s: %w", step.what, err)
		}
	}

	return player, nil
}

// ReloadPlayer applies a freshly loaded spec to a live player. Tuning, clips,
// and the sheet are replaced in place; the locomotion machine is rebuilt on
// the next tick so its clips and timers start clean. The collider and the
// position are left alone.
func ReloadPlayer(w *ecs.World, player ecs.Entity, spec *prefabs.PlayerSpec) error {
	if spec == nil {
		return fmt.Errorf("player: %w: nil spec", prefabs.ErrInvalidSpec)
	}
	if !w.IsAlive(player) {
		return fmt.Errorf("player: reload: %w", component.ErrEntityNotAlive)
	}

	if p, ok := ecs.Get(w, player, component.PlayerComponent); ok {
		jumping := p.Jumping
		*p = *playerFromSpec(spec)
		p.Jumping = jumping
	}
	if s, ok := ecs.Get(w, player, component.SpriteComponent); ok {
		s.OriginX = spec.Sprite.OriginX
		s.OriginY = spec.Sprite.OriginY
	}
	if anim, ok := ecs.Get(w, player, component.AnimationComponent); ok {
		fresh := animationFromSpec(spec.Animation)
		fresh.Sheet = paintSheet(spec.Animation.FrameW, spec.Animation.FrameH, stripsFromSpec(spec.Animation))
		*anim = *fresh
	}
	if loco, ok := ecs.Get(w, player, component.LocomotionComponent); ok {
		if loco.Machine != nil {
			loco.Machine.Reset()
			loco.Machine = nil
		}
		loco.Clips = clipsFromSpec(spec.Locomotion)
	}
	return nil
}

func playerFromSpec(spec *prefabs.PlayerSpec) *component.Player {
	return &component.Player{
		MaxWalkSpeed:   spec.MaxWalkSpeed,
		JumpZVelocity:  spec.JumpZVelocity,
		AirControl:     spec.AirControl,
		GroundFriction: spec.GroundFriction,
		GravityScale:   spec.GravityScale,
	}
}

func clipsFromSpec(spec prefabs.LocomotionSpec) locomotion.Clips {
	return locomotion.Clips{
		Idle:        locomotion.Clip(spec.Idle),
		PreRun:      locomotion.Clip(spec.PreRun),
		Running:     locomotion.Clip(spec.Running),
		StopRunning: locomotion.Clip(spec.StopRunning),
	}
}

// animationFromSpec builds the animation component without its sheet.
func animationFromSpec(spec prefabs.AnimationSpec) *component.Animation {
	defs := make(map[string]component.AnimationDef, len(spec.Defs))
	for name, d := range spec.Defs {
		defs[name] = component.AnimationDef{
			Name:       name,
			Row:        d.Row,
			ColStart:   d.ColStart,
			FrameCount: d.FrameCount,
			FrameW:     spec.FrameW,
			FrameH:     spec.FrameH,
			FPS:        d.FPS,
			Loop:       d.Loop,
		}
	}
	anim := &component.Animation{Defs: defs}
	if _, ok := defs[spec.Current]; ok {
		anim.Current = spec.Current
		anim.Playing = spec.Playing
	}
	return anim
}

func stripsFromSpec(spec prefabs.AnimationSpec) []assets.Strip {
	strips := make([]assets.Strip, 0, len(spec.Defs))
	for _, d := range spec.Defs {
		strips = append(strips, assets.Strip{
			Row:        d.Row,
			ColStart:   d.ColStart,
			FrameCount: d.FrameCount,
			Color:      d.Color.Or(nil),
		})
	}
	return strips
}

func transformFromSpec(spec prefabs.TransformSpec) *component.Transform {
	t := &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	return t
}
