package entity

import (
	"errors"
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/insect2d/insect2d/assets"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/ecs/system"
	"github.com/insect2d/insect2d/locomotion"
	"github.com/insect2d/insect2d/prefabs"
	"github.com/jakecoffman/cp"
)

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := prefabs.LoadLevelSpec("level.yaml")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}

	w := ecs.NewWorld()
	blocks, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		t.Fatalf("LoadLevelToWorld: %v", err)
	}
	if len(blocks) != len(lvl.Blocks) {
		t.Fatalf("expected %d blocks, got %d", len(lvl.Blocks), len(blocks))
	}

	for i, e := range blocks {
		b, ok := ecs.Get(w, e, component.BlockComponent)
		if !ok {
			t.Fatalf("block %d missing Block component", i)
		}
		if b.Width != lvl.Blocks[i].Width || b.Height != lvl.Blocks[i].Height {
			t.Fatalf("block %d size mismatch: %+v", i, b)
		}
		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || !body.Static {
			t.Fatalf("block %d should carry a static body", i)
		}
		if body.Falling() {
			t.Fatalf("static bodies never fall")
		}
	}

	if _, err := LoadLevelToWorld(w, nil); !errors.Is(err, prefabs.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for nil level, got %v", err)
	}
}

func TestBuildCameraDefaults(t *testing.T) {
	cases := []struct {
		name       string
		smoothness float64
		want       float64
	}{
		{"default", 0, defaultCameraSmoothness},
		{"explicit", 0.4, 0.4},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := BuildCamera(w, &prefabs.CameraSpec{
				Target:        "player",
				SocketOffsetY: 75,
				OrthoWidth:    2048,
				Smoothness:    c.smoothness,
			})
			if err != nil {
				t.Fatalf("BuildCamera: %v", err)
			}
			cam, ok := ecs.Get(w, e, component.CameraComponent)
			if !ok {
				t.Fatalf("missing camera component")
			}
			if cam.Smoothness != c.want {
				t.Fatalf("smoothness = %v, want %v", cam.Smoothness, c.want)
			}
			if cam.TargetName != "player" || cam.OrthoWidth != 2048 {
				t.Fatalf("unexpected camera %+v", cam)
			}
			tr, _ := ecs.Get(w, e, component.TransformComponent)
			if tr.ScaleX != 1 || tr.ScaleY != 1 {
				t.Fatalf("expected unit scale, got %+v", tr)
			}
		})
	}
}

func TestAnimationAndClipsFromPlayerSpec(t *testing.T) {
	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatalf("load player: %v", err)
	}

	anim := animationFromSpec(spec.Animation)
	if anim.Current != spec.Animation.Current || !anim.Playing {
		t.Fatalf("expected %q playing, got %q playing=%v", spec.Animation.Current, anim.Current, anim.Playing)
	}

	clips := clipsFromSpec(spec.Locomotion)
	for _, clip := range []locomotion.Clip{clips.Idle, clips.PreRun, clips.Running, clips.StopRunning} {
		def, ok := anim.Defs[string(clip)]
		if !ok {
			t.Fatalf("clip %q has no animation def", clip)
		}
		if def.FrameW != spec.Animation.FrameW || def.FrameH != spec.Animation.FrameH {
			t.Fatalf("clip %q frame size %dx%d", clip, def.FrameW, def.FrameH)
		}
		if def.Length() <= 0 {
			t.Fatalf("clip %q has no length", clip)
		}
	}
}

func TestAnimationFromSpecUnknownCurrent(t *testing.T) {
	anim := animationFromSpec(prefabs.AnimationSpec{
		Current: "missing",
		Playing: true,
		Defs:    map[string]prefabs.AnimationDefSpec{"idle": {FrameCount: 2, FPS: 4}},
	})
	if anim.Current != "" || anim.Playing {
		t.Fatalf("unknown current clip should leave animation stopped, got %q playing=%v", anim.Current, anim.Playing)
	}
	if !anim.Play("idle") {
		t.Fatalf("expected idle to start")
	}
}

func TestReloadPlayerRebuildsLocomotion(t *testing.T) {
	prev := paintSheet
	paintSheet = func(frameW, frameH int, strips []assets.Strip) *ebiten.Image { return nil }
	t.Cleanup(func() { paintSheet = prev })

	spec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	w := ecs.NewWorld()
	player, err := BuildPlayer(w, spec)
	if err != nil {
		t.Fatalf("BuildPlayer: %v", err)
	}

	body, _ := ecs.Get(w, player, component.PhysicsBodyComponent)
	body.Body = cp.NewBody(1, math.Inf(1))
	body.Body.SetVelocity(300, 0)
	body.Grounded = true

	loco := system.NewLocomotionSystem(false)
	loco.Update(w)

	state, _ := ecs.Get(w, player, component.LocomotionComponent)
	if state.Machine == nil || !state.Machine.Pending() {
		t.Fatalf("expected a running machine with a pending re-check")
	}
	if loco.Timers().Len() != 1 {
		t.Fatalf("expected one queued re-check, got %d", loco.Timers().Len())
	}

	edited, err := prefabs.LoadPlayerSpec()
	if err != nil {
		t.Fatalf("load player: %v", err)
	}
	edited.MaxWalkSpeed = 420
	edited.Animation.Defs["sprint"] = edited.Animation.Defs[edited.Locomotion.Running]
	edited.Locomotion.Running = "sprint"

	if err := ReloadPlayer(w, player, edited); err != nil {
		t.Fatalf("ReloadPlayer: %v", err)
	}
	if state.Machine != nil {
		t.Fatalf("machine should be dropped on reload")
	}
	if loco.Timers().Len() != 0 {
		t.Fatalf("reload should cancel the pending re-check, %d left", loco.Timers().Len())
	}
	if state.Clips.Running != "sprint" {
		t.Fatalf("clips not replaced: %+v", state.Clips)
	}
	anim, _ := ecs.Get(w, player, component.AnimationComponent)
	if _, ok := anim.Defs["sprint"]; !ok {
		t.Fatalf("animation defs not replaced")
	}
	tuning, _ := ecs.Get(w, player, component.PlayerComponent)
	if tuning.MaxWalkSpeed != 420 {
		t.Fatalf("tuning not replaced, max walk speed %v", tuning.MaxWalkSpeed)
	}

	loco.Update(w)
	if state.Machine == nil {
		t.Fatalf("machine should be rebuilt on the next tick")
	}
	if got := state.Machine.Status(); got != locomotion.StatusRun {
		t.Fatalf("rebuilt machine status = %s, want run", got)
	}

	if err := ReloadPlayer(w, player, nil); !errors.Is(err, prefabs.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for nil spec, got %v", err)
	}
}
