package prefabs

import (
	"errors"
	"image/color"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedPrefabsLoad(t *testing.T) {
	SetDir(t.TempDir())
	t.Cleanup(func() { SetDir("prefabs") })

	player, err := LoadPlayerSpec()
	if err != nil {
		t.Fatalf("LoadPlayerSpec: %v", err)
	}
	if player.Locomotion.Running != "run" {
		t.Fatalf("expected running clip 'run', got %q", player.Locomotion.Running)
	}
	if player.Capsule.HalfHeight != 96 || player.Capsule.Radius != 40 {
		t.Fatalf("unexpected capsule %+v", player.Capsule)
	}

	cam, err := LoadCameraSpec()
	if err != nil {
		t.Fatalf("LoadCameraSpec: %v", err)
	}
	if cam.Target != "player" || cam.OrthoWidth != 2048 {
		t.Fatalf("unexpected camera %+v", cam)
	}

	level, err := LoadLevelSpec("level.yaml")
	if err != nil {
		t.Fatalf("LoadLevelSpec: %v", err)
	}
	if len(level.Blocks) == 0 {
		t.Fatalf("expected level blocks")
	}
}

func TestPlayerSpecValidate(t *testing.T) {
	valid := func() PlayerSpec {
		return PlayerSpec{
			Capsule: CapsuleSpec{HalfHeight: 96, Radius: 40},
			Animation: AnimationSpec{Defs: map[string]AnimationDefSpec{
				"idle": {FrameCount: 4, FPS: 6},
				"pre":  {FrameCount: 3, FPS: 12},
				"run":  {FrameCount: 8, FPS: 15},
				"stop": {FrameCount: 3, FPS: 12},
			}},
			Locomotion: LocomotionSpec{Idle: "idle", PreRun: "pre", Running: "run", StopRunning: "stop"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(s *PlayerSpec)
		wantErr bool
	}{
		{"valid", func(s *PlayerSpec) {}, false},
		{"missing_clip_name", func(s *PlayerSpec) { s.Locomotion.PreRun = "" }, true},
		{"unknown_clip", func(s *PlayerSpec) { s.Locomotion.Running = "sprint" }, true},
		{"zero_fps", func(s *PlayerSpec) { s.Animation.Defs["stop"] = AnimationDefSpec{FrameCount: 3} }, true},
		{"flat_capsule", func(s *PlayerSpec) { s.Capsule.HalfHeight = 10 }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := valid()
			c.mutate(&s)
			err := s.Validate()
			if c.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", c.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("expected ErrInvalidSpec, got %v", err)
			}
		})
	}
}

func TestYAMLColor(t *testing.T) {
	cases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: `"#ff8000"`, want: color.NRGBA{R: 0xff, G: 0x80, A: 0xff}},
		{in: `"10203040"`, want: color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
		{in: `"#fff"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			var got YAMLColor
			err := yaml.Unmarshal([]byte(c.in), &got)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Color != c.want {
				t.Fatalf("expected %v, got %v", c.want, got.Color)
			}
		})
	}

	var unset *YAMLColor
	if unset.Or(color.White) != color.White {
		t.Fatalf("expected fallback color")
	}
}
