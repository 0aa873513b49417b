package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PlayerSpec struct {
	Name           string          `yaml:"name"`
	MaxWalkSpeed   float64         `yaml:"max_walk_speed"`
	JumpZVelocity  float64         `yaml:"jump_z_velocity"`
	AirControl     float64         `yaml:"air_control"`
	GroundFriction float64         `yaml:"ground_friction"`
	GravityScale   float64         `yaml:"gravity_scale"`
	Transform      TransformSpec   `yaml:"transform"`
	Capsule        CapsuleSpec     `yaml:"capsule"`
	Sprite         SpriteSpec      `yaml:"sprite"`
	Animation      AnimationSpec   `yaml:"animation"`
	Locomotion     LocomotionSpec  `yaml:"locomotion"`
	RenderLayer    RenderLayerSpec `yaml:"render_layer"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: player.yaml: %w", err)
	}
	return &spec, nil
}

// Validate checks that the locomotion clips exist and can drive re-check
// timers.
func (s *PlayerSpec) Validate() error {
	if s.Capsule.Radius <= 0 || s.Capsule.HalfHeight < s.Capsule.Radius {
		return fmt.Errorf("%w: capsule half_height %.1f must be >= radius %.1f > 0", ErrInvalidSpec, s.Capsule.HalfHeight, s.Capsule.Radius)
	}
	clips := []struct{ role, name string }{
		{"idle", s.Locomotion.Idle},
		{"pre_run", s.Locomotion.PreRun},
		{"running", s.Locomotion.Running},
		{"stop_running", s.Locomotion.StopRunning},
	}
	for _, c := range clips {
		role, name := c.role, c.name
		if name == "" {
			return fmt.Errorf("%w: locomotion.%s is empty", ErrInvalidSpec, role)
		}
		def, ok := s.Animation.Defs[name]
		if !ok {
			return fmt.Errorf("%w: locomotion.%s refers to unknown animation %q", ErrInvalidSpec, role, name)
		}
		if def.FrameCount <= 0 || def.FPS <= 0 {
			return fmt.Errorf("%w: animation %q needs frame_count and fps > 0", ErrInvalidSpec, name)
		}
	}
	return nil
}

type CameraSpec struct {
	Name          string        `yaml:"name"`
	Transform     TransformSpec `yaml:"transform"`
	Target        string        `yaml:"target"`
	ArmLength     float64       `yaml:"arm_length"`
	SocketOffsetY float64       `yaml:"socket_offset_y"`
	OrthoWidth    float64       `yaml:"ortho_width"`
	Smoothness    float64       `yaml:"smoothness"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	if spec.OrthoWidth <= 0 {
		return nil, fmt.Errorf("prefabs: camera.yaml: %w: ortho_width must be > 0", ErrInvalidSpec)
	}
	return &spec, nil
}

type LevelSpec struct {
	Name       string      `yaml:"name"`
	Background *YAMLColor  `yaml:"background"`
	Blocks     []BlockSpec `yaml:"blocks"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return nil, err
	}
	for i, b := range spec.Blocks {
		if b.Width <= 0 || b.Height <= 0 {
			return nil, fmt.Errorf("prefabs: %s: %w: block %d has non-positive size", filename, ErrInvalidSpec, i)
		}
	}
	return &spec, nil
}

type BlockSpec struct {
	X      float64    `yaml:"x"`
	Y      float64    `yaml:"y"`
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Color  *YAMLColor `yaml:"color"`
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type TransformSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type CapsuleSpec struct {
	HalfHeight float64 `yaml:"half_height"`
	Radius     float64 `yaml:"radius"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
}

type SpriteSpec struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

type AnimationSpec struct {
	FrameW  int                         `yaml:"frame_w"`
	FrameH  int                         `yaml:"frame_h"`
	Defs    map[string]AnimationDefSpec `yaml:"defs"`
	Current string                      `yaml:"current"`
	Playing bool                        `yaml:"playing"`
}

type AnimationDefSpec struct {
	Row        int        `yaml:"row"`
	ColStart   int        `yaml:"col_start"`
	FrameCount int        `yaml:"frame_count"`
	FPS        float64    `yaml:"fps"`
	Loop       bool       `yaml:"loop"`
	Color      *YAMLColor `yaml:"color"`
}

// LocomotionSpec names the animation clips the run/idle state machine plays.
type LocomotionSpec struct {
	Idle        string `yaml:"idle"`
	PreRun      string `yaml:"pre_run"`
	Running     string `yaml:"running"`
	StopRunning string `yaml:"stop_running"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

// Or returns the wrapped color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
