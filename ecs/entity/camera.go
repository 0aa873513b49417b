package entity

import (
	"fmt"

	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
	"github.com/insect2d/insect2d/prefabs"
)

const defaultCameraSmoothness = 0.15

func NewCamera(w *ecs.World) (ecs.Entity, error) {
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return 0, fmt.Errorf("camera: load spec: %w", err)
	}
	return BuildCamera(w, cameraSpec)
}

func BuildCamera(w *ecs.World, cameraSpec *prefabs.CameraSpec) (ecs.Entity, error) {
	camera := w.CreateEntity()
	if err := ecs.Add(w, camera, component.CameraTagComponent, &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}

	if err := ecs.Add(w, camera, component.TransformComponent, transformFromSpec(cameraSpec.Transform)); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}

	if err := ecs.Add(w, camera, component.CameraComponent, cameraFromSpec(cameraSpec)); err != nil {
		return 0, fmt.Errorf("camera: add camera component: %w", err)
	}

	return camera, nil
}

// ReloadCamera swaps the boom settings of a live camera.
func ReloadCamera(w *ecs.World, camera ecs.Entity, cameraSpec *prefabs.CameraSpec) error {
	cam, ok := ecs.Get(w, camera, component.CameraComponent)
	if !ok {
		return fmt.Errorf("camera: reload: %w", component.ErrEntityNotAlive)
	}
	*cam = *cameraFromSpec(cameraSpec)
	return nil
}

func cameraFromSpec(cameraSpec *prefabs.CameraSpec) *component.Camera {
	smooth := cameraSpec.Smoothness
	if smooth == 0 {
		smooth = defaultCameraSmoothness
	}
	return &component.Camera{
		TargetName:    cameraSpec.Target,
		ArmLength:     cameraSpec.ArmLength,
		SocketOffsetY: cameraSpec.SocketOffsetY,
		OrthoWidth:    cameraSpec.OrthoWidth,
		Smoothness:    smooth,
	}
}
