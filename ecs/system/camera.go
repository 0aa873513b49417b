package system

import (
	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
	snapped      bool
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update moves the camera entity's transform (the view centre) toward the
// boom socket above its target. The boom uses absolute rotation, so the
// target turning around never swings the view.
func (cs *CameraSystem) Update(w *ecs.World) {
	if !w.IsAlive(cs.camEntity) {
		camEntity, ok := w.First(component.CameraComponent.Kind(), component.TransformComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.snapped = false
	}
	cam, _ := ecs.Get(w, cs.camEntity, component.CameraComponent)
	camTransform, _ := ecs.Get(w, cs.camEntity, component.TransformComponent)

	if !w.IsAlive(cs.targetEntity) {
		cs.targetEntity = findEntityByName(w, cam.TargetName)
		cs.snapped = false
	}
	target, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent)
	if !ok {
		return
	}

	socketX, socketY := BoomSocket(cam, target)
	if !cs.snapped || cam.Smoothness <= 0 {
		camTransform.X, camTransform.Y = socketX, socketY
		cs.snapped = true
		return
	}
	camTransform.X = common.Lerp(camTransform.X, socketX, cam.Smoothness)
	camTransform.Y = common.Lerp(camTransform.Y, socketY, cam.Smoothness)
}

// BoomSocket returns the point the camera looks at for a target transform.
func BoomSocket(cam *component.Camera, target *component.Transform) (float64, float64) {
	return target.X, target.Y - cam.SocketOffsetY
}

// Zoom maps the orthographic width onto the base resolution.
func Zoom(cam *component.Camera) float64 {
	if cam == nil || cam.OrthoWidth <= 0 {
		return 1
	}
	return common.BaseWidth / cam.OrthoWidth
}

func findEntityByName(w *ecs.World, name string) ecs.Entity {
	if name == "" {
		return 0
	}
	for _, e := range w.Query(component.NameComponent.Kind()) {
		if n, ok := ecs.Get(w, e, component.NameComponent); ok && n.Value == name {
			return e
		}
	}
	if name == "player" {
		if e, ok := w.First(component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
