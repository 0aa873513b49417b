package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/insect2d/insect2d/common"
	"github.com/insect2d/insect2d/ecs"
	"github.com/insect2d/insect2d/ecs/component"
)

type RenderSystem struct {
	camEntity ecs.Entity
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

// view maps world coordinates to screen coordinates.
type view struct {
	camX, camY float64
	zoom       float64
}

func (v view) toScreen(x, y float64) (float64, float64) {
	return (x-v.camX)*v.zoom + common.BaseWidth/2, (y-v.camY)*v.zoom + common.BaseHeight/2
}

// cameraView reads the view of a camera entity. A missing camera gives an
// unzoomed view centred on the world origin.
func cameraView(w *ecs.World, camEntity ecs.Entity) view {
	v := view{zoom: 1}
	if camTransform, ok := ecs.Get(w, camEntity, component.TransformComponent); ok {
		v.camX = camTransform.X
		v.camY = camTransform.Y
	}
	if cam, ok := ecs.Get(w, camEntity, component.CameraComponent); ok {
		v.zoom = Zoom(cam)
	}
	return v
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil {
		return
	}

	if !w.IsAlive(r.camEntity) {
		if camEntity, ok := w.First(component.CameraComponent.Kind()); ok {
			r.camEntity = camEntity
		}
	}

	v := cameraView(w, r.camEntity)

	for _, e := range w.Query(component.BlockComponent.Kind(), component.TransformComponent.Kind()) {
		b, _ := ecs.Get(w, e, component.BlockComponent)
		t, _ := ecs.Get(w, e, component.TransformComponent)
		x, y := v.toScreen(t.X, t.Y)
		vector.FillRect(screen, float32(x), float32(y), float32(b.Width*v.zoom), float32(b.Height*v.zoom), b.Color, false)
	}

	entities := w.Query(component.TransformComponent.Kind(), component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li := 0
		if layer, ok := ecs.Get(w, entities[i], component.RenderLayerComponent); ok {
			li = layer.Index
		}
		lj := 0
		if layer, ok := ecs.Get(w, entities[j], component.RenderLayerComponent); ok {
			lj = layer.Index
		}
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		t, _ := ecs.Get(w, e, component.TransformComponent)
		s, _ := ecs.Get(w, e, component.SpriteComponent)
		if s.Image == nil {
			continue
		}

		scaleX, scaleY := t.ScaleX, t.ScaleY
		if scaleX == 0 {
			scaleX = 1
		}
		if scaleY == 0 {
			scaleY = 1
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		if f, ok := ecs.Get(w, e, component.FacingComponent); ok && f.Left() {
			op.GeoM.Scale(-1, 1)
		}
		op.GeoM.Scale(scaleX*v.zoom, scaleY*v.zoom)
		x, y := v.toScreen(t.X, t.Y)
		op.GeoM.Translate(x, y)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(s.Image, op)
	}
}
