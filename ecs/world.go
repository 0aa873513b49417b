package ecs

import "github.com/insect2d/insect2d/ecs/component"

// ComponentKey identifies a component storage. Every component.ComponentKind
// satisfies it.
type ComponentKey interface {
	ID() component.ComponentID
}

// World owns entities, components, and system order.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]*SparseSet
	scheduler Scheduler
	events    EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and marks it dead.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// AddComponent stores value for e under key, replacing any previous value.
func (w *World) AddComponent(e Entity, key ComponentKey, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if key == nil || key.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(key.ID()).Set(e, value)
	return nil
}

// GetComponent returns the raw value stored for e under key.
func (w *World) GetComponent(e Entity, key ComponentKey) (any, bool) {
	if w == nil || key == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s, ok := w.stores[key.ID()]
	if !ok || !s.Has(e) {
		return nil, false
	}
	return s.Get(e), true
}

// HasComponent reports whether e has a value under key.
func (w *World) HasComponent(e Entity, key ComponentKey) bool {
	_, ok := w.GetComponent(e, key)
	return ok
}

// RemoveComponent deletes the value stored for e under key.
func (w *World) RemoveComponent(e Entity, key ComponentKey) bool {
	if w == nil || key == nil {
		return false
	}
	s, ok := w.stores[key.ID()]
	if !ok {
		return false
	}
	return s.Remove(e)
}

// Query returns the entities that have every listed component.
func (w *World) Query(keys ...ComponentKey) []Entity {
	if w == nil || len(keys) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(keys))
	for _, k := range keys {
		s, ok := w.stores[k.ID()]
		if !ok {
			return nil
		}
		sets = append(sets, s)
	}
	return intersect(sets)
}

// First returns the first entity that has every listed component.
func (w *World) First(keys ...ComponentKey) (Entity, bool) {
	ents := w.Query(keys...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Update runs all systems once, then drops events nobody drained.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w)
	w.events.flush()
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
