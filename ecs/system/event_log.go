package system

import (
	"fmt"

	"github.com/insect2d/insect2d/ecs"
)

const defaultEventLogSize = 8

// EventLogSystem drains the world event queue and keeps the most recent
// entries as text for the debug overlay. Add it after every publisher.
type EventLogSystem struct {
	size  int
	lines []string
	tick  int
}

func NewEventLogSystem(size int) *EventLogSystem {
	if size <= 0 {
		size = defaultEventLogSize
	}
	return &EventLogSystem{size: size}
}

func (s *EventLogSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	s.tick++
	for _, evt := range w.Events().Drain() {
		s.append(fmt.Sprintf("%5d %s", s.tick, describeEvent(evt)))
	}
}

// Lines returns the retained entries, oldest first.
func (s *EventLogSystem) Lines() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *EventLogSystem) append(line string) {
	s.lines = append(s.lines, line)
	if over := len(s.lines) - s.size; over > 0 {
		s.lines = append(s.lines[:0], s.lines[over:]...)
	}
}

func describeEvent(evt ecs.Event) string {
	switch data := evt.Data.(type) {
	case StatusChange:
		return fmt.Sprintf("status %s -> %s", data.From, data.To)
	case PhaseChange:
		return fmt.Sprintf("run %s -> %s", data.From, data.To)
	case GroundedEvent:
		if data.Grounded {
			return "landed"
		}
		return "left ground"
	case string:
		return fmt.Sprintf("%s %s", evt.Type, data)
	default:
		return evt.Type
	}
}
