package ecs

// intersect returns the entities present in every set, ordered like the
// smallest set.
func intersect(sets []*SparseSet) []Entity {
	if len(sets) == 0 {
		return nil
	}
	smallest := 0
	for i, s := range sets {
		if s == nil {
			return nil
		}
		if s.Len() < sets[smallest].Len() {
			smallest = i
		}
	}
	base := sets[smallest].Entities()
	out := make([]Entity, 0, len(base))
	for _, e := range base {
		ok := true
		for i, s := range sets {
			if i != smallest && !s.Has(e) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, e)
		}
	}
	return out
}
