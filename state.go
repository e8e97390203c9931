package reqgate

// layout fixes the slot assignment for one compiled entity: one slot per
// non-skipped field outside any group, plus one slot per (field, group)
// pairing. A field belonging to several groups owns one independent slot per
// group, because each group's cardinality is evaluated over its own member
// set. The assignment never changes for the lifetime of a Plan.
type layout struct {
	size      int
	bySlot    []slotRef
	fieldSlot map[int]int            // field index -> own slot
	groupSlot map[int]map[string]int // field index -> group name -> slot
	mandatory []int                  // slots that gate the build, declaration order
	members   map[string][]int       // group name -> member slots, association order
}

// slotRef names the field (and group context) a slot tracks, for diagnostics.
type slotRef struct {
	field string
	group string // empty for a field's own slot
}

func buildLayout(fields []FieldSpec, groups []GroupSpec) *layout {
	lay := &layout{
		fieldSlot: map[int]int{},
		groupSlot: map[int]map[string]int{},
		members:   map[string][]int{},
	}
	next := func(ref slotRef) int {
		s := lay.size
		lay.bySlot = append(lay.bySlot, ref)
		lay.size++
		return s
	}
	for i := range fields {
		f := &fields[i]
		switch f.Kind {
		case KindMandatory:
			s := next(slotRef{field: f.Name})
			lay.fieldSlot[f.Index] = s
			lay.mandatory = append(lay.mandatory, s)
		case KindOptional:
			lay.fieldSlot[f.Index] = next(slotRef{field: f.Name})
		case KindGrouped:
			bg := make(map[string]int, len(f.Groups))
			for _, g := range f.Groups {
				bg[g] = next(slotRef{field: f.Name, group: g})
			}
			lay.groupSlot[f.Index] = bg
		case KindSkipped:
			// no slot
		}
	}
	for i := range groups {
		g := &groups[i]
		slots := make([]int, 0, len(g.Members))
		for _, idx := range g.Members {
			slots = append(slots, lay.groupSlot[idx][g.Name])
		}
		lay.members[g.Name] = slots
	}
	return lay
}

// state is the fixed-length progress vector for one construction attempt.
// Transitions never mutate a state in place; they copy. Flags only ever move
// from false to true.
type state struct {
	flags []bool
}

func newState(n int) state { return state{flags: make([]bool, n)} }

// set returns a copy of st with slot i set. Idempotent.
func (st state) set(i int) state {
	next := make([]bool, len(st.flags))
	copy(next, st.flags)
	next[i] = true
	return state{flags: next}
}

func (st state) isSet(i int) bool { return st.flags[i] }

// countSet counts the set flags among the given slots.
func (st state) countSet(slots []int) int {
	n := 0
	for _, s := range slots {
		if st.flags[s] {
			n++
		}
	}
	return n
}
