package reqgate

import (
	"math/bits"
	"sort"
)

// solver decides whether every group's cardinality rule holds on a state.
// Implementations are prepared once at compile time and are read-only
// afterwards, so a Plan can be shared across goroutines.
type solver interface {
	check(st state) Issues
}

func newSolver(kind SolverKind, groups []GroupSpec, lay *layout) solver {
	if kind == SolverEnumeration {
		return newEnumerationSolver(groups, lay)
	}
	return &countingSolver{groups: groups, lay: lay}
}

// groupViolation reports one unmet group with its rule and the observed count.
func groupViolation(g *GroupSpec, got int) Issue {
	return errIssue("/groups/"+g.Name, CodeGroupCardinality,
		"group cardinality rule not met",
		map[string]any{"group": g.Name, "rule": g.Rule.String(), "got": got})
}

// checkGroups counts set member slots per group and collects one violation
// per unmet rule. Shared by both strategies; this is the reference semantics.
func checkGroups(st state, groups []*GroupSpec, lay *layout) Issues {
	var iss Issues
	for _, g := range groups {
		got := st.countSet(lay.members[g.Name])
		if !g.Rule.holds(got) {
			iss = AppendIssues(iss, groupViolation(g, got))
		}
	}
	return iss
}

// countingSolver evaluates every group on demand, O(member count) per group
// per Build attempt. Manifest name "compiler".
type countingSolver struct {
	groups []GroupSpec
	lay    *layout
}

func (s *countingSolver) check(st state) Issues {
	refs := make([]*GroupSpec, len(s.groups))
	for i := range s.groups {
		refs[i] = &s.groups[i]
	}
	return checkGroups(st, refs, s.lay)
}

// enumerationCap bounds the width of a component the enumeration strategy
// will precompute (2^enumerationCap patterns). Wider components fall back to
// counting; the verdict is identical either way, only the evaluation cost
// differs.
const enumerationCap = 20

// enumerationSolver precomputes, at compile time, every member combination
// on which all cardinality rules hold simultaneously. Groups are first
// partitioned into connected components by shared member fields, and each
// component's power set is enumerated independently; combinations from
// disjoint components never interact, so the product of per-component legal
// sets equals the legal set over the full union. Manifest name "brute_force".
type enumerationSolver struct {
	lay        *layout
	components []component
}

type component struct {
	groups []*GroupSpec
	// probe holds one representative slot per component field, in field-index
	// order. A field's slots across groups advance in lockstep (Set flips all
	// of them), so any one of them answers "has this field been supplied".
	probe []int
	// legal is the set of accepted field bitmasks (bit i = probe[i]'s field).
	// nil when the component is wider than enumerationCap and the check falls
	// back to counting.
	legal map[uint64]struct{}
}

func newEnumerationSolver(groups []GroupSpec, lay *layout) *enumerationSolver {
	s := &enumerationSolver{lay: lay}

	// Union-find over group indices, linked through shared member fields.
	parent := make([]int, len(groups))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	owner := map[int]int{} // field index -> group index first seen
	for gi := range groups {
		for _, f := range groups[gi].Members {
			if prev, ok := owner[f]; ok {
				parent[find(gi)] = find(prev)
				continue
			}
			owner[f] = gi
		}
	}

	byRoot := map[int][]int{}
	roots := []int{}
	for gi := range groups {
		r := find(gi)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], gi)
	}
	sort.Ints(roots)

	for _, r := range roots {
		c := component{}
		fieldSet := map[int]struct{}{}
		for _, gi := range byRoot[r] {
			c.groups = append(c.groups, &groups[gi])
			for _, f := range groups[gi].Members {
				fieldSet[f] = struct{}{}
			}
		}
		fields := make([]int, 0, len(fieldSet))
		for f := range fieldSet {
			fields = append(fields, f)
		}
		sort.Ints(fields)

		pos := make(map[int]int, len(fields)) // field index -> bit position
		for i, f := range fields {
			pos[f] = i
			// representative slot: the field's slot in whichever component
			// group lists it first
			for _, cg := range c.groups {
				if slot, ok := lay.groupSlot[f][cg.Name]; ok {
					c.probe = append(c.probe, slot)
					break
				}
			}
		}

		if len(fields) <= enumerationCap {
			c.legal = enumerate(c.groups, pos, len(fields))
		}
		s.components = append(s.components, c)
	}
	return s
}

// enumerate walks the power set of a component's fields and retains every
// combination on which all component groups' rules hold at once.
func enumerate(groups []*GroupSpec, pos map[int]int, width int) map[uint64]struct{} {
	masks := make([]uint64, len(groups))
	for i, g := range groups {
		for _, f := range g.Members {
			masks[i] |= 1 << uint(pos[f])
		}
	}
	legal := make(map[uint64]struct{})
	limit := uint64(1) << uint(width)
	for combo := uint64(0); combo < limit; combo++ {
		ok := true
		for i, g := range groups {
			if !g.Rule.holds(bits.OnesCount64(combo & masks[i])) {
				ok = false
				break
			}
		}
		if ok {
			legal[combo] = struct{}{}
		}
	}
	return legal
}

func (s *enumerationSolver) check(st state) Issues {
	var iss Issues
	for i := range s.components {
		c := &s.components[i]
		if c.legal == nil {
			iss = AppendIssues(iss, checkGroups(st, c.groups, s.lay)...)
			continue
		}
		var combo uint64
		for bit, slot := range c.probe {
			if st.isSet(slot) {
				combo |= 1 << uint(bit)
			}
		}
		if _, ok := c.legal[combo]; ok {
			continue
		}
		// membership miss: re-count per group for precise diagnostics
		iss = AppendIssues(iss, checkGroups(st, c.groups, s.lay)...)
	}
	return iss
}
