package reqgate

// GroupSpec is the finalized, immutable form of one group declaration.
type GroupSpec struct {
	Name string
	Rule Cardinality
	// Members lists member field indices in association order.
	Members []int
}

// groupRegistry collects group declarations and member associations during a
// single compile pass. It is discarded after finalize; the resulting
// GroupSpec slice is what outlives compilation.
type groupRegistry struct {
	order  []string
	groups map[string]*groupEntry
}

type groupEntry struct {
	ordinal int // declaration position, carried into duplicate reports
	rule    Cardinality
	members []int
	seen    map[int]struct{}
}

func newGroupRegistry() *groupRegistry {
	return &groupRegistry{groups: map[string]*groupEntry{}}
}

// register records a group declaration. A duplicate name is an error that
// identifies both the new and the earlier declaration.
func (r *groupRegistry) register(ordinal int, name string, rule Cardinality) Issues {
	if prev, dup := r.groups[name]; dup {
		return Issues{errIssue("/groups/"+name, CodeDuplicateGroup,
			"group declared more than once",
			map[string]any{"group": name, "declared_at": prev.ordinal, "redeclared_at": ordinal})}
	}
	r.order = append(r.order, name)
	r.groups[name] = &groupEntry{ordinal: ordinal, rule: rule, seen: map[int]struct{}{}}
	return nil
}

// associate adds a field to a group's member set. Re-associating an existing
// (group, field) pair is redundant, not unsound: a warning, then a no-op.
func (r *groupRegistry) associate(name string, fieldIdx int, fieldName string) Issues {
	e, ok := r.groups[name]
	if !ok {
		return Issues{errIssue("/"+fieldName, CodeUnknownGroup,
			"declare the group before referencing it",
			map[string]any{"group": name, "field": fieldName})}
	}
	if _, dup := e.seen[fieldIdx]; dup {
		return Issues{warnIssue("/"+fieldName, CodeDuplicateMember,
			"field already belongs to this group",
			map[string]any{"group": name, "field": fieldName})}
	}
	e.seen[fieldIdx] = struct{}{}
	e.members = append(e.members, fieldIdx)
	return nil
}

// finalize runs the cardinality sanity check on every group and returns the
// immutable specs in declaration order. Issues are collected across all
// groups, never short-circuited.
func (r *groupRegistry) finalize() ([]GroupSpec, Issues) {
	specs := make([]GroupSpec, 0, len(r.order))
	var iss Issues
	for _, name := range r.order {
		e := r.groups[name]
		iss = AppendIssues(iss, checkCardinality(name, e.rule, len(e.members))...)
		specs = append(specs, GroupSpec{Name: name, Rule: e.rule, Members: e.members})
	}
	return specs, iss
}

// checkCardinality flags rules that can never be satisfied, rules that
// forbid members from ever being set, and rules with no effect. m is the
// member count.
func checkCardinality(name string, rule Cardinality, m int) Issues {
	path := "/groups/" + name
	params := func() map[string]any {
		return map[string]any{"group": name, "rule": rule.String(), "members": m}
	}
	var iss Issues
	switch rule.Kind {
	case CardExact:
		switch {
		case rule.N == 0:
			iss = AppendIssues(iss, errIssue(path, CodeGroupForbidsAll,
				"exact(0) prevents every member from ever being set", params()))
		case rule.N > m:
			iss = AppendIssues(iss, errIssue(path, CodeNeverSatisfiable,
				"the rule requires more members than the group has", params()))
		case rule.N == m:
			iss = AppendIssues(iss, warnIssue(path, CodeAllMandatoryEquivalent,
				"equivalent to marking every member mandatory", params()))
		}
	case CardAtLeast:
		switch {
		case rule.N == 0:
			iss = AppendIssues(iss, warnIssue(path, CodeGroupNoEffect,
				"at_least(0) always holds", params()))
		case rule.N > m:
			iss = AppendIssues(iss, errIssue(path, CodeNeverSatisfiable,
				"the rule requires more members than the group has", params()))
		case rule.N == m:
			iss = AppendIssues(iss, warnIssue(path, CodeAllMandatoryEquivalent,
				"equivalent to marking every member mandatory", params()))
		}
	case CardAtMost:
		switch {
		case rule.N == 0:
			iss = AppendIssues(iss, errIssue(path, CodeGroupForbidsAll,
				"at_most(0) prevents every member from ever being set", params()))
		case rule.N >= m:
			iss = AppendIssues(iss, warnIssue(path, CodeGroupNoEffect,
				"the rule can never be violated", params()))
		}
	}
	return iss
}
