package reqgate

// canBuild is the final admission check before a value may be produced: every
// mandatory slot must be set and every group's solver verdict must accept.
// All missing mandatory fields and all violated groups are reported together
// to aid debugging; the state is never mutated.
func canBuild(st state, lay *layout, sol solver) Issues {
	var iss Issues
	for _, slot := range lay.mandatory {
		if !st.isSet(slot) {
			ref := lay.bySlot[slot]
			iss = AppendIssues(iss, errIssue("/"+ref.field, CodeRequired,
				"mandatory field never supplied",
				map[string]any{"field": ref.field}))
		}
	}
	iss = AppendIssues(iss, sol.check(st)...)
	if len(iss) > 0 {
		return iss
	}
	return nil
}
