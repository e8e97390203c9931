package reqgate

// FieldSpec is the classified, immutable form of one field declaration.
type FieldSpec struct {
	Index int
	Name  string
	Kind  FieldKind
	// Groups lists group memberships in declaration order, deduplicated.
	// Empty unless Kind is KindGrouped.
	Groups []string
	Setter SetterShape
}

// classify resolves one raw declaration into a FieldSpec and associates
// grouped fields with the registry. All marker conflicts are reported, not
// just the first.
func classify(idx int, fd FieldDecl, pol Policy, reg *groupRegistry) (FieldSpec, Issues) {
	fs := FieldSpec{Index: idx, Name: fd.Name, Setter: fd.Setter}
	var iss Issues

	if fd.Skip {
		fs.Kind = KindSkipped
		if fd.Mandatory || fd.Optional || len(fd.Groups) > 0 {
			iss = AppendIssues(iss, errIssue("/"+fd.Name, CodeConflictingKind,
				"skip excludes every other kind marker",
				map[string]any{"field": fd.Name, "marker": "skip"}))
		}
		return fs, iss
	}

	if len(fd.Groups) > 0 {
		// Groups exist precisely to relax the always-required rule, so a
		// grouped field cannot also be mandatory.
		if fd.Mandatory {
			iss = AppendIssues(iss, errIssue("/"+fd.Name, CodeConflictingKind,
				"mandatory and group are mutually exclusive",
				map[string]any{"field": fd.Name, "marker": "mandatory"}))
		}
		fs.Kind = KindGrouped
		seen := make(map[string]struct{}, len(fd.Groups))
		for _, g := range fd.Groups {
			iss = AppendIssues(iss, reg.associate(g, idx, fd.Name)...)
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			fs.Groups = append(fs.Groups, g)
		}
		return fs, iss
	}

	if fd.Mandatory && fd.Optional {
		iss = AppendIssues(iss, errIssue("/"+fd.Name, CodeConflictingKind,
			"mandatory and optional are mutually exclusive",
			map[string]any{"field": fd.Name, "marker": "mandatory"}))
	}
	switch {
	case fd.Mandatory:
		fs.Kind = KindMandatory
	case fd.Optional:
		fs.Kind = KindOptional
	case pol.AssumeMandatory:
		fs.Kind = KindMandatory
	case fd.Nullable:
		fs.Kind = KindOptional
	default:
		fs.Kind = KindMandatory
	}
	return fs, iss
}
