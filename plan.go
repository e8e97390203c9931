package reqgate

// Plan is the compiled, immutable verification model for one entity. It is
// safe for concurrent use; per-attempt state lives on Request.
type Plan struct {
	name     string
	policy   Policy
	fields   []FieldSpec
	groups   []GroupSpec
	byName   map[string]int
	lay      *layout
	sol      solver
	warnings Issues
}

// Compile validates a raw declaration and produces a Plan. Configuration
// problems are collected across every field and group and returned together
// as Issues so a user can fix all of them in one iteration; any
// Error-severity issue prevents the entity from becoming usable.
// Warning-severity issues are retained on the Plan (see Warnings).
func Compile(decl EntityDecl) (*Plan, error) {
	reg := newGroupRegistry()
	var iss Issues
	for ord, gd := range decl.Groups {
		iss = AppendIssues(iss, reg.register(ord, gd.Name, gd.Rule)...)
	}

	fields := make([]FieldSpec, 0, len(decl.Fields))
	byName := make(map[string]int, len(decl.Fields))
	for i, fd := range decl.Fields {
		if _, dup := byName[fd.Name]; dup {
			iss = AppendIssues(iss, errIssue("/"+fd.Name, CodeDuplicateField,
				"field declared more than once",
				map[string]any{"field": fd.Name}))
			continue
		}
		fs, fiss := classify(i, fd, decl.Policy, reg)
		iss = AppendIssues(iss, fiss...)
		byName[fd.Name] = len(fields)
		fields = append(fields, fs)
	}

	groups, giss := reg.finalize()
	iss = AppendIssues(iss, giss...)

	if iss.HasErrors() {
		return nil, iss
	}

	lay := buildLayout(fields, groups)
	return &Plan{
		name:     decl.Name,
		policy:   decl.Policy,
		fields:   fields,
		groups:   groups,
		byName:   byName,
		lay:      lay,
		sol:      newSolver(decl.Policy.Solver, groups, lay),
		warnings: iss.OnlyWarnings(),
	}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(decl EntityDecl) *Plan {
	p, err := Compile(decl)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the entity name the Plan was compiled for.
func (p *Plan) Name() string { return p.name }

// Warnings returns the Warn-severity diagnostics retained from compilation.
func (p *Plan) Warnings() Issues {
	out := make(Issues, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// Fields returns the classified field specs in declaration order.
func (p *Plan) Fields() []FieldSpec {
	out := make([]FieldSpec, len(p.fields))
	copy(out, p.fields)
	return out
}

// Groups returns the finalized group specs in declaration order.
func (p *Plan) Groups() []GroupSpec {
	out := make([]GroupSpec, len(p.groups))
	copy(out, p.groups)
	return out
}

// Description is a plain-data projection of a compiled Plan, marshalable
// with any JSON engine.
type Description struct {
	Name   string             `json:"name"`
	Solver string             `json:"solver"`
	Fields []FieldDescription `json:"fields"`
	Groups []GroupDescription `json:"groups,omitempty"`
}

// FieldDescription summarizes one classified field.
type FieldDescription struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Groups []string `json:"groups,omitempty"`
}

// GroupDescription summarizes one group with its rule and member names.
type GroupDescription struct {
	Name    string   `json:"name"`
	Rule    string   `json:"rule"`
	Members []string `json:"members"`
}

// Describe projects the Plan into a Description.
func (p *Plan) Describe() Description {
	d := Description{Name: p.name, Solver: p.policy.Solver.String()}
	for _, f := range p.fields {
		fd := FieldDescription{Name: f.Name, Kind: f.Kind.String()}
		fd.Groups = append(fd.Groups, f.Groups...)
		d.Fields = append(d.Fields, fd)
	}
	for _, g := range p.groups {
		gd := GroupDescription{Name: g.Name, Rule: g.Rule.String()}
		for _, idx := range g.Members {
			gd.Members = append(gd.Members, p.fields[idx].Name)
		}
		d.Groups = append(d.Groups, gd)
	}
	return d
}
