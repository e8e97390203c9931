package dsl

import (
	reqgate "github.com/reqgate/reqgate"
)

// EntityBuilder accumulates raw declarations for one entity. It performs no
// validation of its own; everything is checked by reqgate.Compile.
type EntityBuilder struct {
	decl reqgate.EntityDecl
}

// FieldStep scopes marker calls to the most recently declared field.
type FieldStep struct {
	b *EntityBuilder
}

// Entity creates a new declaration builder.
func Entity(name string) *EntityBuilder {
	return &EntityBuilder{decl: reqgate.EntityDecl{Name: name}}
}

// AssumeMandatory makes every unmarked field mandatory.
func (b *EntityBuilder) AssumeMandatory() *EntityBuilder {
	b.decl.Policy.AssumeMandatory = true
	return b
}

// Solver selects the constraint-solving strategy for this entity.
func (b *EntityBuilder) Solver(kind reqgate.SolverKind) *EntityBuilder {
	b.decl.Policy.Solver = kind
	return b
}

// Group declares a named group with its cardinality rule. Groups must be
// declared before any field references them.
func (b *EntityBuilder) Group(name string, rule reqgate.Cardinality) *EntityBuilder {
	b.decl.Groups = append(b.decl.Groups, reqgate.GroupDecl{Name: name, Rule: rule})
	return b
}

// Single declares a group requiring exactly one member; sugar for
// Group(name, reqgate.Exact(1)).
func (b *EntityBuilder) Single(name string) *EntityBuilder {
	return b.Group(name, reqgate.Single())
}

// Field declares a field and returns a step for attaching its markers.
func (b *EntityBuilder) Field(name string) *FieldStep {
	b.decl.Fields = append(b.decl.Fields, reqgate.FieldDecl{Name: name})
	return &FieldStep{b: b}
}

// Decl returns the collected raw declaration.
func (b *EntityBuilder) Decl() reqgate.EntityDecl { return b.decl }

// Compile lowers the declaration and compiles it into a Plan.
func (b *EntityBuilder) Compile() (*reqgate.Plan, error) { return reqgate.Compile(b.decl) }

// MustCompile is like Compile but panics on error.
func (b *EntityBuilder) MustCompile() *reqgate.Plan { return reqgate.MustCompile(b.decl) }

func (f *FieldStep) cur() *reqgate.FieldDecl {
	return &f.b.decl.Fields[len(f.b.decl.Fields)-1]
}

// Mandatory marks the field as always required.
func (f *FieldStep) Mandatory() *FieldStep {
	f.cur().Mandatory = true
	return f
}

// Optional marks the field as explicitly optional.
func (f *FieldStep) Optional() *FieldStep {
	f.cur().Optional = true
	return f
}

// Skip excludes the field from verification and setters.
func (f *FieldStep) Skip() *FieldStep {
	f.cur().Skip = true
	return f
}

// Nullable marks the field's value type as able to represent absence.
func (f *FieldStep) Nullable() *FieldStep {
	f.cur().Nullable = true
	return f
}

// Group adds the field to the named groups. Repeatable.
func (f *FieldStep) Group(names ...string) *FieldStep {
	f.cur().Groups = append(f.cur().Groups, names...)
	return f
}

// Propagate, Into, AsRef and AsMut shape the generated setter surface only;
// verification never consults them.

func (f *FieldStep) Propagate() *FieldStep { f.cur().Setter.Propagate = true; return f }
func (f *FieldStep) Into() *FieldStep      { f.cur().Setter.Into = true; return f }
func (f *FieldStep) AsRef() *FieldStep     { f.cur().Setter.AsRef = true; return f }
func (f *FieldStep) AsMut() *FieldStep     { f.cur().Setter.AsMut = true; return f }

// Field starts the next field declaration.
func (f *FieldStep) Field(name string) *FieldStep { return f.b.Field(name) }

// Compile passthroughs so chains need not break.

func (f *FieldStep) Compile() (*reqgate.Plan, error) { return f.b.Compile() }
func (f *FieldStep) MustCompile() *reqgate.Plan      { return f.b.MustCompile() }
func (f *FieldStep) Decl() reqgate.EntityDecl        { return f.b.Decl() }
