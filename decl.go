package reqgate

// EntityDecl is the raw declaration of one buildable entity: container
// policy, group declarations, and fields in declaration order. It is plain
// data so that declaration surfaces (dsl, config) can be lowered into it and
// Compile can run as a pure function over it.
type EntityDecl struct {
	Name   string
	Policy Policy
	Groups []GroupDecl
	Fields []FieldDecl
}

// GroupDecl declares a named group ahead of any field referencing it.
type GroupDecl struct {
	Name string
	Rule Cardinality
}

// FieldDecl is one field declaration plus its markers, before classification.
type FieldDecl struct {
	Name      string
	Mandatory bool
	Optional  bool
	Skip      bool
	// Groups lists the group markers in declaration order. The marker is
	// repeatable, so the same name may appear more than once; re-association
	// is reported as a warning and otherwise ignored.
	Groups []string
	// Nullable marks the field's value type as able to represent absence.
	// Unmarked nullable fields default to optional unless the container
	// policy assumes mandatory.
	Nullable bool
	Setter   SetterShape
}
