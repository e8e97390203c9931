package reqgate

// FieldKind classifies how a field participates in build verification.
type FieldKind int

const (
	KindMandatory FieldKind = iota // Must be supplied before Build succeeds.
	KindOptional                   // Tracked for information only; never gates Build.
	KindGrouped                    // Governed by one or more group cardinality rules.
	KindSkipped                    // Invisible to verification and to setters.
)

func (k FieldKind) String() string {
	switch k {
	case KindMandatory:
		return "mandatory"
	case KindOptional:
		return "optional"
	case KindGrouped:
		return "grouped"
	case KindSkipped:
		return "skipped"
	}
	return "unknown"
}

// CardinalityKind identifies the comparison a group rule performs.
type CardinalityKind int

const (
	CardExact CardinalityKind = iota
	CardAtLeast
	CardAtMost
)

// Cardinality is a group's joint rule over how many members must be set.
type Cardinality struct {
	Kind CardinalityKind
	N    int
}

// Exact requires exactly n members to be set.
func Exact(n int) Cardinality { return Cardinality{Kind: CardExact, N: n} }

// AtLeast requires n or more members to be set.
func AtLeast(n int) Cardinality { return Cardinality{Kind: CardAtLeast, N: n} }

// AtMost allows up to n members to be set.
func AtMost(n int) Cardinality { return Cardinality{Kind: CardAtMost, N: n} }

// Single is sugar for Exact(1).
func Single() Cardinality { return Exact(1) }

// String renders the rule the way manifests spell it: exact(1), at_least(2), ...
func (c Cardinality) String() string {
	switch c.Kind {
	case CardExact:
		return "exact(" + itoa(c.N) + ")"
	case CardAtLeast:
		return "at_least(" + itoa(c.N) + ")"
	case CardAtMost:
		return "at_most(" + itoa(c.N) + ")"
	}
	return "unknown"
}

// holds reports whether the rule is met for the given count of set members.
func (c Cardinality) holds(got int) bool {
	switch c.Kind {
	case CardExact:
		return got == c.N
	case CardAtLeast:
		return got >= c.N
	case CardAtMost:
		return got <= c.N
	}
	return false
}

// SolverKind selects the constraint-solving strategy for an entity.
type SolverKind int

const (
	// SolverCounting evaluates each group by counting set members on demand.
	// Reference semantics; manifest name "compiler".
	SolverCounting SolverKind = iota
	// SolverEnumeration precomputes every legal member combination at compile
	// time; manifest name "brute_force".
	SolverEnumeration
)

func (s SolverKind) String() string {
	if s == SolverEnumeration {
		return "brute_force"
	}
	return "compiler"
}

// Policy carries the container-wide markers that steer classification and
// solver selection.
type Policy struct {
	// AssumeMandatory makes every unmarked field mandatory, regardless of
	// whether its value type can represent absence.
	AssumeMandatory bool
	Solver          SolverKind
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// SetterShape carries the markers that shape the generated setter surface
// (propagate/into/as_ref/as_mut). Verification never consults them; they are
// retained verbatim for emission layers built on top of a Plan.
type SetterShape struct {
	Propagate bool
	Into      bool
	AsRef     bool
	AsMut     bool
}

// small local itoa to avoid importing strconv in the hot rule path
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	bp := len(buf)
	for i > 0 {
		bp--
		buf[bp] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		bp--
		buf[bp] = '-'
	}
	return string(buf[bp:])
}
