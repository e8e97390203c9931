package reqgate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reqgate/reqgate/i18n"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Configuration pass (classification / group registry / Compile)
	CodeConflictingKind        = "conflicting_kind"
	CodeDuplicateField         = "duplicate_field"
	CodeDuplicateGroup         = "duplicate_group"
	CodeDuplicateMember        = "duplicate_member"
	CodeUnknownGroup           = "unknown_group"
	CodeNeverSatisfiable       = "never_satisfiable"
	CodeGroupForbidsAll        = "group_forbids_all"
	CodeGroupNoEffect          = "group_no_effect"
	CodeAllMandatoryEquivalent = "all_mandatory_equivalent"
	CodeParseError             = "parse_error"
	// Construction pass (Request / build gate)
	CodeUnknownField     = "unknown_field"
	CodeSkippedField     = "skipped_field"
	CodeRequired         = "required"
	CodeGroupCardinality = "group_cardinality"
)

// ErrStaleRequest is returned when a Request that was already consumed by a
// transition or a successful Build is used again.
var ErrStaleRequest = errors.New("reqgate: construction request already consumed; use the handle returned by the last Set")

// Issue represents a single diagnostic entry.
type Issue struct {
	Path     string // Slash-prefixed location (for example: /bar, /groups/quz).
	Code     string // One of the codes listed above.
	Message  string
	Hint     string   // Optional: remediation hints.
	Severity Severity // Warn for redundant-but-sound declarations, Error otherwise.
	// Params carries structured parameters (e.g., {"rule":"exact(1)", "got":2})
	// for i18n and tooling.
	Params map[string]any
}

// Issues is a collection of diagnostics that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. never_satisfiable at /groups/quz
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// HasErrors reports whether any issue has Error severity.
func (iss Issues) HasErrors() bool {
	for _, it := range iss {
		if it.Severity == Error {
			return true
		}
	}
	return false
}

// OnlyErrors returns the Error-severity subset.
func (iss Issues) OnlyErrors() Issues { return iss.filter(Error) }

// OnlyWarnings returns the Warn-severity subset.
func (iss Issues) OnlyWarnings() Issues { return iss.filter(Warn) }

func (iss Issues) filter(sev Severity) Issues {
	var out Issues
	for _, it := range iss {
		if it.Severity == sev {
			out = AppendIssues(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// errIssue builds an Error-severity issue with a translated message.
func errIssue(path, code, hint string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, stringParams(params)), Hint: hint, Severity: Error, Params: params}
}

// warnIssue builds a Warn-severity issue with a translated message.
func warnIssue(path, code, hint string, params map[string]any) Issue {
	return Issue{Path: path, Code: code, Message: i18n.T(code, stringParams(params)), Hint: hint, Severity: Warn, Params: params}
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case string:
			out[k] = t
		case int:
			out[k] = itoa(t)
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
