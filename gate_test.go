package reqgate_test

import (
	"testing"

	reqgate "github.com/reqgate/reqgate"
)

func bothSolvers(t *testing.T, fn func(t *testing.T, kind reqgate.SolverKind)) {
	t.Helper()
	for _, kind := range []reqgate.SolverKind{reqgate.SolverCounting, reqgate.SolverEnumeration} {
		t.Run(kind.String(), func(t *testing.T) { fn(t, kind) })
	}
}

func mustSet(t *testing.T, r *reqgate.Request, field string, v any) *reqgate.Request {
	t.Helper()
	next, err := r.Set(field, v)
	if err != nil {
		t.Fatalf("set %s: %v", field, err)
	}
	return next
}

func hasIssue(iss reqgate.Issues, code, path string) bool {
	for _, it := range iss {
		if it.Code == code && it.Path == path {
			return true
		}
	}
	return false
}

func TestBuild_ExactOneGroupWithMandatory(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		decl := reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Groups: []reqgate.GroupDecl{{Name: "quz", Rule: reqgate.Exact(1)}},
			Fields: []reqgate.FieldDecl{
				{Name: "bar", Groups: []string{"quz"}},
				{Name: "baz", Groups: []string{"quz"}},
				{Name: "qux", Mandatory: true},
			},
		}
		plan := reqgate.MustCompile(decl)

		// one group member plus the mandatory field builds
		r := plan.NewRequest()
		r = mustSet(t, r, "bar", "hello")
		r = mustSet(t, r, "qux", 42)
		out, err := r.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if out["bar"] != "hello" || out["qux"] != 42 {
			t.Fatalf("unexpected payload: %v", out)
		}
		if _, present := out["baz"]; present {
			t.Fatalf("baz must be absent, got %v", out["baz"])
		}

		// two group members violate exact(1)
		r = plan.NewRequest()
		r = mustSet(t, r, "bar", "hello")
		r = mustSet(t, r, "baz", "world")
		r = mustSet(t, r, "qux", 42)
		_, err = r.Build()
		iss, ok := reqgate.AsIssues(err)
		if !ok || !hasIssue(iss, reqgate.CodeGroupCardinality, "/groups/quz") {
			t.Fatalf("expected group_cardinality for quz, got %v", err)
		}
		for _, it := range iss {
			if it.Code == reqgate.CodeGroupCardinality {
				if got := it.Params["got"]; got != 2 {
					t.Fatalf("expected observed count 2, got %v", got)
				}
				if rule := it.Params["rule"]; rule != "exact(1)" {
					t.Fatalf("expected rule exact(1), got %v", rule)
				}
			}
		}
	})
}

func TestBuild_AtLeastTwo(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		decl := reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Groups: []reqgate.GroupDecl{{Name: "quz", Rule: reqgate.AtLeast(2)}},
			Fields: []reqgate.FieldDecl{
				{Name: "bar", Groups: []string{"quz"}},
				{Name: "baz", Groups: []string{"quz"}},
				{Name: "qux", Groups: []string{"quz"}},
			},
		}
		plan := reqgate.MustCompile(decl)

		r := mustSet(t, plan.NewRequest(), "bar", 1)
		if _, err := r.Build(); err == nil {
			t.Fatalf("expected failure with a single member set")
		} else if iss, _ := reqgate.AsIssues(err); !hasIssue(iss, reqgate.CodeGroupCardinality, "/groups/quz") {
			t.Fatalf("expected group_cardinality, got %v", err)
		}

		r = mustSet(t, r, "qux", 3)
		out, err := r.Build()
		if err != nil {
			t.Fatalf("two members should build: %v", err)
		}
		if out["bar"] != 1 || out["qux"] != 3 {
			t.Fatalf("unexpected payload: %v", out)
		}

		r = plan.NewRequest()
		r = mustSet(t, r, "bar", 1)
		r = mustSet(t, r, "baz", 2)
		r = mustSet(t, r, "qux", 3)
		if _, err := r.Build(); err != nil {
			t.Fatalf("all members should build: %v", err)
		}
	})
}

func TestBuild_AtMostTwo(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		decl := reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Groups: []reqgate.GroupDecl{{Name: "quz", Rule: reqgate.AtMost(2)}},
			Fields: []reqgate.FieldDecl{
				{Name: "bar", Groups: []string{"quz"}},
				{Name: "baz", Groups: []string{"quz"}},
				{Name: "qux", Groups: []string{"quz"}},
			},
		}
		plan := reqgate.MustCompile(decl)

		r := plan.NewRequest()
		r = mustSet(t, r, "bar", 1)
		r = mustSet(t, r, "baz", 2)
		r = mustSet(t, r, "qux", 3)
		_, err := r.Build()
		iss, ok := reqgate.AsIssues(err)
		if !ok || !hasIssue(iss, reqgate.CodeGroupCardinality, "/groups/quz") {
			t.Fatalf("expected group_cardinality with all three set, got %v", err)
		}

		pairs := [][2]string{{"bar", "baz"}, {"bar", "qux"}, {"baz", "qux"}}
		for _, pair := range pairs {
			r := plan.NewRequest()
			r = mustSet(t, r, pair[0], 1)
			r = mustSet(t, r, pair[1], 2)
			if _, err := r.Build(); err != nil {
				t.Fatalf("pair %v should build: %v", pair, err)
			}
		}
	})
}

func TestBuild_PlainMandatoryField(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		// no markers and a non-nullable value type defaults to mandatory
		decl := reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Fields: []reqgate.FieldDecl{{Name: "bar"}},
		}
		plan := reqgate.MustCompile(decl)

		_, err := plan.NewRequest().Build()
		iss, ok := reqgate.AsIssues(err)
		if !ok || !hasIssue(iss, reqgate.CodeRequired, "/bar") {
			t.Fatalf("expected required at /bar, got %v", err)
		}

		r := mustSet(t, plan.NewRequest(), "bar", "exactly this")
		out, err := r.Build()
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		if out["bar"] != "exactly this" {
			t.Fatalf("expected the supplied value back, got %v", out["bar"])
		}
	})
}

func TestCompile_UnsatisfiableGroupIsRejected(t *testing.T) {
	decl := reqgate.EntityDecl{
		Name:   "Foo",
		Groups: []reqgate.GroupDecl{{Name: "quz", Rule: reqgate.Exact(5)}},
		Fields: []reqgate.FieldDecl{
			{Name: "a", Groups: []string{"quz"}},
			{Name: "b", Groups: []string{"quz"}},
			{Name: "c", Groups: []string{"quz"}},
		},
	}
	_, err := reqgate.Compile(decl)
	iss, ok := reqgate.AsIssues(err)
	if !ok || !hasIssue(iss, reqgate.CodeNeverSatisfiable, "/groups/quz") {
		t.Fatalf("expected never_satisfiable, got %v", err)
	}
}

func TestBuild_ReportsEveryViolationTogether(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		decl := reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Groups: []reqgate.GroupDecl{
				{Name: "g1", Rule: reqgate.AtLeast(1)},
				{Name: "g2", Rule: reqgate.AtLeast(1)},
			},
			Fields: []reqgate.FieldDecl{
				{Name: "a", Mandatory: true},
				{Name: "b", Mandatory: true},
				{Name: "c", Groups: []string{"g1"}},
				{Name: "d", Groups: []string{"g2"}},
			},
		}
		plan := reqgate.MustCompile(decl)
		_, err := plan.NewRequest().Build()
		iss, ok := reqgate.AsIssues(err)
		if !ok {
			t.Fatalf("expected Issues, got %v", err)
		}
		for _, want := range []struct{ code, path string }{
			{reqgate.CodeRequired, "/a"},
			{reqgate.CodeRequired, "/b"},
			{reqgate.CodeGroupCardinality, "/groups/g1"},
			{reqgate.CodeGroupCardinality, "/groups/g2"},
		} {
			if !hasIssue(iss, want.code, want.path) {
				t.Fatalf("missing %s at %s in %v", want.code, want.path, iss)
			}
		}
	})
}
