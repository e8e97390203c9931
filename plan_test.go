package reqgate_test

import (
	"sync"
	"testing"

	reqgate "github.com/reqgate/reqgate"
)

func TestPlan_Describe(t *testing.T) {
	plan := reqgate.MustCompile(reqgate.EntityDecl{
		Name:   "Account",
		Policy: reqgate.Policy{Solver: reqgate.SolverEnumeration},
		Groups: []reqgate.GroupDecl{{Name: "contact", Rule: reqgate.AtLeast(1)}},
		Fields: []reqgate.FieldDecl{
			{Name: "id", Mandatory: true},
			{Name: "email", Groups: []string{"contact"}},
			{Name: "phone", Groups: []string{"contact"}},
			{Name: "nickname", Optional: true},
			{Name: "internal", Skip: true},
		},
	})
	d := plan.Describe()
	if d.Name != "Account" || d.Solver != "brute_force" {
		t.Fatalf("header: %+v", d)
	}
	if len(d.Fields) != 5 {
		t.Fatalf("fields: %+v", d.Fields)
	}
	if d.Fields[0].Kind != "mandatory" || d.Fields[4].Kind != "skipped" {
		t.Fatalf("kinds: %+v", d.Fields)
	}
	if len(d.Groups) != 1 || d.Groups[0].Rule != "at_least(1)" {
		t.Fatalf("groups: %+v", d.Groups)
	}
	if len(d.Groups[0].Members) != 2 || d.Groups[0].Members[0] != "email" {
		t.Fatalf("members: %+v", d.Groups[0].Members)
	}
}

func TestPlan_WarningsAreRetainedAndCopied(t *testing.T) {
	plan := reqgate.MustCompile(reqgate.EntityDecl{
		Name:   "Foo",
		Groups: []reqgate.GroupDecl{{Name: "g", Rule: reqgate.AtLeast(0)}},
		Fields: []reqgate.FieldDecl{{Name: "a", Groups: []string{"g"}}},
	})
	w := plan.Warnings()
	if len(w) != 1 || w[0].Code != reqgate.CodeGroupNoEffect {
		t.Fatalf("warnings: %v", w)
	}
	w[0].Code = "mutated"
	if plan.Warnings()[0].Code != reqgate.CodeGroupNoEffect {
		t.Fatalf("Warnings must return a copy")
	}
}

func TestPlan_ConcurrentRequestsAreIndependent(t *testing.T) {
	plan := reqgate.MustCompile(reqgate.EntityDecl{
		Name:   "Foo",
		Fields: []reqgate.FieldDecl{{Name: "a", Mandatory: true}},
	})
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := plan.NewRequest()
			r, err := r.Set("a", i)
			if err != nil {
				t.Errorf("set: %v", err)
				return
			}
			out, err := r.Build()
			if err != nil {
				t.Errorf("build: %v", err)
				return
			}
			if out["a"] != i {
				t.Errorf("payload crossed attempts: got %v want %d", out["a"], i)
			}
		}(i)
	}
	wg.Wait()
}

// Once a state is build-eligible, supplying more fields never revokes
// eligibility for mandatory and at_least constraints; flags only move from
// false to true.
func TestBuild_MonotoneForLowerBoundRules(t *testing.T) {
	bothSolvers(t, func(t *testing.T, kind reqgate.SolverKind) {
		plan := reqgate.MustCompile(reqgate.EntityDecl{
			Name:   "Foo",
			Policy: reqgate.Policy{Solver: kind},
			Groups: []reqgate.GroupDecl{{Name: "g", Rule: reqgate.AtLeast(1)}},
			Fields: []reqgate.FieldDecl{
				{Name: "m", Mandatory: true},
				{Name: "a", Groups: []string{"g"}},
				{Name: "b", Groups: []string{"g"}},
				{Name: "c", Groups: []string{"g"}},
			},
		})
		supply := []string{"m", "a", "b", "c"}
		// "m" + "a" is eligible; every superset must remain eligible
		for n := 2; n <= len(supply); n++ {
			r := plan.NewRequest()
			for _, f := range supply[:n] {
				r = mustSet(t, r, f, 1)
			}
			if _, err := r.Build(); err != nil {
				t.Fatalf("state with %v must stay eligible: %v", supply[:n], err)
			}
		}
	})
}
