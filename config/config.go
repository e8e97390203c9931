// Package config loads YAML requirement manifests and lowers them into
// reqgate entity declarations. The manifest mirrors the marker surface:
//
//	entities:
//	  - name: Foo
//	    assume_mandatory: true
//	    solver: brute_force
//	    groups:
//	      quz: exact(1)
//	      opts: at_most(2)
//	    fields:
//	      - name: bar
//	        group: quz
//	      - name: qux
//	        mandatory: true
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	reqgate "github.com/reqgate/reqgate"
)

// Manifest is the top-level YAML document.
type Manifest struct {
	Entities []Entity `yaml:"entities"`
}

// Entity mirrors one entity declaration in manifest form.
type Entity struct {
	Name            string    `yaml:"name"`
	AssumeMandatory bool      `yaml:"assume_mandatory"`
	Solver          string    `yaml:"solver"` // brute_force | compiler (default)
	Groups          GroupList `yaml:"groups"`
	Fields          []Field   `yaml:"fields"`
}

// GroupList preserves manifest declaration order, which a plain map would
// lose, and keeps duplicate keys visible to the registry instead of letting
// the YAML decoder fold them.
type GroupList []GroupRule

// GroupRule is one `name: rule` pair from the groups block.
type GroupRule struct {
	Name string
	Rule string
}

// UnmarshalYAML decodes the groups mapping node pairwise.
func (g *GroupList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("groups: expected a mapping, got %s", value.Tag)
	}
	out := make(GroupList, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		out = append(out, GroupRule{Name: value.Content[i].Value, Rule: value.Content[i+1].Value})
	}
	*g = out
	return nil
}

// Field mirrors one field declaration in manifest form. The tri-state
// pointers distinguish `mandatory: false` from an absent marker; both lower
// to "unmarked".
type Field struct {
	Name      string     `yaml:"name"`
	Mandatory *bool      `yaml:"mandatory"`
	Optional  *bool      `yaml:"optional"`
	Skip      *bool      `yaml:"skip"`
	Nullable  bool       `yaml:"nullable"`
	Group     StringList `yaml:"group"`
	Propagate bool       `yaml:"propagate"`
	Into      bool       `yaml:"into"`
	AsRef     bool       `yaml:"as_ref"`
	AsMut     bool       `yaml:"as_mut"`
}

// StringList accepts either a scalar or a sequence, so `group: quz` and
// `group: [quz, opts]` both work.
type StringList []string

// UnmarshalYAML implements the scalar-or-sequence decoding.
func (s *StringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = StringList{value.Value}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*s = list
	return nil
}

var ruleRe = regexp.MustCompile(`^(exact|at_least|at_most)\((\d+)\)$`)

// ParseRule parses a cardinality rule in manifest spelling:
// exact(n), at_least(n), at_most(n), or single (sugar for exact(1)).
func ParseRule(s string) (reqgate.Cardinality, error) {
	if s == "single" {
		return reqgate.Single(), nil
	}
	m := ruleRe.FindStringSubmatch(s)
	if m == nil {
		return reqgate.Cardinality{}, fmt.Errorf("invalid cardinality rule %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return reqgate.Cardinality{}, fmt.Errorf("invalid cardinality rule %q: %w", s, err)
	}
	switch m[1] {
	case "exact":
		return reqgate.Exact(n), nil
	case "at_least":
		return reqgate.AtLeast(n), nil
	default:
		return reqgate.AtMost(n), nil
	}
}

func parseSolver(s string) (reqgate.SolverKind, error) {
	switch s {
	case "", "compiler":
		return reqgate.SolverCounting, nil
	case "brute_force":
		return reqgate.SolverEnumeration, nil
	}
	return 0, fmt.Errorf("invalid solver %q (want brute_force or compiler)", s)
}

// Parse decodes a manifest document and lowers every entity into a raw
// declaration. Lowering problems across all entities are aggregated so one
// run reports everything.
func Parse(data []byte) ([]reqgate.EntityDecl, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	var decls []reqgate.EntityDecl
	var errs error
	for _, e := range m.Entities {
		decl, err := lower(e)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entity %q: %w", e.Name, err))
			continue
		}
		decls = append(decls, decl)
	}
	if errs != nil {
		return nil, errs
	}
	return decls, nil
}

// Load reads and parses one manifest file.
func Load(path string) ([]reqgate.EntityDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func lower(e Entity) (reqgate.EntityDecl, error) {
	decl := reqgate.EntityDecl{Name: e.Name}
	var errs error

	solver, err := parseSolver(e.Solver)
	if err != nil {
		errs = multierr.Append(errs, err)
	}
	decl.Policy = reqgate.Policy{AssumeMandatory: e.AssumeMandatory, Solver: solver}

	for _, g := range e.Groups {
		rule, err := ParseRule(g.Rule)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("group %q: %w", g.Name, err))
			continue
		}
		decl.Groups = append(decl.Groups, reqgate.GroupDecl{Name: g.Name, Rule: rule})
	}

	deref := func(b *bool) bool { return b != nil && *b }
	for _, f := range e.Fields {
		decl.Fields = append(decl.Fields, reqgate.FieldDecl{
			Name:      f.Name,
			Mandatory: deref(f.Mandatory),
			Optional:  deref(f.Optional),
			Skip:      deref(f.Skip),
			Nullable:  f.Nullable,
			Groups:    f.Group,
			Setter: reqgate.SetterShape{
				Propagate: f.Propagate,
				Into:      f.Into,
				AsRef:     f.AsRef,
				AsMut:     f.AsMut,
			},
		})
	}

	if errs != nil {
		return reqgate.EntityDecl{}, errs
	}
	return decl, nil
}

// CompileAll compiles every declaration, aggregating per-entity failures so
// a broken manifest reports all of its problems in one pass.
func CompileAll(decls []reqgate.EntityDecl) ([]*reqgate.Plan, error) {
	plans := make([]*reqgate.Plan, 0, len(decls))
	var errs error
	for _, d := range decls {
		p, err := reqgate.Compile(d)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entity %q: %w", d.Name, err))
			continue
		}
		plans = append(plans, p)
	}
	if errs != nil {
		return nil, errs
	}
	return plans, nil
}
