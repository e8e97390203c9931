package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"go.uber.org/multierr"

	reqgate "github.com/reqgate/reqgate"
	"github.com/reqgate/reqgate/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "vet":
		vetCmd(os.Args[2:])
	case "describe":
		describeCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "reqgate CLI\n\nUsage:\n  reqgate vet -f manifest.yaml [-json]\n  reqgate describe -f manifest.yaml [-entity Name]\n\nNotes:\n  - vet compiles every entity and reports all configuration problems together.\n  - describe prints the compiled verification model as JSON.")
}

// diag is the wire shape for one reported issue.
type diag struct {
	Entity   string         `json:"entity,omitempty"`
	Path     string         `json:"path"`
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Hint     string         `json:"hint,omitempty"`
	Severity string         `json:"severity"`
	Params   map[string]any `json:"params,omitempty"`
}

func vetCmd(args []string) {
	fs := flag.NewFlagSet("vet", flag.ExitOnError)
	var file string
	var asJSON bool
	fs.StringVar(&file, "f", "", "manifest file")
	fs.BoolVar(&asJSON, "json", false, "emit diagnostics as JSON")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}

	decls, err := config.Load(file)
	if err != nil {
		fail(err, asJSON)
	}
	plans, err := config.CompileAll(decls)
	if err != nil {
		fail(err, asJSON)
	}

	warned := false
	for _, p := range plans {
		for _, d := range toDiags(p.Name(), p.Warnings()) {
			warned = true
			emit(d, asJSON)
		}
	}
	if !warned {
		fmt.Fprintf(os.Stderr, "ok: %d entities, no diagnostics\n", len(plans))
	}
}

func describeCmd(args []string) {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	var file, entity string
	fs.StringVar(&file, "f", "", "manifest file")
	fs.StringVar(&entity, "entity", "", "limit output to one entity")
	_ = fs.Parse(args)
	if file == "" {
		fs.Usage()
		os.Exit(2)
	}

	decls, err := config.Load(file)
	if err != nil {
		fail(err, false)
	}
	plans, err := config.CompileAll(decls)
	if err != nil {
		fail(err, false)
	}

	out := make([]reqgate.Description, 0, len(plans))
	for _, p := range plans {
		if entity != "" && p.Name() != entity {
			continue
		}
		out = append(out, p.Describe())
	}
	if entity != "" && len(out) == 0 {
		fmt.Fprintf(os.Stderr, "no entity %q in %s\n", entity, file)
		os.Exit(1)
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fail(err, false)
	}
	fmt.Println(string(b))
}

// fail prints every underlying problem (multierr-aggregated, Issues-typed or
// plain) and exits non-zero.
func fail(err error, asJSON bool) {
	for _, e := range multierr.Errors(err) {
		if iss, ok := reqgate.AsIssues(e); ok {
			for _, d := range toDiags(entityPrefix(e.Error()), iss) {
				emit(d, asJSON)
			}
			continue
		}
		emit(diag{Path: "/", Code: reqgate.CodeParseError, Message: e.Error(), Severity: "error"}, asJSON)
	}
	os.Exit(1)
}

// entityPrefix recovers the entity name from a wrapped `entity "Name": ...`
// message, if present.
func entityPrefix(msg string) string {
	const pre = `entity "`
	if !strings.HasPrefix(msg, pre) {
		return ""
	}
	rest := msg[len(pre):]
	if i := strings.IndexByte(rest, '"'); i >= 0 {
		return rest[:i]
	}
	return ""
}

func toDiags(entity string, iss reqgate.Issues) []diag {
	out := make([]diag, 0, len(iss))
	for _, it := range iss {
		sev := "error"
		if it.Severity == reqgate.Warn {
			sev = "warning"
		}
		out = append(out, diag{
			Entity:   entity,
			Path:     it.Path,
			Code:     it.Code,
			Message:  it.Message,
			Hint:     it.Hint,
			Severity: sev,
			Params:   it.Params,
		})
	}
	return out
}

func emit(d diag, asJSON bool) {
	if asJSON {
		b, err := json.Marshal(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal: %v\n", err)
			return
		}
		fmt.Println(string(b))
		return
	}
	if d.Entity != "" {
		fmt.Fprintf(os.Stderr, "%s: %s: %s at %s: %s\n", d.Severity, d.Entity, d.Code, d.Path, d.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s at %s: %s\n", d.Severity, d.Code, d.Path, d.Message)
}
