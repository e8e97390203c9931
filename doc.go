package reqgate

// Package reqgate verifies, ahead of finalizing an object, that a declared
// set of required inputs has been satisfied:
//
// - Mandatory fields that must always be supplied before Build succeeds
// - Named groups of optional fields governed by a joint cardinality rule
//   (exact(n) / at_least(n) / at_most(n))
// - A stable diagnostic model via Issues (path, code, message, severity)
//
// Design policy:
// - Keep only public APIs in the root package; declaration surfaces live
//   under dsl/ and config/, and the CLI under cmd/reqgate.
// - Declarations are plain data (EntityDecl); Compile is a pure function
//   over them that returns an immutable Plan plus collected diagnostics.
// - Per-attempt state is linear: every Set consumes the prior Request and
//   yields a new one. A Plan is safe to share across goroutines; a Request
//   is not.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	plan := reqgate.MustCompile(decl)
//	r := plan.NewRequest()
//	r, _ = r.Set("bar", "hello")
//	out, err := r.Build()
