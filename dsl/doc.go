// Package dsl provides a fluent declaration builder for reqgate.
//
// Overview
//   - Builder API: declare an entity's requirement surface (mandatory fields,
//     optional fields, groups with cardinality rules) with
//     Entity()/Field()/Group()/Compile().
//   - The builder only collects raw declarations; Compile lowers them into a
//     plain reqgate.EntityDecl and hands it to reqgate.Compile, which runs
//     classification and group validation as pure functions and returns all
//     diagnostics together.
//
// Entry points
//   - Entity(name): create a builder; chain Group/Field/marker calls, then
//     Compile()/MustCompile().
//   - Decl(): obtain the raw declaration without compiling, for callers that
//     want to inspect or merge declarations first.
//
// Example (quickstart)
//
//	plan := dsl.Entity("Foo").
//		Group("quz", reqgate.Exact(1)).
//		Field("bar").Group("quz").
//		Field("baz").Group("quz").
//		Field("qux").Mandatory().
//		MustCompile()
package dsl
