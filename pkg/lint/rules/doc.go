// Package rules provides the built-in fortlint rule catalog.
//
// Rules are organized by category, one package per group:
//   - modules: where procedures are defined (M001)
//   - typing: implicit typing (T001-T003)
//   - style: layout and naming style (S001, S061, S101)
//
// Rules are not registered globally. Build a registry from the catalog:
//
//	reg, err := lint.NewRegistry(settings, rules.All()...)
package rules
