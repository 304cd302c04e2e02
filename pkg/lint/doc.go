// Package lint is the rule engine of fortlint.
//
// # Architecture
//
// A rule is a data-driven RuleDef whose Method is one of three variants:
//
//  1. NodeMethod: called for every node whose kind is one of its entrypoints
//  2. TreeMethod: called once with the root of the syntax tree
//  3. QueryMethod: structural patterns compiled once, reported per match
//
// Rules are collected into a Registry, an explicit value built once per
// invocation. A Resolver turns the select/ignore settings into a RuleSet for
// each file, and a Checker runs a RuleSet against a parsed file:
//
//	reg, err := lint.NewRegistry(settings, rules.All()...)
//	res, err := lint.NewResolver(reg, settings)
//	checker := lint.NewChecker(reg)
//	result, err := checker.Check(file, res.ForFile(file.Name))
//
// # Fixes
//
// A Violation may carry a Fix: non-overlapping edits labeled Safe or Unsafe.
// ApplyFixes applies the applicable edits of a set of violations in one
// pass and FixFile repeats check and apply until the file is stable.
package lint
