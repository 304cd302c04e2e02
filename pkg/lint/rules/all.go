package rules

import (
	"slices"

	"github.com/leapstack-labs/fortlint/pkg/lint"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules/modules"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules/style"
	"github.com/leapstack-labs/fortlint/pkg/lint/rules/typing"
)

// All returns the constructors of every built-in rule.
func All() []lint.RuleFunc {
	return slices.Concat(modules.Rules, typing.Rules, style.Rules)
}

// Default builds the registry of every built-in rule.
func Default(s *lint.Settings) (*lint.Registry, error) {
	return lint.NewRegistry(s, All()...)
}
