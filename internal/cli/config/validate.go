package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/leapstack-labs/fortlint/pkg/lint"
)

// MaxLineLength bounds line-length; longer limits are almost certainly a typo.
const MaxLineLength = 320

// Validate checks values that decoding alone cannot reject.
func (c *Config) Validate() error {
	var errs []error
	if n := c.Check.LineLength; n < 1 || n > MaxLineLength {
		errs = append(errs, fmt.Errorf("line-length must be between 1 and %d, got %d", MaxLineLength, n))
	}
	if len(c.Check.FileExtensions) == 0 {
		errs = append(errs, errors.New("file-extensions must not be empty"))
	}
	for code := range c.Check.Rules {
		sel, err := lint.ParseSelector(code)
		if err != nil || sel.Kind != lint.SelectorCode {
			errs = append(errs, fmt.Errorf("rules: %q is not a rule code", code))
		}
	}
	return errors.Join(errs...)
}

// ValidatePaths checks that every path given on the command line exists.
func ValidatePaths(paths []string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("path does not exist: %s", p)
			}
			return fmt.Errorf("stat %s: %w", p, err)
		}
	}
	return nil
}
