package model

import (
	"strconv"
	"strings"
)

// The validation column of a placeholder token is a free-form mini-language.
// Flag rules (required, autofilled) match case-insensitively anywhere in the
// string; keyed rules (options:, min:, max:) are literal, case-sensitive
// substring searches, preserving the behaviour template authors rely on.
const (
	RuleRequired   = "required"
	RuleAutofilled = "autofilled"

	keyOptions = "options:"
	keyMin     = "min:"
	keyMax     = "max:"
)

// HasRule reports whether validation contains the given flag rule,
// case-insensitively.
func HasRule(validation, rule string) bool {
	return strings.Contains(strings.ToLower(validation), rule)
}

// ParseOptions extracts the choice list following "options:". Everything after
// the key is split on commas and trimmed, so a validation string should place
// the options rule last. Returns nil when the rule is absent.
func ParseOptions(validation string) []string {
	_, rest, ok := strings.Cut(validation, keyOptions)
	if !ok {
		return nil
	}
	parts := strings.Split(rest, ",")
	opts := make([]string, 0, len(parts))
	for _, p := range parts {
		opts = append(opts, strings.TrimSpace(p))
	}
	return opts
}

// ParseMin extracts the numeric lower bound following "min:". The value runs
// up to the next comma or pipe. Unparseable values yield nil.
func ParseMin(validation string) *float64 {
	return parseBound(validation, keyMin)
}

// ParseMax extracts the numeric upper bound following "max:".
func ParseMax(validation string) *float64 {
	return parseBound(validation, keyMax)
}

func parseBound(validation, key string) *float64 {
	_, rest, ok := strings.Cut(validation, key)
	if !ok {
		return nil
	}
	if i := strings.IndexByte(rest, ','); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '|'); i >= 0 {
		rest = rest[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return nil
	}
	return &v
}
