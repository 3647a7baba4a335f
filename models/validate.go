package models

import "strings"

// ValidationError aggregates every violated field rule into one message.
// The message is surfaced verbatim to the requester.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, ", ")
}

// rule pairs a field requirement with the message reported when it fails.
// Rules are checked in declaration order and all failures are aggregated.
type rule struct {
	message string
	failed  func() bool
}

func checkRules(rules []rule) error {
	var violations []string
	for _, r := range rules {
		if r.failed() {
			violations = append(violations, r.message)
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
