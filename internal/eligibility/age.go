package eligibility

import (
	"fmt"
	"strconv"
	"strings"
)

type AgeResult struct {
	Eligible bool
	Label    string
}

// EvaluateAge checks an age against a limit expression: "OPEN" or empty,
// "U<n>" (age <= n) or "<n>+" (age >= n). A missing age or an expression
// that cannot be parsed is eligible and labelled with the raw expression.
func EvaluateAge(limit string, age *int) AgeResult {
	raw := strings.TrimSpace(limit)
	norm := strings.ToUpper(raw)

	if norm == "" || norm == "OPEN" {
		return AgeResult{Eligible: true, Label: "Open category"}
	}
	if age == nil {
		return AgeResult{Eligible: true, Label: raw}
	}

	if strings.HasPrefix(norm, "U") {
		if max, ok := parseDigits(norm[1:]); ok {
			return AgeResult{Eligible: *age <= max, Label: fmt.Sprintf("Under %d", max)}
		}
	}
	if strings.HasSuffix(norm, "+") {
		if min, ok := parseDigits(strings.TrimSuffix(norm, "+")); ok {
			return AgeResult{Eligible: *age >= min, Label: fmt.Sprintf("%d+ years", min)}
		}
	}

	return AgeResult{Eligible: true, Label: raw}
}

// AgeLabel is the display label of a limit expression.
func AgeLabel(limit string) string {
	zero := 0
	return EvaluateAge(limit, &zero).Label
}

func parseDigits(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
