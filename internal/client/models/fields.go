package models

import (
	"strings"
	"time"
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// DateOnly truncates a service timestamp (RFC3339 or similar) to its day
// part for display and editing.
func DateOnly(s string) string {
	day, _, _ := strings.Cut(s, "T")
	return day
}

// checkDate validates an optional date field: empty is fine, otherwise the
// value must parse as DateLayout and must not lie in the future.
func checkDate(s string, now time.Time) string {
	if s == "" {
		return ""
	}
	d, err := time.Parse(DateLayout, DateOnly(s))
	if err != nil {
		return "Fecha inválida"
	}
	if d.After(now) {
		return "La fecha no puede ser futura"
	}
	return ""
}
