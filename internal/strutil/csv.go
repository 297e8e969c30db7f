// SPDX-License-Identifier: MIT
// Package strutil holds small string helpers shared by the command layer.
package strutil

import "strings"

// SplitCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
