// Package util holds small shared helpers with no domain dependencies.
package util

import "strings"

// SplitFullName splits a full name on whitespace: the first token becomes
// the first name, the remainder joined by single spaces becomes the last
// name. An empty or blank name yields two empty strings.
func SplitFullName(fullName string) (firstName, lastName string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}

	return parts[0], strings.Join(parts[1:], " ")
}
