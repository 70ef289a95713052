// Package validation holds the pure input rules gating account creation and
// login. The functions have no side effects; an empty result means valid.
package validation

import (
	"regexp"
	"strings"
)

const (
	minNameLength     = 2
	minUsernameLength = 3
	minPasswordLength = 6
)

var usernameCharset = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Registration checks the registration input and returns every violation in
// reporting order. All rules are evaluated; the username charset rule is only
// checked once the username length rule passed, so a short username is not
// reported twice.
func Registration(name, username, password string) []string {
	var violations []string

	if len(strings.TrimSpace(name)) < minNameLength {
		violations = append(violations, "Name must be at least 2 characters")
	}

	if len(strings.TrimSpace(username)) < minUsernameLength {
		violations = append(violations, "Username must be at least 3 characters")
	} else if !usernameCharset.MatchString(username) {
		violations = append(violations, "Username may only contain letters, numbers, and underscores")
	}

	// The password is taken as-is. Trimming would silently change the
	// credential the user typed.
	if len(password) < minPasswordLength {
		violations = append(violations, "Password must be at least 6 characters")
	}

	return violations
}

// Login checks the login input. Both fields are simply required; format and
// length rules only apply at registration time.
func Login(username, password string) []string {
	var violations []string

	if username == "" {
		violations = append(violations, "Username is required")
	}
	if password == "" {
		violations = append(violations, "Password is required")
	}

	return violations
}
