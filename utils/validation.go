package utils

import (
	"regexp"
	"strings"
)

const (
	// MinHandleLength is the shortest accepted wallet handle, without the @ prefix
	MinHandleLength = 3
	// MaxHandleLength is the longest wallet handle kept, without the @ prefix
	MaxHandleLength = 20
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// Password validation regex patterns
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasNumber  = regexp.MustCompile(`[0-9]`)
	hasSpecial = regexp.MustCompile(`[@$!%*?&]`)
	validChars = regexp.MustCompile(`^[A-Za-z\d@$!%*?&]+$`)
)

// CleanHandle lowercases the input, drops everything outside [a-z0-9_] and truncates to MaxHandleLength.
func CleanHandle(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) > MaxHandleLength {
		clean = clean[:MaxHandleLength]
	}
	return clean
}

// NormalizeHandle returns the cleaned handle with the @ prefix. ok is false when fewer than
// MinHandleLength characters remain.
func NormalizeHandle(input string) (handle string, ok bool) {
	clean := CleanHandle(input)
	if len(clean) < MinHandleLength {
		return "", false
	}
	return "@" + clean, true
}

// ValidateEmail checks if the email is valid
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	if !hasLower.MatchString(password) {
		return false, "Password must contain at least one lowercase letter"
	}

	if !hasUpper.MatchString(password) {
		return false, "Password must contain at least one uppercase letter"
	}

	if !hasNumber.MatchString(password) {
		return false, "Password must contain at least one number"
	}

	if !hasSpecial.MatchString(password) {
		return false, "Password must contain at least one special character (@$!%*?&)"
	}

	if !validChars.MatchString(password) {
		return false, "Password can only contain letters, numbers, and special characters (@$!%*?&)"
	}

	return true, ""
}
