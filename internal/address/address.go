// Package address normalizes the phone numbers and email handles found in an
// iPhone message store so they can be compared and displayed consistently.
//
// Phone numbers are stored in whatever format the carrier or the user typed
// ("+1 (555) 123-4567", "5551234567", "15551234567"), so all comparisons go
// through Truncate, which keeps only the last KeyDigits digits. Emails are
// compared verbatim.
package address

import (
	"fmt"
	"regexp"
	"strings"
)

// KeyDigits is the number of trailing digits kept by Truncate.
const KeyDigits = 10

// nonDigitRe matches any non-digit character.
var nonDigitRe = regexp.MustCompile(`[^\d]`)

// phoneCharsRe matches strings with no ASCII letters and no '@'.
var phoneCharsRe = regexp.MustCompile(`^[^a-zA-Z@]+$`)

// Strip removes every non-digit character from s.
func Strip(s string) string {
	if s == "" {
		return ""
	}
	return nonDigitRe.ReplaceAllString(s, "")
}

// Truncate strips s and returns at most its last KeyDigits digits.
// Truncate(Truncate(s)) == Truncate(s).
func Truncate(s string) string {
	digits := Strip(s)
	if len(digits) > KeyDigits {
		return digits[len(digits)-KeyDigits:]
	}
	return digits
}

// IsEmail reports whether s looks like an email handle.
func IsEmail(s string) bool {
	return strings.Contains(s, "@")
}

// Key returns the comparison key for s: emails unchanged (case-sensitive),
// phone numbers truncated.
func Key(s string) string {
	if IsEmail(s) {
		return s
	}
	return Truncate(s)
}

// FormatPhone returns a display form of a phone number.
//
// US numbering plan only:
//   - fewer than 10 digits: the stripped digits, unpunctuated
//   - 10 digits, or 11 digits starting with 1: "(555) 123-4567"
//   - anything else: s unchanged
func FormatPhone(s string) string {
	ph := Strip(s)
	switch {
	case len(ph) < KeyDigits:
		return ph
	case len(ph) == KeyDigits, len(ph) == KeyDigits+1 && ph[0] == '1':
		last := ph[len(ph)-KeyDigits:]
		return fmt.Sprintf("(%s) %s-%s", last[0:3], last[3:6], last[6:])
	default:
		return s
	}
}

// FormatAddress leaves email handles alone and formats everything else as a
// phone number.
func FormatAddress(s string) string {
	if IsEmail(s) {
		return s
	}
	return FormatPhone(s)
}

// IsValidPhone reports whether s is acceptable as a user-supplied phone
// number: no letters, no '@', and at least 3 digits.
func IsValidPhone(s string) bool {
	if !phoneCharsRe.MatchString(s) {
		return false
	}
	return len(Strip(s)) >= 3
}

// ConfigError describes an invalid user-supplied option value. It is
// reported before any database access.
type ConfigError struct {
	Option string // flag or config key, e.g. "--alias"
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Option, e.Value, e.Reason)
}

// ValidatePhones returns a *ConfigError for the first value that is not a
// valid phone number.
func ValidatePhones(option string, values []string) error {
	for _, v := range values {
		if !IsValidPhone(v) {
			return &ConfigError{Option: option, Value: v, Reason: "not a valid phone number"}
		}
	}
	return nil
}
