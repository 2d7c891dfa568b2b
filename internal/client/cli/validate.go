package cli

import "regexp"

// Validation messages shown inline on the auth forms. Validation failures
// block submission before any network call is issued.
const (
	MsgInvalidEmail     = "Please enter a valid email address"
	MsgPasswordTooShort = "Password must be at least 8 characters long"
	MsgPasswordMismatch = "Passwords do not match"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validEmail reports whether s has the shape of an email address.
func validEmail(s string) bool {
	return emailRe.MatchString(s)
}

// validateSignUp runs the client-side sign-up checks in their fixed order and
// returns the first failing message, or "" when the input is acceptable.
func validateSignUp(email, password, confirmation string) string {
	if !validEmail(email) {
		return MsgInvalidEmail
	}
	if password != confirmation {
		return MsgPasswordMismatch
	}
	if len(password) < 8 {
		return MsgPasswordTooShort
	}
	return ""
}
