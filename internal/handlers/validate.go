package handlers

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for account and edit inputs.
const (
	maxEmailLen       = 254
	minPasswordLen    = 8
	maxPasswordLen    = 72 // bcrypt ignores anything longer
	maxDisplayNameLen = 100
	maxEditTextLen    = 5_000
	maxImageURLLen    = 2_048
)

// validateRegistration checks sign-up inputs and returns the first error found.
func validateRegistration(email, password, displayName string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if len(email) > maxEmailLen {
		return "Email is too long (max 254 characters)."
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "Email is not a valid address."
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 8 characters."
	}
	if len(password) > maxPasswordLen {
		return "Password is too long (max 72 bytes)."
	}
	if utf8.RuneCountInString(strings.TrimSpace(displayName)) > maxDisplayNameLen {
		return "Display name is too long (max 100 characters)."
	}
	return ""
}

// validateTextEdit checks a text edit request.
func validateTextEdit(selector, text string) string {
	if strings.TrimSpace(selector) == "" {
		return "Selector is required."
	}
	if utf8.RuneCountInString(text) > maxEditTextLen {
		return "Text is too long (max 5,000 characters)."
	}
	return ""
}

// validateImageURL checks that an image edit points at an absolute
// http(s) URL.
func validateImageURL(raw string) string {
	if raw == "" {
		return "Image URL is required."
	}
	if len(raw) > maxImageURLLen {
		return "Image URL is too long."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "Image URL must be an absolute http or https URL."
	}
	return ""
}
