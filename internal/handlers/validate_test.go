package handlers

import (
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name                     string
		email, password, display string
		wantErr                  bool
	}{
		{"valid", "ana@example.com", "correct horse", "Ana", false},
		{"no display name", "ana@example.com", "correct horse", "", false},
		{"empty email", "", "correct horse", "", true},
		{"display form email", "Ana <ana@example.com>", "correct horse", "", true},
		{"too long email", strings.Repeat("a", 250) + "@x.io", "correct horse", "", true},
		{"short password", "ana@example.com", "1234567", "", true},
		{"72 byte password", "ana@example.com", strings.Repeat("p", 72), "", false},
		{"73 byte password", "ana@example.com", strings.Repeat("p", 73), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateRegistration(tt.email, tt.password, tt.display)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateRegistration() = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidateTextEdit(t *testing.T) {
	if msg := validateTextEdit("", "x"); msg == "" {
		t.Error("empty selector accepted")
	}
	if msg := validateTextEdit("h1", ""); msg != "" {
		t.Errorf("empty text rejected: %q", msg)
	}
	if msg := validateTextEdit("h1", strings.Repeat("é", maxEditTextLen)); msg != "" {
		t.Errorf("text at the limit rejected: %q", msg)
	}
	if msg := validateTextEdit("h1", strings.Repeat("é", maxEditTextLen+1)); msg == "" {
		t.Error("text over the limit accepted")
	}
}

func TestValidateImageURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://images.example.com/a.jpg", false},
		{"http://images.example.com/a.jpg", false},
		{"", true},
		{"javascript:alert(1)", true},
		{"data:image/png;base64,AAAA", true},
		{"/relative/path.jpg", true},
		{"https://", true},
		{"https://example.com/" + strings.Repeat("a", maxImageURLLen), true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			msg := validateImageURL(tt.url)
			if (msg != "") != tt.wantErr {
				t.Errorf("validateImageURL(%q) = %q, wantErr %v", tt.url, msg, tt.wantErr)
			}
		})
	}
}
