package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Dots And Dashes", "jane.doe-1", false},
		{"Too Short", "tu", true},
		{"Exactly Min", "abc", false},
		{"Exactly Max", strings.Repeat("a", 30), false},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Spaces", "john doe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateProfile(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateProfile("alice", "12 Market Street, Springfield", ""))
	assert.NoError(t, ValidateProfile("alice", "12 Market Street, Springfield", "https://cdn.example.com/a.png"))

	assert.ErrorContains(t, ValidateProfile("", "12 Market Street", ""), "Username and address are required")
	assert.ErrorContains(t, ValidateProfile("al", "12 Market Street", ""), "at least 3 characters")
	assert.ErrorContains(t, ValidateProfile("alice", "   short   ", ""), "complete address")
	assert.ErrorContains(t, ValidateProfile("alice", "12 Market Street", "not-a-url"), "Profile picture")
}

func TestValidateSignup(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSignup("alice", "alice@example.com", "longenough"))
	assert.ErrorContains(t, ValidateSignup("alice", "not-an-email", "longenough"), "email")
	assert.ErrorContains(t, ValidateSignup("alice", "Alice <alice@example.com>", "longenough"), "email")
	assert.ErrorContains(t, ValidateSignup("alice", "alice@example.com", "short"), "at least 8")
	assert.Error(t, ValidatePassword(strings.Repeat("p", 129)))
}
