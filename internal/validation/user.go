package validation

import (
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateUsername requires 3-30 characters of letters, digits, '_', '.' or '-'.
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 {
		return errors.New("Username must be at least 3 characters long")
	}
	if n > 30 {
		return errors.New("Username must be at most 30 characters long")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Username may only contain letters, numbers, '_', '.' and '-'")
	}
	return nil
}

// ValidateAddress requires a trimmed address of at least 10 characters.
func ValidateAddress(address string) error {
	if utf8.RuneCountInString(strings.TrimSpace(address)) < 10 {
		return errors.New("Please enter a complete address (at least 10 characters)")
	}
	return nil
}

// ValidateProfile checks a profile update. An empty profilePic clears the picture.
func ValidateProfile(username, address, profilePic string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(address) == "" {
		return errors.New("Username and address are required")
	}
	if err := ValidateUsername(strings.TrimSpace(username)); err != nil {
		return err
	}
	if err := ValidateAddress(address); err != nil {
		return err
	}
	if profilePic != "" && !isHTTPURL(profilePic) {
		return errors.New("Profile picture must be a valid http(s) URL")
	}
	return nil
}

// ValidateEmail checks basic address syntax.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email, "@") {
		return errors.New("A valid email address is required")
	}
	return nil
}

// ValidatePassword requires 8-128 characters.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	if n < 8 {
		return errors.New("Password must be at least 8 characters long")
	}
	if n > 128 {
		return errors.New("Password must be at most 128 characters long")
	}
	return nil
}

// ValidateSignup checks a new account.
func ValidateSignup(username, email, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return ValidatePassword(password)
}
