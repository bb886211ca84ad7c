package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/retailmart/retailmart/internal/models"
)

const (
	passwordMinLen = 8
	passwordMaxLen = 128
)

// PasswordChecker validates password strength: accept or reject with reasons.
type PasswordChecker interface {
	CheckPassword(password string) error
}

// StrengthChecker is the default PasswordChecker
type StrengthChecker struct{}

// NewStrengthChecker creates new StrengthChecker instance
func NewStrengthChecker() *StrengthChecker {
	return &StrengthChecker{}
}

// CheckPassword rejects passwords that are too short, too long, entirely
// numeric or entirely alphabetic
func (sc *StrengthChecker) CheckPassword(password string) error {
	reasons := []string{}

	if len(password) < passwordMinLen {
		reasons = append(reasons, fmt.Sprintf("must be at least %d characters", passwordMinLen))
	}
	if len(password) > passwordMaxLen {
		reasons = append(reasons, fmt.Sprintf("must be at most %d characters", passwordMaxLen))
	}

	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		reasons = append(reasons, "must contain a letter")
	}
	if !hasDigit {
		reasons = append(reasons, "must contain a digit")
	}

	if len(reasons) > 0 {
		return fmt.Errorf("%w: %s", models.ErrWeakPassword, strings.Join(reasons, "; "))
	}

	return nil
}
