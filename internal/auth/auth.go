// Package auth implements the access gate for the chat surface. Only
// a bcrypt hash of the access phrase is stored in the repository
// config, never the phrase itself.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrAccessDenied indicates the supplied phrase did not match.
var ErrAccessDenied = errors.New("access denied")

// MinPhraseLength is the minimum accepted access phrase length.
const MinPhraseLength = 8

// HashPhrase derives the storable hash for an access phrase.
func HashPhrase(phrase string) (string, error) {
	if len(phrase) < MinPhraseLength {
		return "", fmt.Errorf("access phrase must be at least %d characters", MinPhraseLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(phrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing access phrase: %w", err)
	}
	return string(hash), nil
}

// Verify checks a phrase against the stored hash. An empty stored hash
// means the gate is disabled and every phrase passes.
func Verify(storedHash, phrase string) error {
	if storedHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(phrase)); err != nil {
		return ErrAccessDenied
	}
	return nil
}

// Enabled reports whether an access phrase has been configured.
func Enabled(storedHash string) bool {
	return storedHash != ""
}
