package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	hasUppercase = regexp.MustCompile(`[A-Z]`)
	hasLowercase = regexp.MustCompile(`[a-z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// ValidatePasswordStrength enforces the account password policy:
// at least 8 characters, one uppercase letter, one lowercase letter and
// one digit. The returned error message is safe to show to the user.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if !hasUppercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLowercase.MatchString(password) {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasDigit.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	return nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a bcrypt hash against a plaintext candidate.
func CheckPassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}

// Alphabet for generated temporary credentials. Ambiguous characters
// (0/O, 1/l/I) are left out so the credential survives being read aloud.
const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// GenerateTempPassword produces a random temporary credential of the given
// length that always satisfies ValidatePasswordStrength. Temporary
// credentials are surfaced once at provisioning time and must be changed on
// first login.
func GenerateTempPassword(length int) (string, error) {
	if length < 8 {
		length = 12
	}
	for {
		b := make([]byte, length)
		for i := range b {
			idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordAlphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to generate temporary password: %w", err)
			}
			b[i] = tempPasswordAlphabet[idx.Int64()]
		}
		// Re-roll on the rare draw that misses a required character class.
		if ValidatePasswordStrength(string(b)) == nil {
			return string(b), nil
		}
	}
}
