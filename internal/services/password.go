package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"busbackend/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input beyond 72 bytes and GenerateFromPassword rejects it.
	maxPasswordBytes = 72
	weakPasswordMsg  = "weak password: it must contain at least 8 characters using letters and numbers"

	djangoPBKDF2Prefix = "pbkdf2_sha256$"
)

// ValidatePasswordStrength requires at least 8 characters with a letter and a digit.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return domain.ValidationError{Field: "not_hashed_password", Msg: weakPasswordMsg}
	}
	if len(password) > maxPasswordBytes {
		return domain.ValidationError{Field: "not_hashed_password", Msg: "password must be at most " + strconv.Itoa(maxPasswordBytes) + " bytes long"}
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.ValidationError{Field: "not_hashed_password", Msg: weakPasswordMsg}
	}
	return nil
}

// ValidateNewPassword checks strength and that both fields match.
func ValidateNewPassword(password, repeat string) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	if password != repeat {
		return domain.ValidationError{Field: "not_hashed_password_repeat", Msg: "passwords do not match"}
	}
	return nil
}

// PasswordHasher hashes new passwords and verifies stored ones.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// DefaultHasher writes bcrypt hashes and also verifies the Django
// pbkdf2_sha256 format used by the external identity system.
type DefaultHasher struct {
	Cost int
}

func (h DefaultHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h DefaultHasher) Verify(hash, password string) bool {
	if strings.HasPrefix(hash, djangoPBKDF2Prefix) {
		ok, err := verifyDjangoPBKDF2(hash, password)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// dummyHash is compared against when the username is unknown so both failure
// paths cost one hash verification.
var dummyHash = func() string {
	b, _ := bcrypt.GenerateFromPassword([]byte("dummy-password-0"), bcrypt.DefaultCost)
	return string(b)
}()

var errMalformedHash = errors.New("malformed pbkdf2 hash")

// verifyDjangoPBKDF2 checks "pbkdf2_sha256$<iterations>$<salt>$<base64 sha256>".
func verifyDjangoPBKDF2(encoded, password string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 {
		return false, errMalformedHash
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false, errMalformedHash
	}
	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return false, errMalformedHash
	}
	got := pbkdf2.Key([]byte(password), []byte(parts[2]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// EncodeDjangoPBKDF2 produces a hash in the Django format.
func EncodeDjangoPBKDF2(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return djangoPBKDF2Prefix + strconv.Itoa(iterations) + "$" + salt + "$" + base64.StdEncoding.EncodeToString(key)
}
