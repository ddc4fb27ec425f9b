package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost of the provisioned baseline hashes.
const DefaultBcryptCost = 10

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
// A mismatch returns bcrypt.ErrMismatchedHashAndPassword; a malformed hash returns another error.
func ComparePassword(hashed, plain string) error {
	if hashed == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
