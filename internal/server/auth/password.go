package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost is the adaptive work factor for password hashing.
const bcryptCost = 10

// HashPassword derives a salted one-way verifier from the plaintext password.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored verifier.
// The comparison is constant-time; any internal hashing error counts as a
// mismatch rather than a failure.
func CheckPassword(plaintext, verifier string) bool {
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(plaintext)) == nil
}
