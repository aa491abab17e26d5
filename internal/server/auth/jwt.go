// Package auth implements the credential primitives of the server: signed
// bearer tokens carrying an identity claim, and one-way password hashing.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/verkhov/picvault/internal/common"
)

// Identity is the public-safe projection of a user embedded in tokens.
// It never carries the password hash.
type Identity struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// Claims is the JWT claims structure: the registered claims plus the
// identity projection of the authenticated user.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string
	Email     string
	FirstName string
	LastName  string
}

// GenerateToken mints an HS256-signed token embedding the identity claim
// with an expiry of now + validityDuration.
func GenerateToken(identity Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID:    identity.UserID,
		Email:     identity.Email,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetIdentityFromToken verifies the signature and expiry of tokenString and
// returns the embedded identity claim. Malformed, tampered and expired
// tokens all come back as common.ErrInvalidToken; callers must not
// distinguish between these cases.
func GetIdentityFromToken(tokenString string, secretKey []byte) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		return Identity{}, common.ErrInvalidToken
	}

	if !token.Valid {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{
		UserID:    claims.UserID,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	}, nil
}
