package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the payload carried by a verified token. It is the token's view
// of the user at signing time; callers that need the current user record must
// re-resolve against the users table.
type Identity struct {
	ID       uint64
	Username string
	Email    string
}

// Manager signs and verifies identity tokens. Tokens are HS256-signed and
// carry no expiry claim, matching the bearer credential contract: verification
// is purely cryptographic and stateless.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Generate creates a signed token encoding the user's id, username and email.
func (m *Manager) Generate(id uint64, username, email string) (string, error) {
	claims := jwt.MapClaims{
		"id":       id,
		"username": username,
		"email":    email,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and checks the token signature. Malformed, unsigned or
// tampered tokens yield nil; verification never panics or surfaces an error
// to the caller boundary.
func (m *Manager) Verify(tokenStr string) *Identity {
	parsed, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	id, ok := claims["id"].(float64) // JWT numbers decode as float64
	if !ok {
		return nil
	}

	identity := &Identity{ID: uint64(id)}
	if username, ok := claims["username"].(string); ok {
		identity.Username = username
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}

	return identity
}
