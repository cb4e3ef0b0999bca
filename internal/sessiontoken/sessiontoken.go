// Package sessiontoken signs and verifies a debug-session resume token,
// grounded on pkg/eval/auth_helpers.go's SignToken/VerifyToken (same
// github.com/golang-jwt/jwt/v5 MapClaims shape, generalized from app-level
// auth claims to stepper resume state).
package sessiontoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims captures where a debug session stood: the current source line,
// how deep the call stack was, and a hash of the source text the session
// was opened against. Verify returns the hash as-is; it does not compare
// it against any source text.
type Claims struct {
	CurrentLine int
	StackDepth  int
	SourceHash  string
}

// Sign produces a JWT carrying c, expiring after ttl.
func Sign(c Claims, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"current_line": c.CurrentLine,
		"stack_depth":  c.StackDepth,
		"source_hash":  c.SourceHash,
		"exp":          time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Verify validates tokenString and extracts its Claims.
func Verify(tokenString, secret string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, fmt.Errorf("invalid session token")
	}

	line, _ := claims["current_line"].(float64)
	depth, _ := claims["stack_depth"].(float64)
	hash, _ := claims["source_hash"].(string)
	return Claims{CurrentLine: int(line), StackDepth: int(depth), SourceHash: hash}, nil
}
