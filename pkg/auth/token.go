package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be trusted:
// malformed payload, bad signature, or expired timestamp. Callers treat
// it uniformly as "unauthenticated".
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the decoded payload of an access token
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates access tokens issued by the external token service.
// Issuance itself lives outside this system; the verifier only needs the
// shared HMAC secret.
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for HMAC-SHA256 signed tokens
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates a token. All failure modes collapse into
// ErrInvalidToken; it never panics.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode parses a token without verifying the signature. Used only for
// UI redirect decisions where a forged token gains nothing; every API
// authorization decision goes through Verify. Returns nil on any failure.
func (v *Verifier) Decode(token string) *Claims {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil || claims.UserID == "" {
		return nil
	}
	return claims
}

// Issue signs a token for the given identity. The production issuer is an
// external service; this is used by tests and local tooling.
func (v *Verifier) Issue(userID, email string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
