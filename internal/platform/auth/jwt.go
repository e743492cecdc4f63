package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the single claim a travel token embeds: the username the
// token was issued for. Tokens are stateless and have no expiry; validity is
// signature plus claim equality.
type Claims struct {
	User string `json:"user"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token bound to username. It never touches
// persisted state.
func IssueToken(username, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{User: username})
	return token.SignedString([]byte(secret))
}

func Parse(tokenString, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}
	if claims, ok := tok.Claims.(*Claims); ok && tok.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// VerifyBearer validates an Authorization header value of the form
// "<scheme> <token>" against the username named in the request path. The
// claim comparison is case-sensitive. Any malformed header, bad signature or
// claim mismatch reports false; callers treat that as an invalid user token.
func VerifyBearer(headerValue, expectedUsername, secret string) bool {
	parts := strings.Fields(headerValue)
	if len(parts) < 2 {
		return false
	}
	claims, err := Parse(parts[1], secret)
	if err != nil {
		return false
	}
	return claims.User == expectedUsername
}
