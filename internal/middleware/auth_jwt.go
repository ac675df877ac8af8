package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// OperatorCookie carries the operator token for browser sessions.
const OperatorCookie = "operator_token"

const operatorSubject = "operator"

// OperatorClaims identify an authenticated order reviewer.
type OperatorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignOperatorToken issues an HS256 token valid for ttl.
func SignOperatorToken(secret string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("operator secret is required")
	}
	claims := OperatorClaims{
		Role: operatorSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operatorSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyOperatorToken validates signature, expiry and role.
func VerifyOperatorToken(secret, raw string) (*OperatorClaims, error) {
	claims := &OperatorClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != operatorSubject {
		return nil, errors.New("invalid operator token")
	}
	return claims, nil
}

// OperatorTokenFromRequest reads a bearer token, falling back to the cookie.
func OperatorTokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if c, err := r.Cookie(OperatorCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireOperator rejects requests without a valid operator token. When
// onMissing is non-nil it handles the rejection instead of the JSON 401.
func RequireOperator(secret string, onMissing http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := OperatorTokenFromRequest(r)
			if raw != "" {
				if _, err := VerifyOperatorToken(secret, raw); err == nil {
					next.ServeHTTP(w, r)
					return
				}
			}
			if onMissing != nil {
				onMissing.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		})
	}
}
