package middleware

import (
	"errors"
	"strings"
	"time"

	"dompet/pkg/logger"
	"dompet/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const localUserID = "user_id"

// Claims is the token issued by the identity provider. The subject is the
// user id that scopes every ledger key.
type Claims struct {
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for userID. Used by tooling and tests; in
// production tokens come from the identity provider.
func IssueToken(secret, issuer, userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies tokenStr and returns the user id it was issued for.
func ParseToken(secret, issuer, tokenStr string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// user id for UserID.
func RequireAuth(secret, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		tokenStr, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tokenStr == "" {
			return response.WriteError(c, fiber.StatusUnauthorized, "Unauthorized", "missing auth token")
		}

		userID, err := ParseToken(secret, issuer, tokenStr)
		if err != nil {
			errMsg := err.Error()
			logger.WriteLogToFile("failed", "middleware.RequireAuth", map[string]any{"path": c.Path()}, &errMsg)
			return response.WriteError(c, fiber.StatusUnauthorized, "Unauthorized", "invalid token")
		}

		c.Locals(localUserID, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user of the request.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
