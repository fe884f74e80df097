package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	helper "jobmarket_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

var errNoToken = fmt.Errorf("unauthorized - no token provided")

// extractBearerToken reads the Authorization header, falling back to the
// access_token cookie.
func extractBearerToken(c *fiber.Ctx) (string, error) {
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if auth == "" {
		if cookieTok := c.Cookies("access_token"); cookieTok != "" {
			auth = "Bearer " + cookieTok
		}
	}
	if auth == "" {
		return "", errNoToken
	}

	fields := strings.Fields(auth)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "Bearer") {
		return "", fmt.Errorf("unauthorized - invalid token format")
	}
	tok := strings.Trim(strings.TrimSpace(fields[1]), "\"'")
	if tok == "" {
		return "", fmt.Errorf("unauthorized - empty token")
	}
	return tok, nil
}

func validateTokenExpiry(claims jwt.MapClaims, now time.Time, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}
	expUnix, err := toInt64(expVal)
	if err != nil {
		return fmt.Errorf("invalid exp: %w", err)
	}
	expTime := time.Unix(expUnix, 0).UTC()
	if now.UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

// extractUserID accepts the id claim as a JSON number or a numeric string.
func extractUserID(claims jwt.MapClaims) (int64, error) {
	idRaw, ok := claims["id"]
	if !ok {
		return 0, fmt.Errorf("no user id")
	}
	id, err := toInt64(idRaw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid user id %d", id)
	}
	return id, nil
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

func storeClaimsToLocals(c *fiber.Ctx, userID int64, claims jwt.MapClaims) {
	c.Locals(helper.LocUserID, userID)
	if role, ok := claims["role"].(string); ok {
		c.Locals(helper.LocUserRole, role)
	}
}
