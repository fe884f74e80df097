package auth

import (
	"errors"
	"log"
	"time"

	"jobmarket_backend/internals/configs"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const expirySkew = 30 * time.Second

// Options configure AuthMiddleware. Secret defaults to configs.JWTSecret.
type Options struct {
	Secret string
	// Optional lets requests without a token through as visitors.
	Optional bool
	Now      func() time.Time
}

// AuthMiddleware verifies an HS256 bearer token issued by the identity
// service and stores its user id and role in the request locals.
func AuthMiddleware(opts Options) fiber.Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			if opts.Optional && errors.Is(err, errNoToken) {
				return c.Next()
			}
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		secretKey := opts.Secret
		if secretKey == "" {
			secretKey = configs.JWTSecret
		}
		if secretKey == "" {
			log.Println("[ERROR] JWT_SECRET is empty")
			return fiber.NewError(fiber.StatusInternalServerError, "missing JWT secret")
		}

		claims := jwt.MapClaims{}
		parser := jwt.Parser{SkipClaimsValidation: true, ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
		if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		}); err != nil {
			log.Println("[WARN] token parse:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token parse error")
		}

		if err := validateTokenExpiry(claims, now(), expirySkew); err != nil {
			log.Println("[WARN] token exp:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - token expired")
		}

		userID, err := extractUserID(claims)
		if err != nil {
			log.Println("[WARN] token user id:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized - invalid or missing user id")
		}
		storeClaimsToLocals(c, userID, claims)
		return c.Next()
	}
}
