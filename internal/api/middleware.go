package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// authSubjectKey is the request-local holding the authenticated token subject
const authSubjectKey = "authSubject"

// authMiddleware guards the reminder and voice-log routes. Valid requests get
// the token subject attached to the request context so handlers can attribute
// the operations they perform.
func (s *Server) authMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(401).JSON(fiber.Map{"msg": "Authorization bearer token required"})
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(s.config.Security.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Status(401).JSON(fiber.Map{"msg": "Invalid or expired token"})
		}

		if subject, err := claims.GetSubject(); err == nil && subject != "" {
			c.Locals(authSubjectKey, subject)
		}

		return c.Next()
	}
}
