package api

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_ExposesSubject(t *testing.T) {
	s := setupTestServer(t)
	s.app.Get("/api/whoami", s.authMiddleware(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"subject": c.Locals(authSubjectKey)})
	})

	token := authToken(t, s)
	resp := doJSON(t, s, "GET", "/api/whoami", nil, token)
	require.Equal(t, 200, resp.StatusCode)

	var body struct {
		Subject string `json:"subject"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "default", body.Subject)
}

func TestAuthMiddleware_RejectsWrongKey(t *testing.T) {
	s := setupTestServer(t)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "default"})
	tokenString, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	resp := doJSON(t, s, "GET", "/api/reminders/user_1", nil, tokenString)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthMiddleware_RejectsUnexpectedAlg(t *testing.T) {
	s := setupTestServer(t)

	// An unsigned token must not pass even though it parses
	forged := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "default"})
	tokenString, err := forged.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	resp := doJSON(t, s, "GET", "/api/reminders/user_1", nil, tokenString)
	assert.Equal(t, 401, resp.StatusCode)
}
