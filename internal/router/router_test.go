package router

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key = []byte("router-test-key")

func newApp() *fiber.App {
	return New(Table{
		Public: []Route{
			{Method: fiber.MethodGet, Path: "/open", Handler: func(c *fiber.Ctx) error { return c.SendString("open") }},
			{Method: fiber.MethodGet, Path: "/boom", Handler: func(c *fiber.Ctx) error { return errors.New("db down") }},
			{Method: fiber.MethodGet, Path: "/panic", Handler: func(c *fiber.Ctx) error { panic("oops") }},
		},
		Protected: []Route{
			{Method: fiber.MethodGet, Path: "/closed", Handler: func(c *fiber.Ctx) error {
				_, ok := c.Locals("user").(*jwt.Token)
				if !ok {
					return fiber.ErrInternalServerError
				}
				return c.SendString("closed")
			}},
		},
	}, Options{Prefix: "/api", SigningKey: key})
}

func sign(t *testing.T, secret []byte, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()}).SignedString(secret)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	b, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(b)
}

func TestNew_RouteTable(t *testing.T) {
	app := newApp()

	status, body := get(t, app, "/healthz", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	status, body = get(t, app, "/api/open", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "open", body)

	status, _ = get(t, app, "/open", "")
	assert.Equal(t, fiber.StatusNotFound, status, "routes live under the prefix")
}

func TestNew_ProtectedRoutes(t *testing.T) {
	app := newApp()

	status, body := get(t, app, "/api/closed", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"Missing or malformed token"}`, body)

	status, _ = get(t, app, "/api/closed", sign(t, []byte("wrong"), time.Now().Add(time.Hour)))
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = get(t, app, "/api/closed", sign(t, key, time.Now().Add(-time.Hour)))
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, body)

	status, body = get(t, app, "/api/closed", sign(t, key, time.Now().Add(time.Hour)))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "closed", body)
}

func TestNew_Errors(t *testing.T) {
	app := newApp()

	status, body := get(t, app, "/api/boom", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"internal server error"}`, body)

	status, _ = get(t, app, "/api/panic", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)

	status, body = get(t, app, "/api/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, body, `"error"`)
}
