package server

import (
	"net/http/httptest"
	"testing"

	"auroric/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		query         string
		expectedPage  int
		expectedLimit int
	}{
		{"defaults", "", 1, 20},
		{"explicit", "?page=3&limit=50", 3, 50},
		{"limit capped", "?limit=1000", 1, 100},
		{"negative page resets", "?page=-2", 1, 20},
		{"zero limit resets", "?limit=0", 1, 20},
		{"garbage ignored", "?page=abc&limit=xyz", 1, 20},
	}

	app := fiber.New()
	var got Pagination
	app.Get("/x", func(c *fiber.Ctx) error {
		got = parsePagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", "/x"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expectedPage, got.Page)
			assert.Equal(t, tt.expectedLimit, got.Limit)
		})
	}
}

func TestHumanizeParam(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ID", humanizeParam("id"))
	assert.Equal(t, "user ID", humanizeParam("userId"))
	assert.Equal(t, "pin ID", humanizeParam("pinId"))
	assert.Equal(t, "slug", humanizeParam("slug"))
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"no header", "", ""},
		{"valid bearer", "Bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"missing token", "Bearer", ""},
	}

	app := fiber.New()
	var got string
	app.Get("/x", func(c *fiber.Ctx) error {
		got = bearerToken(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	s := &Server{config: &config.Config{JWTSecret: "round-trip-secret"}}

	token, err := s.generateToken(42, "alice")
	require.NoError(t, err)

	app := fiber.New()
	var userID uint
	var parseErr error
	app.Get("/x", func(c *fiber.Ctx) error {
		userID, parseErr = s.parseToken(c, token)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.NoError(t, parseErr)
	assert.Equal(t, uint(42), userID)
}

func TestParseToken_RejectsForeignToken(t *testing.T) {
	t.Parallel()

	issuer := &Server{config: &config.Config{JWTSecret: "issuer-secret"}}
	verifier := &Server{config: &config.Config{JWTSecret: "different-secret"}}

	token, err := issuer.generateToken(7, "mallory")
	require.NoError(t, err)

	app := fiber.New()
	var parseErr error
	app.Get("/x", func(c *fiber.Ctx) error {
		_, parseErr = verifier.parseToken(c, token)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Error(t, parseErr)
}
