package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func whoAmI(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	return c.JSON(fiber.Map{"user_id": userID})
}

func signTestToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	svc := NewService(secret, nil)
	token, err := svc.signToken(userID, ttl)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestJWTMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), whoAmI)

	token := signTestToken(t, "secret", "u1", time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %v %v", resp.StatusCode, err)
	}
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareBadToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JWTMiddleware("secret"), whoAmI)

	token := signTestToken(t, "secret", "u1", -time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestOptionalJWTMiddlewareAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/feed", OptionalJWTMiddleware("secret"), func(c *fiber.Ctx) error {
		if c.Locals("user_id") != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "unexpected identity")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected anonymous pass-through, got %v %v", resp.StatusCode, err)
	}
}

func TestOptionalJWTMiddlewareWithToken(t *testing.T) {
	app := fiber.New()
	app.Get("/feed", OptionalJWTMiddleware("secret"), whoAmI)

	token := signTestToken(t, "secret", "u7", time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %v %v", resp.StatusCode, err)
	}
}

func TestOptionalJWTMiddlewareBadToken(t *testing.T) {
	app := fiber.New()
	app.Get("/feed", OptionalJWTMiddleware("secret"), whoAmI)

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for present but invalid token, got %d", resp.StatusCode)
	}
}

func TestValidateBearerClaimsCast(t *testing.T) {
	orig := parseMiddlewareClaimsFn
	defer func() { parseMiddlewareClaimsFn = orig }()

	parseMiddlewareClaimsFn = func(token string, claims jwt.Claims, keyFunc jwt.Keyfunc, _ ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: true}, nil
	}

	if _, err := validateBearer("any", []byte("secret")); err == nil {
		t.Fatalf("expected claims cast error")
	}
}

func TestBearerFromHeader(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerFromHeader(tc.header); got != tc.want {
			t.Fatalf("bearerFromHeader(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
