package catalog

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newCouponValidateApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/api/coupons/validate/:code", ValidateCouponHandler())
	return app
}

func TestValidateCouponHandlerRejectsBadCartTotal(t *testing.T) {
	app := newCouponValidateApp()

	cases := []struct {
		name      string
		cartTotal string
	}{
		{"non-numeric", "abc"},
		{"negative", "-10"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/coupons/validate/SAVE10?cart_total="+tc.cartTotal, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}

			raw, _ := io.ReadAll(resp.Body)
			var body map[string]string
			if err := json.Unmarshal(raw, &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if !strings.Contains(body["error"], "cart_total") {
				t.Fatalf("expected cart_total error, got %q", body["error"])
			}
		})
	}
}

func TestValidateCouponHandlerRejectsBlankCode(t *testing.T) {
	app := newCouponValidateApp()

	// A whitespace-only path segment must not reach the database lookup.
	req := httptest.NewRequest("GET", "/api/coupons/validate/%20%20", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
