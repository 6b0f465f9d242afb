package auth

import (
	"net/http/httptest"
	"testing"

	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// newRoleGateApp wires an endpoint behind RequireRole(admin), with a
// stand-in for JWTMiddleware that stamps the given role into locals.
func newRoleGateApp(role models.UserRole, setRole bool) *fiber.App {
	app := fiber.New()
	app.Get("/audit-logs",
		func(c *fiber.Ctx) error {
			if setRole {
				c.Locals(CtxUserRoleKey, role)
			}
			return c.Next()
		},
		RequireRole(models.RoleAdmin),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestRequireRoleAdminGate(t *testing.T) {
	cases := []struct {
		name    string
		role    models.UserRole
		setRole bool
		want    int
	}{
		{"admin allowed", models.RoleAdmin, true, fiber.StatusOK},
		{"manager forbidden", models.RoleManager, true, fiber.StatusForbidden},
		{"cashier forbidden", models.RoleCashier, true, fiber.StatusForbidden},
		{"missing role forbidden", "", false, fiber.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newRoleGateApp(tc.role, tc.setRole)
			resp, err := app.Test(httptest.NewRequest("GET", "/audit-logs", nil))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestRequireRoleAllowsAnyListedRole(t *testing.T) {
	app := fiber.New()
	app.Get("/reports",
		func(c *fiber.Ctx) error {
			c.Locals(CtxUserRoleKey, models.RoleManager)
			return c.Next()
		},
		RequireRole(models.RoleAdmin, models.RoleManager),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/reports", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
