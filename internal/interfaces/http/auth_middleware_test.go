package http_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/barstock-api/internal/domain/entity"
	apihttp "github.com/jhoicas/barstock-api/internal/interfaces/http"
	"github.com/jhoicas/barstock-api/pkg/jwt"
)

const testSecret = "secreto-de-pruebas"

// tokenFor genera un token válido para las pruebas de middleware.
func tokenFor(t *testing.T, userID, organizationID, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, userID, organizationID, role, "barstock-test", 5)
	require.NoError(t, err)
	return token
}

// newProtectedApp monta una ruta protegida que devuelve los locals extraídos,
// y una ruta admin con RequireRole encima.
func newProtectedApp() *fiber.App {
	app := fiber.New()
	app.Use(apihttp.AuthMiddleware(testSecret))
	app.Get("/protegida", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":         apihttp.GetUserID(c),
			"organization_id": apihttp.GetOrganizationID(c),
			"role":            apihttp.GetRole(c),
		})
	})
	app.Get("/admin", apihttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthMiddleware_SinHeader_401(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/protegida", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalido_401(t *testing.T) {
	app := newProtectedApp()

	for _, header := range []string{"Basic abc123", "Bearer", "Bearer "} {
		req := httptest.NewRequest("GET", "/protegida", nil)
		req.Header.Set("Authorization", header)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equalf(t, fiber.StatusUnauthorized, resp.StatusCode, "header %q", header)
	}
}

func TestAuthMiddleware_TokenConFirmaIncorrecta_401(t *testing.T) {
	app := newProtectedApp()

	otro, err := jwt.Generate("otro-secreto", "user-1", "org-1", entity.RoleStaff, "barstock-test", 5)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+otro)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenValido_ExtraeLocals(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/protegida", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "user-1", "org-1", entity.RoleStaff))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_AdminAccede(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "user-1", "org-1", entity.RoleAdmin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRole_StaffRecibe403(t *testing.T) {
	app := newProtectedApp()

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "user-1", "org-1", entity.RoleStaff))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
