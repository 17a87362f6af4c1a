package v1

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTagApp wires the tag handlers behind a stub identity, the way the
// router mounts them behind the auth guard.
func testTagApp() *fiber.App {
	app := fiber.New()
	grp := app.Group("/tags", func(c *fiber.Ctx) error {
		c.Locals("user_id", uuid.NewString())
		return c.Next()
	})
	grp.Post("/", CreateTag)
	grp.Patch("/:id", UpdateTag)
	return app
}

func TestCreateTagRejectsNameOverColumnWidth(t *testing.T) {
	app := testTagApp()

	// 31 characters, one past the column width.
	body := `{"name": "` + strings.Repeat("x", 31) + `"}`
	req := httptest.NewRequest("POST", "/tags/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTagRejectsNameOverColumnWidth(t *testing.T) {
	app := testTagApp()

	body := `{"name": "` + strings.Repeat("x", 31) + `"}`
	req := httptest.NewRequest("PATCH", "/tags/"+uuid.NewString(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
