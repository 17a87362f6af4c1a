package v1

import (
	"github.com/craftfolio/api/internal/templates"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func ListTemplates(c *fiber.Ctx) error {
	return utils.SendSuccess(c, templates.Templates())
}

func ListThemes(c *fiber.Ctx) error {
	return utils.SendSuccess(c, templates.Themes())
}
