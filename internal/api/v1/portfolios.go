package v1

import (
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/internal/templates"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func CreatePortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	type PortfolioInput struct {
		Title       string `json:"title" validate:"required,min=1,max=120"`
		Slug        string `json:"slug" validate:"omitempty,slug,max=120"`
		Description string `json:"description" validate:"omitempty,max=500"`
		TemplateID  string `json:"template_id" validate:"omitempty,max=40"`
		ThemeID     string `json:"theme_id" validate:"omitempty,max=40"`
		IsPublic    bool   `json:"is_public"`
	}
	in := new(PortfolioInput)
	if err := utils.StrictBodyParser(c, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	if in.TemplateID != "" && !templates.ValidTemplateID(in.TemplateID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown template",
		})
	}
	if in.ThemeID != "" && !templates.ValidThemeID(in.ThemeID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown theme",
		})
	}

	p := &models.Portfolio{
		Title:       in.Title,
		Slug:        in.Slug,
		Description: in.Description,
		TemplateID:  in.TemplateID,
		ThemeID:     in.ThemeID,
		IsPublic:    in.IsPublic,
	}
	if err := models.CreatePortfolio(c.Context(), Redis, DB, ownerID, p); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("portfolio_id", p.ID.String()).Logs("Portfolio created")
	return utils.Success(c).WithStatus(fiber.StatusCreated).WithData(p).Send()
}

func GetPortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	p, err := models.GetPortfolio(c.Context(), Redis, DB, ownerID, id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	sections, err := models.ListSections(c.Context(), Redis, DB, ownerID, id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	p.Sections = sections

	return utils.SendSuccess(c, p)
}

func ListPortfolios(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	limit := c.QueryInt("limit")
	offset := c.QueryInt("offset")
	publicOnly := c.QueryBool("public_only")

	list, err := models.ListPortfolios(c.Context(), DB, ownerID, publicOnly, limit, offset)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, list)
}

func UpdatePortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	type UpdateInput struct {
		Title       *string `json:"title" validate:"omitempty,min=1,max=120"`
		Description *string `json:"description" validate:"omitempty,max=500"`
		TemplateID  *string `json:"template_id" validate:"omitempty,max=40"`
		ThemeID     *string `json:"theme_id" validate:"omitempty,max=40"`
		IsPublic    *bool   `json:"is_public"`
	}
	in := new(UpdateInput)
	if err := utils.StrictBodyParser(c, &in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}
	if err := Validator.Validate(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	var opts []models.PortfolioOption
	if in.Title != nil {
		opts = append(opts, models.WithTitle(*in.Title))
	}
	if in.Description != nil {
		opts = append(opts, models.WithDescription(*in.Description))
	}
	if in.TemplateID != nil {
		if !templates.ValidTemplateID(*in.TemplateID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown template",
			})
		}
		opts = append(opts, models.WithTemplate(*in.TemplateID))
	}
	if in.ThemeID != nil {
		if !templates.ValidThemeID(*in.ThemeID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown theme",
			})
		}
		opts = append(opts, models.WithTheme(*in.ThemeID))
	}
	if in.IsPublic != nil {
		opts = append(opts, models.WithVisibility(*in.IsPublic))
	}
	if len(opts) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No updatable fields provided",
		})
	}

	p, err := models.UpdatePortfolio(c.Context(), Redis, DB, ownerID, id, opts...)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, p)
}

func DeletePortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeletePortfolio(c.Context(), Redis, DB, ownerID, id); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("portfolio_id", id.String()).Logs("Portfolio deleted")
	return utils.Success(c).WithMessage("Portfolio deleted").Send()
}

// SharePortfolio mints (or rotates) the portfolio's share token so a private
// portfolio can be viewed by link.
func SharePortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	token, err := utils.GenerateRandomToken(24)
	if err != nil {
		return utils.HandleError(c, utils.WrapError(err, fiber.StatusInternalServerError, "Failed to generate share token"))
	}

	p, err := models.UpdatePortfolio(c.Context(), Redis, DB, ownerID, id, models.WithShareToken(token))
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"share_token": p.ShareToken,
		"share_url":   "/p/" + p.ShareToken,
	})
}

// PublicPortfolio serves the read-only public view by slug or share token.
// No authentication; hidden sections are never included.
func PublicPortfolio(c *fiber.Ctx) error {
	slugOrToken := c.Params("slug")
	if slugOrToken == "" {
		return utils.HandleError(c, utils.NewError(fiber.StatusBadRequest, "Missing portfolio reference"))
	}

	p, err := models.GetPublicPortfolio(c.Context(), DB, slugOrToken)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return utils.SendSuccess(c, fiber.Map{
		"portfolio": p,
		"template":  templates.TemplateByID(p.TemplateID),
		"theme":     templates.ThemeByID(p.ThemeID),
	})
}
