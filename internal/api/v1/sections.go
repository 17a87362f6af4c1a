package v1

import (
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func CreateSection(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	type SectionInput struct {
		Type      string `json:"type" validate:"required,oneof=summary skills work_experience projects certifications custom"`
		Title     string `json:"title" validate:"omitempty,max=120"`
		Content   string `json:"content"`
		Settings  string `json:"settings"`
		IsVisible *bool  `json:"is_visible"`
	}
	in := new(SectionInput)
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

	s := &models.Section{
		PortfolioID: portfolioID,
		Type:        models.SectionType(in.Type),
		Title:       in.Title,
		Content:     in.Content,
		Settings:    in.Settings,
		IsVisible:   true,
	}
	if in.IsVisible != nil {
		s.IsVisible = *in.IsVisible
	}
	if err := models.CreateSection(c.Context(), Redis, DB, ownerID, s); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("section_id", s.ID.String(), "portfolio_id", portfolioID.String()).Logs("Section created")
	return utils.Success(c).WithStatus(fiber.StatusCreated).WithData(s).Send()
}

func ListSections(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	sections, err := models.ListSections(c.Context(), Redis, DB, ownerID, portfolioID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, sections)
}

func GetSection(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	sectionID, err := pathUUID(c, "sectionId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	s, err := models.GetSection(c.Context(), Redis, DB, ownerID, portfolioID, sectionID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, s)
}

func UpdateSection(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	sectionID, err := pathUUID(c, "sectionId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	type UpdateInput struct {
		Title     *string `json:"title" validate:"omitempty,max=120"`
		Content   *string `json:"content"`
		Settings  *string `json:"settings"`
		IsVisible *bool   `json:"is_visible"`
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

	s, err := models.UpdateSection(c.Context(), Redis, DB, ownerID, portfolioID, sectionID, models.SectionUpdate{
		Title:     in.Title,
		Content:   in.Content,
		Settings:  in.Settings,
		IsVisible: in.IsVisible,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, s)
}

func DeleteSection(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	sectionID, err := pathUUID(c, "sectionId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeleteSection(c.Context(), Redis, DB, ownerID, portfolioID, sectionID); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("section_id", sectionID.String()).Logs("Section deleted")
	return utils.Success(c).WithMessage("Section deleted").Send()
}

// ReorderSections applies a full new ordering in one shot. The id list must
// be exactly the portfolio's current section set.
func ReorderSections(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	portfolioID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	type ReorderInput struct {
		SectionIDs []string `json:"section_ids" validate:"required,dive,uuid"`
	}
	in := new(ReorderInput)
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

	ids := make([]uuid.UUID, len(in.SectionIDs))
	for i, raw := range in.SectionIDs {
		ids[i], _ = uuid.Parse(raw)
	}

	sections, err := models.ReorderSections(c.Context(), Redis, DB, ownerID, portfolioID, ids)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, sections)
}
