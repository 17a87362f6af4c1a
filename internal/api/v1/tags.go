package v1

import (
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func CreateTag(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	type TagInput struct {
		Name  string `json:"name" validate:"required,min=1,max=30"`
		Color string `json:"color" validate:"omitempty,hexcolor"`
	}
	in := new(TagInput)
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

	tag := &models.Tag{Name: in.Name, Color: in.Color}
	if err := models.CreateTag(c.Context(), Redis, DB, ownerID, tag); err != nil {
		return utils.HandleError(c, err)
	}

	return utils.Success(c).WithStatus(fiber.StatusCreated).WithData(tag).Send()
}

func ListTags(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	tags, err := models.ListTags(c.Context(), DB, ownerID)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, tags)
}

func UpdateTag(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	type UpdateInput struct {
		Name  *string `json:"name" validate:"omitempty,min=1,max=30"`
		Color *string `json:"color" validate:"omitempty,hexcolor"`
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

	tag, err := models.UpdateTag(c.Context(), Redis, DB, ownerID, id, models.TagUpdate{
		Name:  in.Name,
		Color: in.Color,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, tag)
}

func DeleteTag(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeleteTag(c.Context(), Redis, DB, ownerID, id); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.Success(c).WithMessage("Tag deleted").Send()
}
