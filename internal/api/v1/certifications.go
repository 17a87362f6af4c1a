package v1

import (
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func CreateCertification(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	type CertificationInput struct {
		Type        string `json:"type" validate:"required,oneof=file-pdf file-image external-link manual"`
		Title       string `json:"title" validate:"required,min=1,max=120"`
		Issuer      string `json:"issuer" validate:"omitempty,max=120"`
		IssuedOn    string `json:"issued_on" validate:"omitempty,datetime=2006-01-02"`
		FileURL     string `json:"file_url" validate:"required_if=Type file-pdf,required_if=Type file-image,omitempty,url,max=500"`
		ExternalURL string `json:"external_url" validate:"required_if=Type external-link,omitempty,url,max=500"`
		IsVisible   *bool  `json:"is_visible"`
	}
	in := new(CertificationInput)
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

	cert := &models.Certification{
		Type:        models.CertificationType(in.Type),
		Title:       in.Title,
		Issuer:      in.Issuer,
		IssuedOn:    in.IssuedOn,
		FileURL:     in.FileURL,
		ExternalURL: in.ExternalURL,
		IsVisible:   true,
	}
	if in.IsVisible != nil {
		cert.IsVisible = *in.IsVisible
	}
	if err := models.CreateCertification(c.Context(), Redis, DB, ownerID, cert); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("certification_id", cert.ID.String()).Logs("Certification created")
	return utils.Success(c).WithStatus(fiber.StatusCreated).WithData(cert).Send()
}

func GetCertification(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	cert, err := models.GetCertification(c.Context(), Redis, DB, ownerID, id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, cert)
}

func ListCertifications(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	limit := c.QueryInt("limit")
	offset := c.QueryInt("offset")
	visibleOnly := c.QueryBool("visible_only")

	list, err := models.ListCertifications(c.Context(), DB, ownerID, visibleOnly, limit, offset)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, list)
}

func UpdateCertification(c *fiber.Ctx) error {
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
		Issuer      *string `json:"issuer" validate:"omitempty,max=120"`
		IssuedOn    *string `json:"issued_on" validate:"omitempty,datetime=2006-01-02"`
		FileURL     *string `json:"file_url" validate:"omitempty,url,max=500"`
		ExternalURL *string `json:"external_url" validate:"omitempty,url,max=500"`
		IsVisible   *bool   `json:"is_visible"`
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

	cert, err := models.UpdateCertification(c.Context(), Redis, DB, ownerID, id, models.CertificationUpdate{
		Title:       in.Title,
		Issuer:      in.Issuer,
		IssuedOn:    in.IssuedOn,
		FileURL:     in.FileURL,
		ExternalURL: in.ExternalURL,
		IsVisible:   in.IsVisible,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return utils.SendSuccess(c, cert)
}

func DeleteCertification(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.DeleteCertification(c.Context(), Redis, DB, ownerID, id); err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("certification_id", id.String()).Logs("Certification deleted")
	return utils.Success(c).WithMessage("Certification deleted").Send()
}

func AssignCertificationTag(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	certID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	tagID, err := pathUUID(c, "tagId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.AssignTag(c.Context(), Redis, DB, ownerID, certID, tagID); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.Success(c).WithMessage("Tag assigned").Send()
}

func RemoveCertificationTag(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	certID, err := pathUUID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}
	tagID, err := pathUUID(c, "tagId")
	if err != nil {
		return utils.HandleError(c, err)
	}

	if err := models.RemoveTag(c.Context(), Redis, DB, ownerID, certID, tagID); err != nil {
		return utils.HandleError(c, err)
	}
	return utils.Success(c).WithMessage("Tag removed").Send()
}
