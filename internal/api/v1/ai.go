package v1

import (
	"github.com/craftfolio/api/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// The AI handlers never surface provider failures as errors: a degraded
// ability returns its empty result with 200 so the editor stays usable.

func RewriteText(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return utils.HandleError(c, err)
	}

	type RewriteInput struct {
		Text string `json:"text" validate:"required,min=1,max=5000"`
		Tone string `json:"tone" validate:"omitempty,oneof=professional confident friendly concise"`
	}
	in := new(RewriteInput)
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

	rewritten := AI.RewriteText(c.Context(), in.Text, in.Tone)
	return utils.SendSuccess(c, fiber.Map{
		"rewritten": rewritten,
	})
}

func SummarizeText(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return utils.HandleError(c, err)
	}

	type SummarizeInput struct {
		Text         string `json:"text" validate:"required,min=1,max=20000"`
		MaxSentences int    `json:"max_sentences" validate:"omitempty,min=1,max=10"`
	}
	in := new(SummarizeInput)
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

	summary := AI.SummarizeText(c.Context(), in.Text, in.MaxSentences)
	return utils.SendSuccess(c, fiber.Map{
		"summary": summary,
	})
}

func SuggestTags(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return utils.HandleError(c, err)
	}

	type SuggestInput struct {
		Title  string `json:"title" validate:"required,min=1,max=120"`
		Issuer string `json:"issuer" validate:"omitempty,max=120"`
	}
	in := new(SuggestInput)
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

	tags := AI.SuggestTags(c.Context(), in.Title, in.Issuer)
	return utils.SendSuccess(c, fiber.Map{
		"tags": tags,
	})
}

// GeneratePortfolio drafts a complete private portfolio from pasted resume
// text. Extraction is best-effort; the draft contains only the sections the
// profile supported.
func GeneratePortfolio(c *fiber.Ctx) error {
	ownerID, err := currentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	type GenerateInput struct {
		ResumeText string `json:"resume_text" validate:"required,min=20,max=50000"`
	}
	in := new(GenerateInput)
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

	p, sections, err := AI.GeneratePortfolio(c.Context(), Redis, DB, ownerID, in.ResumeText)
	if err != nil {
		return utils.HandleError(c, err)
	}

	Logger.Info(c.Context()).WithFields("portfolio_id", p.ID.String(), "sections", len(sections)).Logs("Portfolio generated from resume")
	return utils.Success(c).WithStatus(fiber.StatusCreated).WithData(fiber.Map{
		"portfolio": p,
		"sections":  sections,
	}).Send()
}
