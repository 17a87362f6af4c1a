package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/craftfolio/api/internal/db"
	"github.com/craftfolio/api/internal/models"
	"github.com/craftfolio/api/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResumeProfile is the structured form the extraction ability pulls out of
// raw resume text. Every field is optional; extraction is best-effort.
type ResumeProfile struct {
	Name     string                `json:"name"`
	Headline string                `json:"headline"`
	Summary  string                `json:"summary"`
	Skills   []string              `json:"skills"`
	Work     []models.WorkEntry    `json:"work"`
	Projects []models.ProjectEntry `json:"projects"`
}

const extractSystemPrompt = `You extract structured data from resume text. Respond with a single JSON object and nothing else, using this shape:
{"name":"","headline":"","summary":"","skills":[""],"work":[{"company":"","role":"","start_date":"","end_date":"","summary":"","highlights":[""]}],"projects":[{"name":"","description":"","url":"","tech":[""]}]}
Omit nothing you can find, invent nothing you cannot.`

// ExtractResume parses resumeText into a profile. A provider failure or
// unparseable reply yields an empty profile, never an error.
func (a *Abilities) ExtractResume(ctx context.Context, resumeText string) ResumeProfile {
	var profile ResumeProfile
	if strings.TrimSpace(resumeText) == "" {
		return profile
	}

	out, err := a.client.Complete(ctx, Request{
		System:    extractSystemPrompt,
		User:      resumeText,
		MaxTokens: 2000,
	})
	if err != nil {
		a.log.Warn(ctx).WithFields("error", err.Error()).Logs("Resume extraction degraded to empty profile")
		return ResumeProfile{}
	}

	if err := json.Unmarshal([]byte(stripCodeFence(out)), &profile); err != nil {
		a.log.Warn(ctx).WithFields("raw", out).Logs("Resume extraction returned unparseable output")
		return ResumeProfile{}
	}
	return profile
}

// GeneratePortfolio builds a draft portfolio for ownerID from resume text.
// Sections are appended in a fixed order and only for the profile parts the
// extraction actually found; a certifications section is added from the
// owner's stored visible certifications. The draft is created private.
func (a *Abilities) GeneratePortfolio(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID uuid.UUID, resumeText string) (*models.Portfolio, []models.Section, error) {
	profile := a.ExtractResume(ctx, resumeText)

	title := strings.TrimSpace(profile.Name)
	if title == "" {
		title = "My Portfolio"
	} else {
		title += "'s Portfolio"
	}

	p := &models.Portfolio{Title: title, Description: profile.Headline}
	if err := models.CreatePortfolio(ctx, rclient, gormDB, ownerID, p); err != nil {
		// Slug collision with an earlier draft: retry once with a random suffix.
		if ce, ok := err.(*utils.CustomError); ok && ce.Code == utils.ErrConflict.Code {
			suffix, terr := utils.GenerateRandomToken(3)
			if terr == nil {
				p.Slug = ""
				p.Title = title + " " + suffix
				err = models.CreatePortfolio(ctx, rclient, gormDB, ownerID, p)
			}
		}
		if err != nil {
			return nil, nil, err
		}
	}

	summary := profile.Summary
	if summary != "" {
		if short := a.SummarizeText(ctx, summary, 3); short != "" {
			summary = short
		}
	}
	if summary != "" || profile.Headline != "" {
		a.appendSection(ctx, rclient, gormDB, ownerID, p.ID, models.SectionSummary, models.SummaryContent{
			Headline: profile.Headline,
			Body:     summary,
		})
	}

	if len(profile.Skills) > 0 {
		items := make([]models.SkillItem, 0, len(profile.Skills))
		for _, s := range profile.Skills {
			if s = strings.TrimSpace(s); s != "" {
				items = append(items, models.SkillItem{Name: s})
			}
		}
		if len(items) > 0 {
			a.appendSection(ctx, rclient, gormDB, ownerID, p.ID, models.SectionSkills, models.SkillsContent{Skills: items})
		}
	}

	if len(profile.Work) > 0 {
		a.appendSection(ctx, rclient, gormDB, ownerID, p.ID, models.SectionWorkExperience, models.WorkExperienceContent{Entries: profile.Work})
	}

	if len(profile.Projects) > 0 {
		a.appendSection(ctx, rclient, gormDB, ownerID, p.ID, models.SectionProjects, models.ProjectsContent{Projects: profile.Projects})
	}

	certs, err := models.ListCertifications(ctx, gormDB, ownerID, true, 100, 0)
	if err == nil && len(certs) > 0 {
		ids := make([]string, len(certs))
		for i, cert := range certs {
			ids[i] = cert.ID.String()
		}
		a.appendSection(ctx, rclient, gormDB, ownerID, p.ID, models.SectionCertifications, models.CertificationsContent{CertificationIDs: ids})
	}

	sections, err := models.ListSections(ctx, rclient, gormDB, ownerID, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, sections, nil
}

func (a *Abilities) appendSection(ctx context.Context, rclient *db.RedisClient, gormDB *gorm.DB, ownerID, portfolioID uuid.UUID, st models.SectionType, content interface{}) {
	raw, err := models.EncodeContent(content)
	if err != nil {
		a.log.Warn(ctx).WithFields("type", string(st), "error", err.Error()).Logs("Skipping generated section")
		return
	}
	s := &models.Section{PortfolioID: portfolioID, Type: st, Content: raw}
	if err := models.CreateSection(ctx, rclient, gormDB, ownerID, s); err != nil {
		a.log.Warn(ctx).WithFields("type", string(st), "error", err.Error()).Logs("Failed to append generated section")
	}
}
