package models

import (
	portfolio "github.com/craftfolio/api/internal/models/portfolio"
	user "github.com/craftfolio/api/internal/models/user"
)

func RegisterModels() []interface{} {
	return []interface{}{
		&user.User{},
		&portfolio.Portfolio{},
		&portfolio.Section{},
		&portfolio.Certification{},
		&portfolio.Tag{},
	}
}

type (
	User          = user.User
	Portfolio     = portfolio.Portfolio
	Section       = portfolio.Section
	Certification = portfolio.Certification
	Tag           = portfolio.Tag

	SectionType       = portfolio.SectionType
	CertificationType = portfolio.CertificationType

	UserOption      = user.UserOption
	PortfolioOption = portfolio.PortfolioOption

	SectionUpdate       = portfolio.SectionUpdate
	CertificationUpdate = portfolio.CertificationUpdate
	TagUpdate           = portfolio.TagUpdate

	SummaryContent        = portfolio.SummaryContent
	SkillsContent         = portfolio.SkillsContent
	SkillItem             = portfolio.SkillItem
	WorkExperienceContent = portfolio.WorkExperienceContent
	WorkEntry             = portfolio.WorkEntry
	ProjectsContent       = portfolio.ProjectsContent
	ProjectEntry          = portfolio.ProjectEntry
	CertificationsContent = portfolio.CertificationsContent
	CustomContent         = portfolio.CustomContent
)

var (
	NewUser       = user.NewUser
	GetUserBy     = user.GetUserBy
	GetUserByID   = user.GetUserByID
	UpdateUser    = user.UpdateUser
	DeleteUser    = user.DeleteUser
	WithName      = user.WithName
	WithAvatarURL = user.WithAvatarURL
	WithIsActive  = user.WithIsActive

	CreatePortfolio    = portfolio.CreatePortfolio
	GetPortfolio       = portfolio.GetPortfolio
	GetPublicPortfolio = portfolio.GetPublicPortfolio
	ListPortfolios     = portfolio.ListPortfolios
	UpdatePortfolio    = portfolio.UpdatePortfolio
	DeletePortfolio    = portfolio.DeletePortfolio
	WithTitle          = portfolio.WithTitle
	WithDescription    = portfolio.WithDescription
	WithTemplate       = portfolio.WithTemplate
	WithTheme          = portfolio.WithTheme
	WithVisibility     = portfolio.WithVisibility
	WithShareToken     = portfolio.WithShareToken

	CreateSection   = portfolio.CreateSection
	GetSection      = portfolio.GetSection
	ListSections    = portfolio.ListSections
	UpdateSection   = portfolio.UpdateSection
	DeleteSection   = portfolio.DeleteSection
	ReorderSections = portfolio.ReorderSections

	CreateCertification = portfolio.CreateCertification
	GetCertification    = portfolio.GetCertification
	ListCertifications  = portfolio.ListCertifications
	UpdateCertification = portfolio.UpdateCertification
	DeleteCertification = portfolio.DeleteCertification
	AssignTag           = portfolio.AssignTag
	RemoveTag           = portfolio.RemoveTag

	CreateTag = portfolio.CreateTag
	GetTag    = portfolio.GetTag
	ListTags  = portfolio.ListTags
	UpdateTag = portfolio.UpdateTag
	DeleteTag = portfolio.DeleteTag

	ValidSectionType = portfolio.ValidSectionType
	DecodeContent    = portfolio.DecodeContent
	EncodeContent    = portfolio.EncodeContent
)

const (
	SectionSummary        = portfolio.SectionSummary
	SectionSkills         = portfolio.SectionSkills
	SectionWorkExperience = portfolio.SectionWorkExperience
	SectionProjects       = portfolio.SectionProjects
	SectionCertifications = portfolio.SectionCertifications
	SectionCustom         = portfolio.SectionCustom

	CertFilePDF      = portfolio.CertFilePDF
	CertFileImage    = portfolio.CertFileImage
	CertExternalLink = portfolio.CertExternalLink
	CertManual       = portfolio.CertManual
)
