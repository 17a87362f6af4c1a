package models

import (
	"encoding/json"
	"fmt"
)

// SectionType tags the content variant a section carries.
type SectionType string

const (
	SectionSummary        SectionType = "summary"
	SectionSkills         SectionType = "skills"
	SectionWorkExperience SectionType = "work_experience"
	SectionProjects       SectionType = "projects"
	SectionCertifications SectionType = "certifications"
	SectionCustom         SectionType = "custom"
)

// SectionTypes lists every valid section type in display order.
var SectionTypes = []SectionType{
	SectionSummary,
	SectionSkills,
	SectionWorkExperience,
	SectionProjects,
	SectionCertifications,
	SectionCustom,
}

func ValidSectionType(t SectionType) bool {
	for _, st := range SectionTypes {
		if st == t {
			return true
		}
	}
	return false
}

// SummaryContent is the payload for summary sections.
type SummaryContent struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

type SkillItem struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// SkillsContent is the payload for skills sections.
type SkillsContent struct {
	Skills []SkillItem `json:"skills"`
}

type WorkEntry struct {
	Company    string   `json:"company"`
	Role       string   `json:"role"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// WorkExperienceContent is the payload for work_experience sections.
type WorkExperienceContent struct {
	Entries []WorkEntry `json:"entries"`
}

type ProjectEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Tech        []string `json:"tech,omitempty"`
}

// ProjectsContent is the payload for projects sections.
type ProjectsContent struct {
	Projects []ProjectEntry `json:"projects"`
}

// CertificationsContent references certifications owned by the portfolio
// owner. Soft-deleted certifications keep their IDs valid here but render
// as invisible.
type CertificationsContent struct {
	CertificationIDs []string `json:"certification_ids"`
}

// CustomContent is the payload for custom sections.
type CustomContent struct {
	Markdown string `json:"markdown"`
}

// DecodeContent parses a section's raw JSON content into the payload type
// of its section type. The switch is exhaustive over SectionTypes.
func DecodeContent(t SectionType, raw string) (interface{}, error) {
	if raw == "" {
		raw = "{}"
	}
	var (
		v   interface{}
		err error
	)
	switch t {
	case SectionSummary:
		c := SummaryContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	case SectionSkills:
		c := SkillsContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	case SectionWorkExperience:
		c := WorkExperienceContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	case SectionProjects:
		c := ProjectsContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	case SectionCertifications:
		c := CertificationsContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	case SectionCustom:
		c := CustomContent{}
		err = json.Unmarshal([]byte(raw), &c)
		v = c
	default:
		return nil, fmt.Errorf("unknown section type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s content: %w", t, err)
	}
	return v, nil
}

// EncodeContent serializes a payload back to the stored JSON form.
func EncodeContent(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
