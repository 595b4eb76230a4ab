// Package types provides type definitions for structured data used throughout the cv-builder client.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// ContactInfo holds the contact block shown at the top of a CV.
type ContactInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin_url,omitempty"`
	GitHub   string `json:"github_url,omitempty"`
	Website  string `json:"website_url,omitempty"`
}

// ExperienceItem is one work-experience entry. Bullets order is significant
// and is preserved verbatim on save.
type ExperienceItem struct {
	ID        string   `json:"id"`
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date,omitempty"`
	Current   bool     `json:"current,omitempty"`
	Bullets   []string `json:"bullets"`
}

// EducationItem is one education entry.
type EducationItem struct {
	ID          string   `json:"id"`
	Institution string   `json:"institution"`
	Degree      string   `json:"degree"`
	Field       string   `json:"field_of_study,omitempty"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	GPA         string   `json:"gpa,omitempty"`
	Bullets     []string `json:"bullets"`
}

// Project is one project entry.
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Bullets      []string `json:"bullets"`
}

// CVDocument is one candidate-authored CV variant. A candidate may own
// several; at most one has IsPrimary set (the server enforces uniqueness).
type CVDocument struct {
	ID          string           `json:"id"`
	CandidateID string           `json:"candidate_id"`
	Name        string           `json:"name"`
	Contact     ContactInfo      `json:"contact_info"`
	Summary     string           `json:"summary,omitempty"`
	Experience  []ExperienceItem `json:"experience"`
	Education   []EducationItem  `json:"education"`
	Skills      string           `json:"skills,omitempty"`
	Projects    []Project        `json:"projects"`
	TemplateID  string           `json:"selected_template,omitempty"`
	IsPrimary   bool             `json:"is_primary"`
	LatestScore *CVScore         `json:"latest_score,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// SectionType identifies a bullet-bearing CV section.
type SectionType string

// Section type constants used by enhancement requests and section editors.
const (
	SectionExperience SectionType = "experience"
	SectionEducation  SectionType = "education"
	SectionProjects   SectionType = "projects"
)

// EnsureItemIDs assigns a locally generated id to any section item that
// came back from the server without one. The ids key UI state and diff
// tracking client-side; they are not guaranteed stable across reloads
// unless the backend persists them.
func (d *CVDocument) EnsureItemIDs() {
	for i := range d.Experience {
		if d.Experience[i].ID == "" {
			d.Experience[i].ID = uuid.NewString()
		}
	}
	for i := range d.Education {
		if d.Education[i].ID == "" {
			d.Education[i].ID = uuid.NewString()
		}
	}
	for i := range d.Projects {
		if d.Projects[i].ID == "" {
			d.Projects[i].ID = uuid.NewString()
		}
	}
}
