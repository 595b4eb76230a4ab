package builder

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder-cli/internal/api"
	"github.com/jonathan/cv-builder-cli/internal/types"
)

// Section names one independently saved field group of the editor.
type Section string

// Editor sections. The first three carry bullet lists; summary and skills
// are scalar drafts.
const (
	SectionExperience Section = "experience"
	SectionEducation  Section = "education"
	SectionProjects   Section = "projects"
	SectionSummary    Section = "summary"
	SectionSkills     Section = "skills"
)

var allSections = []Section{
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionSummary,
	SectionSkills,
}

// drafts holds the per-section draft copies that diverge from the loaded
// document until explicitly saved. Drafts are deep copies; editing them
// never touches cvList.
type drafts struct {
	experience []types.ExperienceItem
	education  []types.EducationItem
	projects   []types.Project
	summary    string
	skills     string
	dirty      map[Section]bool
}

// loadFrom replaces every draft with the document's data and clears all
// dirty flags. Called on selection change, which discards unsaved edits.
func (d *drafts) loadFrom(doc *types.CVDocument) {
	d.dirty = make(map[Section]bool)
	if doc == nil {
		d.experience = nil
		d.education = nil
		d.projects = nil
		d.summary = ""
		d.skills = ""
		return
	}
	d.experience = copyExperience(doc.Experience)
	d.education = copyEducation(doc.Education)
	d.projects = copyProjects(doc.Projects)
	d.summary = doc.Summary
	d.skills = doc.Skills
}

func (d *drafts) dirtySections() []Section {
	var out []Section
	for _, sec := range allSections {
		if d.dirty[sec] {
			out = append(out, sec)
		}
	}
	return out
}

func copyBullets(b []string) []string {
	out := make([]string, len(b))
	copy(out, b)
	return out
}

func copyExperience(items []types.ExperienceItem) []types.ExperienceItem {
	out := make([]types.ExperienceItem, len(items))
	for i, item := range items {
		item.Bullets = copyBullets(item.Bullets)
		out[i] = item
	}
	return out
}

func copyEducation(items []types.EducationItem) []types.EducationItem {
	out := make([]types.EducationItem, len(items))
	for i, item := range items {
		item.Bullets = copyBullets(item.Bullets)
		out[i] = item
	}
	return out
}

func copyProjects(items []types.Project) []types.Project {
	out := make([]types.Project, len(items))
	for i, item := range items {
		item.Bullets = copyBullets(item.Bullets)
		out[i] = item
	}
	return out
}

// Dirty reports whether the section's draft has diverged from the last
// loaded value.
func (s *Store) Dirty(section Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts.dirty[section]
}

// MarkDirty flags a section as having unsaved changes. The suggestion
// engine calls this on accept and reject so the change is visibly pending
// a save.
func (s *Store) MarkDirty(section Section) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markDirtyLocked(section)
}

func (s *Store) markDirtyLocked(section Section) {
	if s.drafts.dirty == nil {
		s.drafts.dirty = make(map[Section]bool)
	}
	s.drafts.dirty[section] = true
}

// Experience returns a copy of the experience draft.
func (s *Store) Experience() []types.ExperienceItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyExperience(s.drafts.experience)
}

// Education returns a copy of the education draft.
func (s *Store) Education() []types.EducationItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEducation(s.drafts.education)
}

// Projects returns a copy of the projects draft.
func (s *Store) Projects() []types.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyProjects(s.drafts.projects)
}

// Summary returns the summary draft.
func (s *Store) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts.summary
}

// Skills returns the skills draft.
func (s *Store) Skills() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drafts.skills
}

// SetSummary replaces the summary draft.
func (s *Store) SetSummary(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.summary = text
	s.markDirtyLocked(SectionSummary)
}

// SetSkills replaces the skills draft.
func (s *Store) SetSkills(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts.skills = text
	s.markDirtyLocked(SectionSkills)
}

// AddExperience appends an item to the experience draft, assigning a local
// id when the item has none.
func (s *Store) AddExperience(item types.ExperienceItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Bullets = copyBullets(item.Bullets)
	s.drafts.experience = append(s.drafts.experience, item)
	s.markDirtyLocked(SectionExperience)
	return item.ID
}

// RemoveExperience removes an item from the experience draft by id.
func (s *Store) RemoveExperience(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drafts.experience {
		if s.drafts.experience[i].ID == id {
			s.drafts.experience = append(s.drafts.experience[:i], s.drafts.experience[i+1:]...)
			s.markDirtyLocked(SectionExperience)
			return nil
		}
	}
	return fmt.Errorf("unknown experience item: %s", id)
}

// AddEducation appends an item to the education draft.
func (s *Store) AddEducation(item types.EducationItem) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Bullets = copyBullets(item.Bullets)
	s.drafts.education = append(s.drafts.education, item)
	s.markDirtyLocked(SectionEducation)
	return item.ID
}

// RemoveEducation removes an item from the education draft by id.
func (s *Store) RemoveEducation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drafts.education {
		if s.drafts.education[i].ID == id {
			s.drafts.education = append(s.drafts.education[:i], s.drafts.education[i+1:]...)
			s.markDirtyLocked(SectionEducation)
			return nil
		}
	}
	return fmt.Errorf("unknown education item: %s", id)
}

// AddProject appends an item to the projects draft.
func (s *Store) AddProject(item types.Project) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.Bullets = copyBullets(item.Bullets)
	s.drafts.projects = append(s.drafts.projects, item)
	s.markDirtyLocked(SectionProjects)
	return item.ID
}

// RemoveProject removes an item from the projects draft by id.
func (s *Store) RemoveProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drafts.projects {
		if s.drafts.projects[i].ID == id {
			s.drafts.projects = append(s.drafts.projects[:i], s.drafts.projects[i+1:]...)
			s.markDirtyLocked(SectionProjects)
			return nil
		}
	}
	return fmt.Errorf("unknown project item: %s", id)
}

// bulletsLocked returns a pointer to the bullet slice of one draft item.
func (s *Store) bulletsLocked(section Section, itemID string) (*[]string, error) {
	switch section {
	case SectionExperience:
		for i := range s.drafts.experience {
			if s.drafts.experience[i].ID == itemID {
				return &s.drafts.experience[i].Bullets, nil
			}
		}
	case SectionEducation:
		for i := range s.drafts.education {
			if s.drafts.education[i].ID == itemID {
				return &s.drafts.education[i].Bullets, nil
			}
		}
	case SectionProjects:
		for i := range s.drafts.projects {
			if s.drafts.projects[i].ID == itemID {
				return &s.drafts.projects[i].Bullets, nil
			}
		}
	default:
		return nil, fmt.Errorf("section %s has no bullets", section)
	}
	return nil, fmt.Errorf("unknown %s item: %s", section, itemID)
}

// Bullets returns a copy of one draft item's bullet list.
func (s *Store) Bullets(section Section, itemID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return nil, err
	}
	return copyBullets(*bullets), nil
}

// AddBullet appends a bullet to one draft item.
func (s *Store) AddBullet(section Section, itemID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return err
	}
	*bullets = append(*bullets, text)
	s.markDirtyLocked(section)
	return nil
}

// EditBullet replaces the bullet at index.
func (s *Store) EditBullet(section Section, itemID string, index int, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*bullets) {
		return fmt.Errorf("bullet index %d out of range", index)
	}
	(*bullets)[index] = text
	s.markDirtyLocked(section)
	return nil
}

// RemoveBullet removes the bullet at index.
func (s *Store) RemoveBullet(section Section, itemID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*bullets) {
		return fmt.Errorf("bullet index %d out of range", index)
	}
	*bullets = append((*bullets)[:index], (*bullets)[index+1:]...)
	s.markDirtyLocked(section)
	return nil
}

// MoveBullet reorders a bullet from one index to another. Order is
// significant and saved verbatim, so reordering is a real edit.
func (s *Store) MoveBullet(section Section, itemID string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return err
	}
	n := len(*bullets)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("bullet index out of range")
	}
	if from == to {
		return nil
	}
	b := *bullets
	moved := b[from]
	b = append(b[:from], b[from+1:]...)
	b = append(b[:to], append([]string{moved}, b[to:]...)...)
	*bullets = b
	s.markDirtyLocked(section)
	return nil
}

// ReplaceBulletText replaces every bullet in one draft item whose text
// equals original and returns how many were replaced. Identity is text
// equality, so duplicate bullets are all updated together.
func (s *Store) ReplaceBulletText(section Section, itemID, original, enhanced string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bullets, err := s.bulletsLocked(section, itemID)
	if err != nil {
		return 0, err
	}
	replaced := 0
	for i, b := range *bullets {
		if b == original {
			(*bullets)[i] = enhanced
			replaced++
		}
	}
	if replaced > 0 {
		s.markDirtyLocked(section)
	}
	return replaced, nil
}

// SaveSection persists one section's draft via a partial update and clears
// its dirty flag. Other sections' drafts are untouched.
func (s *Store) SaveSection(ctx context.Context, section Section) error {
	s.mu.Lock()
	cur := s.currentLocked()
	if cur == nil {
		s.mu.Unlock()
		return ErrNoCurrentCV
	}
	id := cur.ID

	var req api.UpdateCVRequest
	switch section {
	case SectionExperience:
		items := copyExperience(s.drafts.experience)
		req.Experience = &items
	case SectionEducation:
		items := copyEducation(s.drafts.education)
		req.Education = &items
	case SectionProjects:
		items := copyProjects(s.drafts.projects)
		req.Projects = &items
	case SectionSummary:
		summary := s.drafts.summary
		req.Summary = &summary
	case SectionSkills:
		skills := s.drafts.skills
		req.Skills = &skills
	default:
		s.mu.Unlock()
		return fmt.Errorf("unknown section: %s", section)
	}
	s.mu.Unlock()

	if _, err := s.api.UpdateCV(ctx, id, req); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.drafts.dirty, section)
	s.mu.Unlock()

	return s.Refresh(ctx)
}
