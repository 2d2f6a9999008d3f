package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Уровни опыта навыка.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceExpert       = "expert"
)

// ValidExperienceLevels список допустимых уровней опыта.
var ValidExperienceLevels = map[string]struct{}{
	ExperienceBeginner:     {},
	ExperienceIntermediate: {},
	ExperienceExpert:       {},
}

// Category категория навыков, название уникально.
type Category struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IconURL     *string   `db:"icon_url" json:"icon_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Skill навык специалиста в категории.
type Skill struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	UserID            uuid.UUID      `db:"user_id" json:"user_id"`
	CategoryID        uuid.UUID      `db:"category_id" json:"category_id"`
	SkillName         string         `db:"skill_name" json:"skill_name"`
	ExperienceLevel   string         `db:"experience_level" json:"experience_level"`
	YearsOfExperience *int           `db:"years_of_experience" json:"years_of_experience,omitempty"`
	Certifications    pq.StringArray `db:"certifications" json:"certifications"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// SkillWithCategory навык вместе с категорией.
type SkillWithCategory struct {
	Skill
	Category *Category `json:"category,omitempty"`
}

// SkillWithUser навык вместе со специалистом.
type SkillWithUser struct {
	Skill
	User *PublicUser `json:"user,omitempty"`
}

// SkillInput данные для добавления навыка.
type SkillInput struct {
	CategoryID        uuid.UUID `json:"category_id"`
	SkillName         string    `json:"skill_name"`
	ExperienceLevel   string    `json:"experience_level"`
	YearsOfExperience *int      `json:"years_of_experience"`
	Certifications    []string  `json:"certifications"`
}

// SkillUpdate частичное обновление навыка.
type SkillUpdate struct {
	ExperienceLevel   *string   `json:"experience_level"`
	YearsOfExperience *int      `json:"years_of_experience"`
	Certifications    *[]string `json:"certifications"`
}

// CategoryInput данные для создания и изменения категории.
type CategoryInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	IconURL     *string `json:"icon_url"`
}
