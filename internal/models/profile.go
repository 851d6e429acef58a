package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds the health attributes used to personalise label analysis.
// Every attribute is optional; nil means "not provided".
type Profile struct {
	ID      uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"owner_id"`

	// Biometrics
	Age           *int     `json:"age"`
	Weight        *float64 `json:"weight"` // kg
	Height        *float64 `json:"height"` // cm
	Gender        *string  `gorm:"size:32" json:"gender"`
	ActivityLevel *string  `gorm:"size:64" json:"activity_level"`

	PrimaryGoal *string `gorm:"size:128" json:"primary_goal"`

	// Comma-separated free text, e.g. "Diabetes,Hypertension"
	HealthConditions *string `gorm:"type:text" json:"health_conditions"`
	Allergies        *string `gorm:"type:text" json:"allergies"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ProfileFields is a partial set of profile attributes. Nil fields are left untouched by Merge.
type ProfileFields struct {
	Age              *int     `json:"age"`
	Weight           *float64 `json:"weight"`
	Height           *float64 `json:"height"`
	Gender           *string  `json:"gender"`
	ActivityLevel    *string  `json:"activity_level"`
	PrimaryGoal      *string  `json:"primary_goal"`
	HealthConditions *string  `json:"health_conditions"`
	Allergies        *string  `json:"allergies"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Merge copies every non-nil field of f onto the profile.
func (p *Profile) Merge(f ProfileFields) {
	if f.Age != nil {
		p.Age = f.Age
	}
	if f.Weight != nil {
		p.Weight = f.Weight
	}
	if f.Height != nil {
		p.Height = f.Height
	}
	if f.Gender != nil {
		p.Gender = f.Gender
	}
	if f.ActivityLevel != nil {
		p.ActivityLevel = f.ActivityLevel
	}
	if f.PrimaryGoal != nil {
		p.PrimaryGoal = f.PrimaryGoal
	}
	if f.HealthConditions != nil {
		p.HealthConditions = f.HealthConditions
	}
	if f.Allergies != nil {
		p.Allergies = f.Allergies
	}
}

// Conditions splits HealthConditions into trimmed, non-empty entries.
func (p *Profile) Conditions() []string {
	return splitList(p.HealthConditions)
}

// AllergyList splits Allergies into trimmed, non-empty entries.
func (p *Profile) AllergyList() []string {
	return splitList(p.Allergies)
}

func splitList(s *string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(*s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
