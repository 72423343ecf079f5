package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID   string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`

	FirstName      string
	LastName       string
	Birthday       time.Time
	Height         float64 // cm
	Weight         float64 // kg
	StartWeight    float64 // kg at onboarding, basis for weight-loss achievements
	ProfilePicture string

	// Restriction context for personalized product analysis.
	NutritionGoal  string  // "lose_weight" | "build_muscle" | "athletic_performance" | "maintain"
	Allergies      string  // comma-separated allergy names, e.g. "milk,gluten"
	Conditions     string  // comma-separated condition codes, e.g. "diabetes,hypertension"
	TargetCalories float64 // kcal/day

	MFAEnabled    bool
	MFACode       string
	ResetToken    string
	ResetTokenExp time.Time
	Onboarded     bool
	Disabled      bool
}

// AllergyList splits the stored comma-separated allergies, trimmed and lowercased.
func (u *User) AllergyList() []string {
	return splitCSV(u.Allergies)
}

// ConditionList splits the stored comma-separated condition codes.
func (u *User) ConditionList() []string {
	return splitCSV(u.Conditions)
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
