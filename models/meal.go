package models

import (
	"time"

	"gorm.io/gorm"
)

// One Meal (breakfast/lunch/…). PhotoURL is the S3/CloudFront URL of the
// meal photo; an empty value means the meal was logged without a photo.
type Meal struct {
	gorm.Model
	UserID   uint `gorm:"index;not null"`
	Type     string
	AteAt    time.Time `gorm:"index"`
	PhotoURL string
	Items    []MealItem
}

// Each MealItem stores the nutrition snapshot & scoring result taken at
// log time, so later catalog changes do not rewrite history.
type MealItem struct {
	gorm.Model
	MealID uint
	Meal   Meal

	Barcode   string `gorm:"type:varchar(64)"` // catalog barcode, empty for manual entries
	FoodLabel string
	Quantity  float64 // grams

	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	Sodium   float64
	Sugar    float64
	Fiber    float64

	Score    int    // personalized score 0-100 at log time, 0 when unscored
	Safe     bool   // no restriction warnings at log time
	Warnings string // semicolon-separated restriction warnings
}
