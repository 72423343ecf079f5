package models

import "time"

type AchievementCategory string

const (
	CategoryStreak     AchievementCategory = "streak"
	CategoryWeight     AchievementCategory = "weight"
	CategoryAdherence  AchievementCategory = "adherence"
	CategoryFoodPhotos AchievementCategory = "food_photos"
	CategorySocial     AchievementCategory = "social"
	CategoryWorkout    AchievementCategory = "workout"
	CategoryMilestone  AchievementCategory = "milestone"
)

// Achievement is one catalog entry together with the user's evaluated state.
// Definitions are fixed at compile time; Progress/IsUnlocked are recomputed
// from an ActivitySnapshot on every evaluation.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Icon        string              `json:"icon"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"`
	Progress    int                 `json:"progress"`
	MaxProgress int                 `json:"max_progress"`
	IsUnlocked  bool                `json:"is_unlocked"`
	UnlockedAt  *time.Time          `json:"unlocked_at,omitempty"`
}

// ActivitySnapshot is the set of activity counters achievements are
// evaluated against. Counters the service cannot derive locally (social
// graph lives in the social backend) stay at zero until provided.
type ActivitySnapshot struct {
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
	DaysLogged      int     `json:"days_logged"`
	DaysGoalMet     int     `json:"days_goal_met"`
	WeightLostKg    float64 `json:"weight_lost_kg"`
	TodayPhotos     int     `json:"today_photos"`
	TotalPhotos     int     `json:"total_photos"`
	PhotoStreakDays int     `json:"photo_streak_days"`
	PostsCreated    int     `json:"posts_created"`
	Followers       int     `json:"followers"`
	WorkoutMinutes  int     `json:"workout_minutes"`
	WorkoutSessions int     `json:"workout_sessions"`
	MealsLogged     int     `json:"meals_logged"`
	ProductsScanned int     `json:"products_scanned"`
}
