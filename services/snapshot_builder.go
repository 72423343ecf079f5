package services

import (
	"context"
	"log"
	"time"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// SnapshotBuilder assembles the ActivitySnapshot the achievement engine
// evaluates. Each counter comes from its system of record; a failing source
// leaves its counters at zero rather than failing the whole snapshot.
type SnapshotBuilder struct {
	meals     *MealService
	streaks   *StreakRepository
	analytics *AnalyticsService
	activity  *ActivityLogService
	users     *UserService
}

func NewSnapshotBuilder(meals *MealService, streaks *StreakRepository, analytics *AnalyticsService, activity *ActivityLogService, users *UserService) *SnapshotBuilder {
	return &SnapshotBuilder{
		meals:     meals,
		streaks:   streaks,
		analytics: analytics,
		activity:  activity,
		users:     users,
	}
}

func (b *SnapshotBuilder) Build(ctx context.Context, userID uint) models.ActivitySnapshot {
	var snap models.ActivitySnapshot

	if current, longest, err := b.analytics.LoggingStreaks(ctx, userID); err == nil {
		snap.CurrentStreak = current
		snap.LongestStreak = longest
	} else {
		log.Printf("snapshot: logging streaks for user %d: %v", userID, err)
	}
	if n, err := b.analytics.DaysLogged(ctx, userID); err == nil {
		snap.DaysLogged = n
	}
	if n, err := b.analytics.DaysGoalMet(ctx, userID); err == nil {
		snap.DaysGoalMet = n
	}

	if streak, err := b.streaks.Load(userID); err == nil {
		snap.PhotoStreakDays = streak.CurrentStreak
	}
	if n, err := b.meals.LifetimePhotoCount(userID); err == nil {
		snap.TotalPhotos = n
	}
	if n, err := b.meals.CountPhotosOn(userID, time.Now()); err == nil {
		snap.TodayPhotos = n
	}
	if n, err := b.meals.MealsLogged(userID); err == nil {
		snap.MealsLogged = n
	}
	if n, err := b.meals.ProductsScanned(userID); err == nil {
		snap.ProductsScanned = n
	}

	if minutes, sessions, err := b.activity.WorkoutTotals(userID); err == nil {
		snap.WorkoutMinutes = minutes
		snap.WorkoutSessions = sessions
	}

	if user, err := b.users.GetByID(userID); err == nil {
		if lost := user.StartWeight - user.Weight; lost > 0 {
			snap.WeightLostKg = lost
		}
	}

	// Social counters live in the social backend; callers overlay them on the
	// returned snapshot from client-reported values.
	return snap
}
