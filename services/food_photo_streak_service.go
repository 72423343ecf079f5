package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// PhotosPerStreakDay is how many meal photos a calendar day needs before it
// counts toward the photo streak.
const PhotosPerStreakDay = 3

// MealPhotoSource reads photo counts from the meal log. The gorm meal
// service implements it; streak tests use a fake.
type MealPhotoSource interface {
	CountPhotosOn(userID uint, date time.Time) (int, error)
	LifetimePhotoCount(userID uint) (int, error)
}

// StreakUpdate is the outcome of a photo upload or delete transition.
type StreakUpdate struct {
	Streak               models.FoodPhotoStreakData `json:"streak"`
	AchievementsUnlocked []models.Achievement       `json:"achievements_unlocked,omitempty"`
	AchievementsRevoked  []string                   `json:"achievements_revoked,omitempty"`
}

// FoodPhotoStreakService maintains the per-user photo streak. Counters are
// re-derived from the meal log on every call, which makes the service
// self-healing when an update call was missed; the persisted record only
// carries the qualifying-day set and the cached counters.
type FoodPhotoStreakService struct {
	streaks  *StreakRepository
	unlocked *UnlockedRepository
	photos   MealPhotoSource
	now      func() time.Time
}

func NewFoodPhotoStreakService(streaks *StreakRepository, unlocked *UnlockedRepository, photos MealPhotoSource) *FoodPhotoStreakService {
	return &FoodPhotoStreakService{
		streaks:  streaks,
		unlocked: unlocked,
		photos:   photos,
		now:      time.Now,
	}
}

// OnPhotoUploaded runs the upload transition: refresh today's counts from
// the meal log, mark today qualifying when the threshold is reached, and
// unlock any food-photo achievements the new state satisfies.
func (s *FoodPhotoStreakService) OnPhotoUploaded(userID uint) (*StreakUpdate, error) {
	data, err := s.loadOrDefault(userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	todayPhotos, err := s.photos.CountPhotosOn(userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count today's photos: %w", err)
	}
	total, err := s.photos.LifetimePhotoCount(userID)
	if err != nil {
		return nil, fmt.Errorf("count lifetime photos: %w", err)
	}

	data.TodayPhotos = todayPhotos
	data.TotalPhotos = total

	if todayPhotos >= PhotosPerStreakDay && !data.HasDay(today) {
		data.StreakDays = append(data.StreakDays, today)
		sort.Strings(data.StreakDays)
		data.LastStreakDate = today
	}
	data.CurrentStreak = consecutiveSuffix(data.StreakDays, today)
	if data.CurrentStreak > data.LongestStreak {
		data.LongestStreak = data.CurrentStreak
	}

	unlocked, err := s.unlockNew(userID, data)
	if err != nil {
		return nil, err
	}
	if err := s.streaks.Save(userID, data); err != nil {
		return nil, err
	}

	return &StreakUpdate{Streak: data, AchievementsUnlocked: unlocked}, nil
}

// OnPhotoDeleted runs the delete transition. When today drops back below the
// threshold it loses qualifying status, the streak is recomputed, and the
// achievements that depended on today are revoked from the allow-list.
func (s *FoodPhotoStreakService) OnPhotoDeleted(userID uint) (*StreakUpdate, error) {
	data, err := s.loadOrDefault(userID)
	if err != nil {
		return nil, err
	}

	today := s.today()
	todayPhotos, err := s.photos.CountPhotosOn(userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("count today's photos: %w", err)
	}
	total, err := s.photos.LifetimePhotoCount(userID)
	if err != nil {
		return nil, fmt.Errorf("count lifetime photos: %w", err)
	}

	var revoked []string
	lostToday := data.HasDay(today) && todayPhotos < PhotosPerStreakDay
	if lostToday {
		data.StreakDays = removeDay(data.StreakDays, today)
		if data.LastStreakDate == today {
			data.LastStreakDate = lastDay(data.StreakDays)
		}
	}

	data.TodayPhotos = todayPhotos
	data.TotalPhotos = total
	data.CurrentStreak = consecutiveSuffix(data.StreakDays, today)

	if lostToday {
		revoked = append(revoked, AchThreeInADay)
		if data.CurrentStreak < 7 {
			revoked = append(revoked, AchPhotoStreak7)
		}
		if data.CurrentStreak < 30 {
			revoked = append(revoked, AchPhotoStreak30)
		}
		if err := s.revoke(userID, revoked); err != nil {
			return nil, err
		}
	}

	if err := s.streaks.Save(userID, data); err != nil {
		return nil, err
	}

	return &StreakUpdate{Streak: data, AchievementsRevoked: revoked}, nil
}

// StreakProgress is the read-only view of today's progress toward a
// qualifying day, plus the current streak record.
type StreakProgress struct {
	Streak             models.FoodPhotoStreakData `json:"streak"`
	TodayPhotos        int                        `json:"today_photos"`
	PhotosNeeded       int                        `json:"photos_needed"`
	ProgressPercentage int                        `json:"progress_percentage"`
}

// GetProgress refreshes the counters from the meal log and returns today's
// progress toward a qualifying day, without running a transition.
func (s *FoodPhotoStreakService) GetProgress(userID uint) (*StreakProgress, error) {
	data, err := s.loadOrDefault(userID)
	if err != nil {
		return nil, err
	}
	if todayPhotos, err := s.photos.CountPhotosOn(userID, s.now()); err == nil {
		data.TodayPhotos = todayPhotos
	}
	if total, err := s.photos.LifetimePhotoCount(userID); err == nil {
		data.TotalPhotos = total
	}
	data.CurrentStreak = consecutiveSuffix(data.StreakDays, s.today())

	needed := PhotosPerStreakDay - data.TodayPhotos
	if needed < 0 {
		needed = 0
	}
	pct := data.TodayPhotos * 100 / PhotosPerStreakDay
	if pct > 100 {
		pct = 100
	}
	return &StreakProgress{
		Streak:             data,
		TodayPhotos:        data.TodayPhotos,
		PhotosNeeded:       needed,
		ProgressPercentage: pct,
	}, nil
}

// Reset clears counters and the qualifying-day set. The unlock allow-list is
// cleared too, so a reset account has to earn its photo achievements again.
func (s *FoodPhotoStreakService) Reset(userID uint) error {
	if err := s.streaks.Save(userID, models.FoodPhotoStreakData{StreakDays: []string{}}); err != nil {
		return err
	}
	set, err := s.unlocked.Load(userID)
	if err != nil {
		return err
	}
	for _, def := range FoodPhotoDefinitions() {
		delete(set, def.ID)
	}
	return s.unlocked.Save(userID, set)
}

func (s *FoodPhotoStreakService) loadOrDefault(userID uint) (models.FoodPhotoStreakData, error) {
	data, err := s.streaks.Load(userID)
	if err != nil {
		log.Printf("load streak for user %d failed, using defaults: %v", userID, err)
		return models.FoodPhotoStreakData{StreakDays: []string{}}, nil
	}
	if data.StreakDays == nil {
		data.StreakDays = []string{}
	}
	return data, nil
}

// unlockNew evaluates the food-photo definitions against the fresh streak
// state, records new unlocks in the allow-list, and returns only those.
func (s *FoodPhotoStreakService) unlockNew(userID uint, data models.FoodPhotoStreakData) ([]models.Achievement, error) {
	set, err := s.unlocked.Load(userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var newly []models.Achievement
	for _, def := range FoodPhotoDefinitions() {
		if set[def.ID] || !photoAchievementSatisfied(def.ID, data) {
			continue
		}
		set[def.ID] = true
		a := def
		a.Progress = a.MaxProgress
		a.IsUnlocked = true
		a.UnlockedAt = &now
		newly = append(newly, a)
	}

	if len(newly) > 0 {
		if err := s.unlocked.Save(userID, set); err != nil {
			return nil, err
		}
	}
	return newly, nil
}

func (s *FoodPhotoStreakService) revoke(userID uint, ids []string) error {
	set, err := s.unlocked.Load(userID)
	if err != nil {
		return err
	}
	changed := false
	for _, id := range ids {
		if set[id] {
			delete(set, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.unlocked.Save(userID, set)
}

func photoAchievementSatisfied(id string, data models.FoodPhotoStreakData) bool {
	switch id {
	case AchFirstPhoto:
		return data.TotalPhotos >= 1
	case AchThreeInADay:
		return data.TodayPhotos >= PhotosPerStreakDay
	case AchPhotoStreak7:
		return data.CurrentStreak >= 7
	case AchPhotoStreak30:
		return data.CurrentStreak >= 30
	case AchPhotos50:
		return data.TotalPhotos >= 50
	case AchPhotos100:
		return data.TotalPhotos >= 100
	}
	return false
}

func (s *FoodPhotoStreakService) today() string {
	return s.now().Format("2006-01-02")
}

// consecutiveSuffix computes the length of the run of consecutive calendar
// days present in days that ends at today or yesterday. A qualifying run
// that ended two or more days ago is a broken streak and counts zero.
func consecutiveSuffix(days []string, today string) int {
	if len(days) == 0 {
		return 0
	}
	set := make(map[string]bool, len(days))
	for _, d := range days {
		set[d] = true
	}

	end, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0
	}
	if !set[today] {
		end = end.AddDate(0, 0, -1)
		if !set[end.Format("2006-01-02")] {
			return 0
		}
	}

	streak := 0
	for set[end.Format("2006-01-02")] {
		streak++
		end = end.AddDate(0, 0, -1)
	}
	return streak
}

func removeDay(days []string, date string) []string {
	out := days[:0]
	for _, d := range days {
		if d != date {
			out = append(out, d)
		}
	}
	return out
}

func lastDay(days []string) string {
	if len(days) == 0 {
		return ""
	}
	return days[len(days)-1]
}
