package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// ActivityLogService tracks per-day hydration and exercise entries.
type ActivityLogService struct{ db *gorm.DB }

func NewActivityLogService(db *gorm.DB) *ActivityLogService {
	return &ActivityLogService{db: db}
}

func dayStartLocal(t time.Time) time.Time {
	loc := time.Local
	tt := t.In(loc)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, loc)
}

// UpsertDailyActivity records today's hydration/exercise, one row per day.
func (s *ActivityLogService) UpsertDailyActivity(userID uint, hydration, exercise float64) error {
	start := dayStartLocal(time.Now())

	log := models.DailyActivityLog{
		UserID:    userID,
		Date:      start,
		Hydration: hydration,
		Exercise:  exercise,
	}
	return s.db.
		Where("user_id = ? AND date = ?", userID, start).
		Assign(log).
		FirstOrCreate(&log).Error
}

func (s *ActivityLogService) GetDailyActivity(userID uint) (hydration, exercise float64, err error) {
	return s.GetDailyActivityByDate(userID, time.Now())
}

func (s *ActivityLogService) GetDailyActivityByDate(userID uint, date time.Time) (hydration, exercise float64, err error) {
	start := dayStartLocal(date)

	var log models.DailyActivityLog
	err = s.db.
		Where("user_id = ? AND date = ?", userID, start).
		First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	return log.Hydration, log.Exercise, nil
}

// WorkoutTotals feeds the workout achievements: total exercise minutes ever
// logged, and the number of days with a nonzero exercise entry.
func (s *ActivityLogService) WorkoutTotals(userID uint) (minutes, sessions int, err error) {
	var sum struct{ Total float64 }
	if err := s.db.Model(&models.DailyActivityLog{}).
		Where("user_id = ? AND exercise > 0", userID).
		Select("COALESCE(SUM(exercise), 0) AS total").
		Scan(&sum).Error; err != nil {
		return 0, 0, err
	}

	var count int64
	if err := s.db.Model(&models.DailyActivityLog{}).
		Where("user_id = ? AND exercise > 0", userID).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	return int(sum.Total), int(count), nil
}
