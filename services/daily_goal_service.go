package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// DailyGoalService tracks the user's nutrient targets and rolls meal items
// up into one DailyProgress row per day.
type DailyGoalService struct {
	db       *gorm.DB
	meals    *MealService
	activity *ActivityLogService
}

func NewDailyGoalService(db *gorm.DB, meals *MealService, activity *ActivityLogService) *DailyGoalService {
	return &DailyGoalService{db: db, meals: meals, activity: activity}
}

func (s *DailyGoalService) GetGoalsAndProgress(userID uint) (*models.DailyGoal, map[string]interface{}, error) {
	return s.GetGoalsAndProgressByDate(userID, time.Now())
}

func (s *DailyGoalService) GetGoalsAndProgressByDate(userID uint, date time.Time) (*models.DailyGoal, map[string]interface{}, error) {
	var goal models.DailyGoal
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			goal = models.DailyGoal{UserID: userID}
		} else {
			return nil, nil, err
		}
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	end := start.Add(24 * time.Hour)

	meals, err := s.meals.ListMealsByDateRange(userID, start, end)
	if err != nil {
		return &goal, nil, err
	}

	var cals, prot, carbs, fat, sodium, sugar float64
	for _, m := range meals {
		for _, it := range m.Items {
			cals += it.Calories
			prot += it.Protein
			carbs += it.Carbs
			fat += it.Fat
			sodium += it.Sodium
			sugar += it.Sugar
		}
	}

	hydration, exercise, err := s.activity.GetDailyActivityByDate(userID, start)
	if err != nil {
		return &goal, nil, err
	}

	// Keep the daily rollup current so analytics reads it without summing
	// meal items again.
	dp := models.DailyProgress{
		UserID:    userID,
		Date:      start,
		Calories:  cals,
		Protein:   prot,
		Carbs:     carbs,
		Fat:       fat,
		Sodium:    sodium,
		Sugar:     sugar,
		Hydration: hydration,
		Exercise:  exercise,
	}
	s.db.Where("user_id = ? AND date = ?", userID, start).
		Assign(dp).
		FirstOrCreate(&dp)

	frac := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	progress := map[string]interface{}{
		"calories":  map[string]float64{"consumed": cals, "goal": goal.Calories, "percent": frac(cals, goal.Calories)},
		"protein":   map[string]float64{"consumed": prot, "goal": goal.Protein, "percent": frac(prot, goal.Protein)},
		"carbs":     map[string]float64{"consumed": carbs, "goal": goal.Carbs, "percent": frac(carbs, goal.Carbs)},
		"fat":       map[string]float64{"consumed": fat, "goal": goal.Fat, "percent": frac(fat, goal.Fat)},
		"sodium":    map[string]float64{"consumed": sodium, "goal": goal.Sodium, "percent": frac(sodium, goal.Sodium)},
		"sugar":     map[string]float64{"consumed": sugar, "goal": goal.Sugar, "percent": frac(sugar, goal.Sugar)},
		"hydration": map[string]float64{"consumed": hydration, "goal": goal.Hydration, "percent": frac(hydration, goal.Hydration)},
		"exercise":  map[string]float64{"consumed": exercise, "goal": goal.Exercise, "percent": frac(exercise, goal.Exercise)},
	}

	return &goal, progress, nil
}

func (s *DailyGoalService) UpsertGoals(
	userID uint,
	calories, protein, carbs, fat, sodium, sugar, hydration, exercise float64,
) error {
	var goal models.DailyGoal
	err := s.db.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.DailyGoal{
			UserID:    userID,
			Calories:  calories,
			Protein:   protein,
			Carbs:     carbs,
			Fat:       fat,
			Sodium:    sodium,
			Sugar:     sugar,
			Hydration: hydration,
			Exercise:  exercise,
		}
		return s.db.Create(&goal).Error
	}
	if err != nil {
		return err
	}

	goal.Calories = calories
	goal.Protein = protein
	goal.Carbs = carbs
	goal.Fat = fat
	goal.Sodium = sodium
	goal.Sugar = sugar
	goal.Hydration = hydration
	goal.Exercise = exercise
	return s.db.Save(&goal).Error
}

func (s *DailyGoalService) GetAllDailyProgress(userID uint) ([]models.DailyProgress, error) {
	var logs []models.DailyProgress
	err := s.db.Where("user_id = ?", userID).
		Order("date desc").
		Find(&logs).Error
	return logs, err
}
