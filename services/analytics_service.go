package services

import (
	"context"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

type AnalyticsService struct{ db *gorm.DB }

func NewAnalyticsService(db *gorm.DB) *AnalyticsService { return &AnalyticsService{db: db} }

// ---------- Summary ----------

type NutrAvg struct {
	AvgConsumed float64 `json:"avg_consumed"`
	AvgGoal     float64 `json:"avg_goal,omitempty"`
	AvgPercent  float64 `json:"avg_percent,omitempty"`
	Unit        string  `json:"unit,omitempty"`
}

type AnalyticsSummary struct {
	Range struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"range"`

	Macros map[string]NutrAvg `json:"macros"` // calories, protein, carbs, fat
	Micros map[string]NutrAvg `json:"micros"` // sodium, sugar

	Scoring struct {
		AvgItemScore float64 `json:"avg_item_score"`
		TotalItems   int64   `json:"total_items,omitempty"`
		UnsafeItems  int64   `json:"unsafe_items,omitempty"`
	} `json:"scoring"`

	Metadata struct {
		DaysCounted        int  `json:"days_counted"`
		IncludeMissingDays bool `json:"include_missing_days"`
	} `json:"metadata"`
}

func (s *AnalyticsService) Summary(
	ctx context.Context, userID uint, from, to time.Time, includeMissing bool,
) (*AnalyticsSummary, error) {

	var rows []models.DailyProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	goal, err := s.getGoalSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := map[string]models.DailyProgress{}
	for _, r := range rows {
		idx[r.Date.Format("2006-01-02")] = r
	}

	type acc struct{ sum, gsum, psum float64 }
	m := map[string]*acc{
		"calories": {}, "protein": {}, "carbs": {}, "fat": {},
		"sodium": {}, "sugar": {},
	}

	var dates []time.Time
	if includeMissing {
		for d := dayStart(from); !d.After(to); d = d.AddDate(0, 0, 1) {
			dates = append(dates, d)
		}
	} else {
		for _, r := range rows {
			dates = append(dates, dayStart(r.Date))
		}
	}

	for _, d := range dates {
		dp := idx[d.Format("2006-01-02")]

		m["calories"].sum += dp.Calories
		m["protein"].sum += dp.Protein
		m["carbs"].sum += dp.Carbs
		m["fat"].sum += dp.Fat
		m["sodium"].sum += dp.Sodium
		m["sugar"].sum += dp.Sugar

		type pair struct {
			g float64
			k string
			c float64
		}
		for _, p := range []pair{
			{goal.Calories, "calories", dp.Calories},
			{goal.Protein, "protein", dp.Protein},
			{goal.Carbs, "carbs", dp.Carbs},
			{goal.Fat, "fat", dp.Fat},
			{goal.Sodium, "sodium", dp.Sodium},
			{goal.Sugar, "sugar", dp.Sugar},
		} {
			m[p.k].gsum += p.g
			if p.g > 0 {
				m[p.k].psum += (p.c / p.g) * 100.0
			}
		}
	}

	itemScore, totalItems, unsafeItems, err := s.itemScoreBreakdown(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out := &AnalyticsSummary{}
	out.Range.From = from.Format("2006-01-02")
	out.Range.To = to.Format("2006-01-02")
	out.Metadata.DaysCounted = len(dates)
	out.Metadata.IncludeMissingDays = includeMissing

	n := len(dates)
	out.Macros = map[string]NutrAvg{
		"calories": {AvgConsumed: avg(m["calories"].sum, n), AvgGoal: avg(m["calories"].gsum, n), AvgPercent: avg(m["calories"].psum, n), Unit: "kcal"},
		"protein":  {AvgConsumed: avg(m["protein"].sum, n), AvgGoal: avg(m["protein"].gsum, n), AvgPercent: avg(m["protein"].psum, n), Unit: "g"},
		"carbs":    {AvgConsumed: avg(m["carbs"].sum, n), AvgGoal: avg(m["carbs"].gsum, n), AvgPercent: avg(m["carbs"].psum, n), Unit: "g"},
		"fat":      {AvgConsumed: avg(m["fat"].sum, n), AvgGoal: avg(m["fat"].gsum, n), AvgPercent: avg(m["fat"].psum, n), Unit: "g"},
	}
	out.Micros = map[string]NutrAvg{
		"sodium": {AvgConsumed: avg(m["sodium"].sum, n), AvgGoal: avg(m["sodium"].gsum, n), AvgPercent: avg(m["sodium"].psum, n), Unit: "mg"},
		"sugar":  {AvgConsumed: avg(m["sugar"].sum, n), AvgGoal: avg(m["sugar"].gsum, n), AvgPercent: avg(m["sugar"].psum, n), Unit: "g"},
	}
	out.Scoring.AvgItemScore = itemScore
	out.Scoring.TotalItems = totalItems
	out.Scoring.UnsafeItems = unsafeItems

	return out, nil
}

// ---------- Weekly Overview ----------

type WeeklyOverviewResponse struct {
	WeekStart string `json:"week_start"`
	Mode      string `json:"mode"` // chart|detailed
	Days      any    `json:"days"`
}

type DayChart struct {
	Date        string             `json:"date"`
	Percentages map[string]float64 `json:"percentages"`
}
type Metric struct {
	Actual  float64 `json:"actual"`
	Target  float64 `json:"target"`
	Percent float64 `json:"percent"`
}
type DayDetailed struct {
	Date    string            `json:"date"`
	Metrics map[string]Metric `json:"metrics"`
}

func (s *AnalyticsService) WeeklyOverview(
	ctx context.Context, userID uint, weekStart time.Time, mode string,
) (*WeeklyOverviewResponse, error) {

	if mode != "chart" && mode != "detailed" {
		return nil, errors.New("mode must be 'chart' or 'detailed'")
	}

	from := dayStart(weekStart)
	to := from.AddDate(0, 0, 6)

	var rows []models.DailyProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, from, dayEnd(to)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	idx := map[string]models.DailyProgress{}
	for _, r := range rows {
		idx[r.Date.Format("2006-01-02")] = r
	}

	goal, err := s.getGoalSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &WeeklyOverviewResponse{
		WeekStart: from.Format("2006-01-02"),
		Mode:      mode,
	}

	if mode == "chart" {
		var days []DayChart
		for i := 0; i < 7; i++ {
			key := from.AddDate(0, 0, i).Format("2006-01-02")
			dp := idx[key]
			days = append(days, DayChart{
				Date: key,
				Percentages: map[string]float64{
					"calories":      pct(dp.Calories, goal.Calories),
					"protein":       pct(dp.Protein, goal.Protein),
					"carbohydrates": pct(dp.Carbs, goal.Carbs),
					"fat":           pct(dp.Fat, goal.Fat),
					"sodium":        pct(dp.Sodium, goal.Sodium),
					"sugar":         pct(dp.Sugar, goal.Sugar),
				},
			})
		}
		out.Days = days
		return out, nil
	}

	var days []DayDetailed
	for i := 0; i < 7; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		dp := idx[key]
		days = append(days, DayDetailed{
			Date: key,
			Metrics: map[string]Metric{
				"calories":  {Actual: round2(dp.Calories), Target: round2(goal.Calories), Percent: pct(dp.Calories, goal.Calories)},
				"protein_g": {Actual: round2(dp.Protein), Target: round2(goal.Protein), Percent: pct(dp.Protein, goal.Protein)},
				"carbs_g":   {Actual: round2(dp.Carbs), Target: round2(goal.Carbs), Percent: pct(dp.Carbs, goal.Carbs)},
				"fat_g":     {Actual: round2(dp.Fat), Target: round2(goal.Fat), Percent: pct(dp.Fat, goal.Fat)},
				"sodium_mg": {Actual: round2(dp.Sodium), Target: round2(goal.Sodium), Percent: pct(dp.Sodium, goal.Sodium)},
				"sugar_g":   {Actual: round2(dp.Sugar), Target: round2(goal.Sugar), Percent: pct(dp.Sugar, goal.Sugar)},
			},
		})
	}
	out.Days = days
	return out, nil
}

// ---------- Achievement feeds ----------

// DaysGoalMet counts calendar days whose logged calories landed within 10%
// of the user's calorie target. Feeds the adherence achievements.
func (s *AnalyticsService) DaysGoalMet(ctx context.Context, userID uint) (int, error) {
	goal, err := s.getGoalSnapshot(ctx, userID)
	if err != nil {
		return 0, err
	}
	if goal.Calories <= 0 {
		return 0, nil
	}
	lo := goal.Calories * 0.9
	hi := goal.Calories * 1.1

	var count int64
	err = s.db.WithContext(ctx).
		Model(&models.DailyProgress{}).
		Where("user_id = ? AND calories >= ? AND calories <= ?", userID, lo, hi).
		Count(&count).Error
	return int(count), err
}

// DaysLogged counts calendar days with any progress row at all.
func (s *AnalyticsService) DaysLogged(ctx context.Context, userID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.DailyProgress{}).
		Where("user_id = ? AND calories > 0", userID).
		Count(&count).Error
	return int(count), err
}

// LoggingStreaks returns the current and longest run of consecutive days
// with logged calories, walking the progress rows newest-first.
func (s *AnalyticsService) LoggingStreaks(ctx context.Context, userID uint) (current, longest int, err error) {
	var rows []models.DailyProgress
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND calories > 0", userID).
		Order("date ASC").
		Find(&rows).Error; err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}

	run := 1
	longest = 1
	for i := 1; i < len(rows); i++ {
		prev := dayStart(rows[i-1].Date)
		cur := dayStart(rows[i].Date)
		if cur.Sub(prev) == 24*time.Hour {
			run++
		} else if cur.After(prev) {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// The trailing run only counts as current when it reaches today or
	// yesterday.
	last := dayStart(rows[len(rows)-1].Date)
	today := dayStart(time.Now())
	if today.Sub(last) <= 24*time.Hour {
		current = run
	}
	return current, longest, nil
}

func (s *AnalyticsService) itemScoreBreakdown(ctx context.Context, userID uint, from, to time.Time) (avgScore float64, total, unsafe int64, err error) {
	// Session makes base safely reusable: each finisher below builds its own
	// statement instead of re-executing the first one's SQL.
	base := s.db.WithContext(ctx).
		Model(&models.MealItem{}).
		Joins("JOIN meals ON meals.id = meal_items.meal_id").
		Where("meals.user_id = ? AND meals.ate_at BETWEEN ? AND ?", userID, dayStart(from), dayEnd(to)).
		Session(&gorm.Session{})

	if err = base.Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}
	if err = base.Where("meal_items.safe = ?", false).Count(&unsafe).Error; err != nil {
		return 0, 0, 0, err
	}

	var sum struct{ Avg float64 }
	err = base.Where("meal_items.score > 0").
		Select("COALESCE(AVG(meal_items.score), 0) AS avg").
		Scan(&sum).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return round2(sum.Avg), total, unsafe, nil
}

// ---------- internals ----------

func (s *AnalyticsService) getGoalSnapshot(ctx context.Context, userID uint) (*models.DailyGoal, error) {
	var g models.DailyGoal
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.DailyGoal{}, nil
		}
		return nil, err
	}
	return &g, nil
}

func pct(actual, goal float64) float64 {
	if goal <= 0 {
		if actual <= 0 {
			return 0
		}
		return 100
	}
	return round2((actual / goal) * 100.0)
}

func avg(sum float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return round2(sum / float64(n))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
func dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
