package models

// FoodPhotoStreakData is the persisted photo-streak record, stored as one
// JSON blob under a per-user key in the KV table. Counters are re-derived
// from the meal log on every update; the record is the cached result, not
// the source of truth.
type FoodPhotoStreakData struct {
	CurrentStreak  int      `json:"current_streak"`
	LongestStreak  int      `json:"longest_streak"`
	TodayPhotos    int      `json:"today_photos"`
	TotalPhotos    int      `json:"total_photos"`
	StreakDays     []string `json:"streak_days"` // ISO dates (2006-01-02) that reached the photo threshold
	LastStreakDate string   `json:"last_streak_date,omitempty"`
}

// HasDay reports whether date (ISO format) is already a qualifying day.
func (d *FoodPhotoStreakData) HasDay(date string) bool {
	for _, s := range d.StreakDays {
		if s == date {
			return true
		}
	}
	return false
}
