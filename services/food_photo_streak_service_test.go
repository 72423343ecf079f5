package services

import (
	"testing"
	"time"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

type fakePhotoSource struct {
	today    int
	lifetime int
}

func (f *fakePhotoSource) CountPhotosOn(userID uint, date time.Time) (int, error) {
	return f.today, nil
}

func (f *fakePhotoSource) LifetimePhotoCount(userID uint) (int, error) {
	return f.lifetime, nil
}

func newStreakFixture(t *testing.T, photos *fakePhotoSource) (*FoodPhotoStreakService, *MemoryBlobStore) {
	t.Helper()
	store := NewMemoryBlobStore()
	svc := NewFoodPhotoStreakService(
		NewStreakRepository(store),
		NewUnlockedRepository(store),
		photos,
	)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	return svc, store
}

func TestUploadBelowThresholdDoesNotQualify(t *testing.T) {
	photos := &fakePhotoSource{today: 2, lifetime: 2}
	svc, _ := newStreakFixture(t, photos)

	update, err := svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("OnPhotoUploaded: %v", err)
	}
	if len(update.Streak.StreakDays) != 0 {
		t.Errorf("2 photos must not qualify the day, got %v", update.Streak.StreakDays)
	}
	if update.Streak.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0", update.Streak.CurrentStreak)
	}
	if update.Streak.TodayPhotos != 2 || update.Streak.TotalPhotos != 2 {
		t.Errorf("counters not refreshed from source: %+v", update.Streak)
	}
}

func TestUploadReachingThresholdAddsTodayOnce(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 3}
	svc, _ := newStreakFixture(t, photos)

	update, err := svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("OnPhotoUploaded: %v", err)
	}
	if len(update.Streak.StreakDays) != 1 || update.Streak.StreakDays[0] != "2026-08-28" {
		t.Fatalf("today should qualify exactly once, got %v", update.Streak.StreakDays)
	}
	if update.Streak.CurrentStreak != 1 || update.Streak.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", update.Streak.CurrentStreak, update.Streak.LongestStreak)
	}

	// a fourth photo the same day must not duplicate the day
	photos.today = 4
	photos.lifetime = 4
	update, err = svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("second OnPhotoUploaded: %v", err)
	}
	if len(update.Streak.StreakDays) != 1 {
		t.Errorf("day duplicated: %v", update.Streak.StreakDays)
	}
}

func TestUploadUnlocksFirstPhotoAndThreeInADay(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 3}
	svc, _ := newStreakFixture(t, photos)

	update, err := svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("OnPhotoUploaded: %v", err)
	}

	got := map[string]bool{}
	for _, a := range update.AchievementsUnlocked {
		got[a.ID] = true
		if !a.IsUnlocked || a.UnlockedAt == nil {
			t.Errorf("%s returned as unlocked but flags not set", a.ID)
		}
	}
	if !got[AchFirstPhoto] || !got[AchThreeInADay] {
		t.Errorf("expected first-photo and 3-in-a-day unlocks, got %v", got)
	}
	if got[AchPhotoStreak7] || got[AchPhotos50] {
		t.Errorf("higher tiers unlocked too early: %v", got)
	}

	// second call: nothing newly unlocked
	update, err = svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("second OnPhotoUploaded: %v", err)
	}
	if len(update.AchievementsUnlocked) != 0 {
		t.Errorf("already-recorded unlocks reported again: %v", update.AchievementsUnlocked)
	}
}

func TestSevenDayStreakUnlock(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 21}
	svc, store := newStreakFixture(t, photos)

	// six prior consecutive qualifying days already persisted
	seed := models.FoodPhotoStreakData{
		StreakDays: []string{
			"2026-08-22", "2026-08-23", "2026-08-24",
			"2026-08-25", "2026-08-26", "2026-08-27",
		},
		LongestStreak: 6,
	}
	if err := NewStreakRepository(store).Save(1, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	update, err := svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("OnPhotoUploaded: %v", err)
	}
	if update.Streak.CurrentStreak != 7 {
		t.Fatalf("current streak = %d, want 7", update.Streak.CurrentStreak)
	}
	found := false
	for _, a := range update.AchievementsUnlocked {
		if a.ID == AchPhotoStreak7 {
			found = true
		}
	}
	if !found {
		t.Errorf("7-day achievement missing from unlocks: %v", update.AchievementsUnlocked)
	}
}

func TestDeleteReversesQualifyingDay(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 3}
	svc, _ := newStreakFixture(t, photos)

	if _, err := svc.OnPhotoUploaded(1); err != nil {
		t.Fatalf("upload: %v", err)
	}

	photos.today = 2
	photos.lifetime = 2
	update, err := svc.OnPhotoDeleted(1)
	if err != nil {
		t.Fatalf("OnPhotoDeleted: %v", err)
	}
	if len(update.Streak.StreakDays) != 0 {
		t.Errorf("today should have lost qualifying status, got %v", update.Streak.StreakDays)
	}
	if update.Streak.CurrentStreak != 0 {
		t.Errorf("current streak = %d, want 0", update.Streak.CurrentStreak)
	}

	revoked := map[string]bool{}
	for _, id := range update.AchievementsRevoked {
		revoked[id] = true
	}
	if !revoked[AchThreeInADay] {
		t.Errorf("3-in-a-day must always be revoked on reversal, got %v", update.AchievementsRevoked)
	}

	// re-qualifying later re-reports the unlock since it was revoked
	photos.today = 3
	photos.lifetime = 3
	up, err := svc.OnPhotoUploaded(1)
	if err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	again := false
	for _, a := range up.AchievementsUnlocked {
		if a.ID == AchThreeInADay {
			again = true
		}
	}
	if !again {
		t.Error("revoked 3-in-a-day should unlock again after re-qualifying")
	}
}

func TestDeleteWithoutReversalKeepsUnlocks(t *testing.T) {
	photos := &fakePhotoSource{today: 4, lifetime: 4}
	svc, _ := newStreakFixture(t, photos)

	if _, err := svc.OnPhotoUploaded(1); err != nil {
		t.Fatalf("upload: %v", err)
	}

	// deleting one of four photos keeps today at the threshold
	photos.today = 3
	photos.lifetime = 3
	update, err := svc.OnPhotoDeleted(1)
	if err != nil {
		t.Fatalf("OnPhotoDeleted: %v", err)
	}
	if len(update.AchievementsRevoked) != 0 {
		t.Errorf("no revocation expected while today still qualifies, got %v", update.AchievementsRevoked)
	}
	if len(update.Streak.StreakDays) != 1 {
		t.Errorf("today must stay qualifying, got %v", update.Streak.StreakDays)
	}
}

func TestGetProgressScenario(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 9}
	svc, _ := newStreakFixture(t, photos)

	progress, err := svc.GetProgress(1)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if progress.TodayPhotos != 3 || progress.PhotosNeeded != 0 || progress.ProgressPercentage != 100 {
		t.Errorf("3 photos today: got %+v, want todayPhotos 3, needed 0, 100%%", progress)
	}

	photos.today = 1
	progress, err = svc.GetProgress(1)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if progress.PhotosNeeded != 2 || progress.ProgressPercentage != 33 {
		t.Errorf("1 photo today: got needed %d pct %d, want 2 and 33", progress.PhotosNeeded, progress.ProgressPercentage)
	}
}

func TestResetClearsStreakAndPhotoAllowList(t *testing.T) {
	photos := &fakePhotoSource{today: 3, lifetime: 3}
	svc, store := newStreakFixture(t, photos)

	if _, err := svc.OnPhotoUploaded(1); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := svc.Reset(1); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	data, err := NewStreakRepository(store).Load(1)
	if err != nil {
		t.Fatalf("load after reset: %v", err)
	}
	if data.CurrentStreak != 0 || data.TotalPhotos != 0 || len(data.StreakDays) != 0 {
		t.Errorf("reset left state behind: %+v", data)
	}

	set, err := NewUnlockedRepository(store).Load(1)
	if err != nil {
		t.Fatalf("load allow-list: %v", err)
	}
	for _, def := range FoodPhotoDefinitions() {
		if set[def.ID] {
			t.Errorf("allow-list still contains %s after reset", def.ID)
		}
	}
}

func TestCorruptBlobDegradesToDefaults(t *testing.T) {
	photos := &fakePhotoSource{today: 0, lifetime: 0}
	svc, store := newStreakFixture(t, photos)

	store.Data["food_photo_streak:1"] = "{not json"
	progress, err := svc.GetProgress(1)
	if err != nil {
		t.Fatalf("GetProgress with corrupt blob: %v", err)
	}
	if progress.Streak.CurrentStreak != 0 || len(progress.Streak.StreakDays) != 0 {
		t.Errorf("corrupt blob should reset to zero state, got %+v", progress.Streak)
	}
}

func TestConsecutiveSuffix(t *testing.T) {
	cases := []struct {
		name  string
		days  []string
		today string
		want  int
	}{
		{"empty", nil, "2026-08-28", 0},
		{"today only", []string{"2026-08-28"}, "2026-08-28", 1},
		{"run ending today", []string{"2026-08-26", "2026-08-27", "2026-08-28"}, "2026-08-28", 3},
		{"run ending yesterday still counts", []string{"2026-08-26", "2026-08-27"}, "2026-08-28", 2},
		{"gap breaks the run", []string{"2026-08-24", "2026-08-26", "2026-08-27", "2026-08-28"}, "2026-08-28", 3},
		{"run ended two days ago is broken", []string{"2026-08-25", "2026-08-26"}, "2026-08-28", 0},
	}
	for _, c := range cases {
		if got := consecutiveSuffix(c.days, c.today); got != c.want {
			t.Errorf("%s: consecutiveSuffix = %d, want %d", c.name, got, c.want)
		}
	}
}
