package services

import (
	"testing"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

func TestCalculateCatalogSize(t *testing.T) {
	svc := NewAchievementsService()
	got := svc.Calculate(models.ActivitySnapshot{}, nil)
	if len(got) < 25 {
		t.Fatalf("catalog suspiciously small: %d entries", len(got))
	}

	seen := map[string]bool{}
	for _, a := range got {
		if seen[a.ID] {
			t.Errorf("duplicate achievement id %q", a.ID)
		}
		seen[a.ID] = true
		if a.MaxProgress != a.Requirement {
			t.Errorf("%s: max progress %d != requirement %d", a.ID, a.MaxProgress, a.Requirement)
		}
	}
}

func TestCalculateProgressIsCapped(t *testing.T) {
	svc := NewAchievementsService()
	snapshot := models.ActivitySnapshot{CurrentStreak: 500}

	for _, a := range svc.Calculate(snapshot, nil) {
		if a.Progress > a.MaxProgress {
			t.Errorf("%s: progress %d exceeds max %d", a.ID, a.Progress, a.MaxProgress)
		}
		if a.Category == models.CategoryStreak && !a.IsUnlocked {
			t.Errorf("%s: streak 500 should unlock every streak tier", a.ID)
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	svc := NewAchievementsService()
	snapshot := models.ActivitySnapshot{
		CurrentStreak: 10,
		DaysGoalMet:   7,
		MealsLogged:   42,
		TotalPhotos:   12,
	}
	allow := map[string]bool{AchFirstPhoto: true}

	a := svc.Calculate(snapshot, allow)
	b := svc.Calculate(snapshot, allow)
	if len(a) != len(b) {
		t.Fatalf("catalog size changed between calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Progress != b[i].Progress || a[i].IsUnlocked != b[i].IsUnlocked {
			t.Errorf("entry %d differs between identical evaluations: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestFoodPhotoUnlocksGatedByAllowList(t *testing.T) {
	svc := NewAchievementsService()

	// counters cross every photo threshold, but nothing is in the allow-list
	snapshot := models.ActivitySnapshot{
		TodayPhotos:     3,
		TotalPhotos:     120,
		PhotoStreakDays: 31,
	}
	for _, a := range svc.Calculate(snapshot, nil) {
		if a.Category == models.CategoryFoodPhotos && a.IsUnlocked {
			t.Errorf("%s unlocked without allow-list entry", a.ID)
		}
	}

	allow := map[string]bool{AchFirstPhoto: true, AchPhotos100: true}
	for _, a := range svc.Calculate(snapshot, allow) {
		if a.Category != models.CategoryFoodPhotos {
			continue
		}
		wantUnlocked := a.ID == AchFirstPhoto || a.ID == AchPhotos100
		if a.IsUnlocked != wantUnlocked {
			t.Errorf("%s: unlocked=%v, want %v", a.ID, a.IsUnlocked, wantUnlocked)
		}
	}
}

func TestFoodPhotoAllowListAloneDoesNotUnlock(t *testing.T) {
	svc := NewAchievementsService()

	// allow-listed but the live counter no longer meets the requirement
	allow := map[string]bool{AchPhotos100: true}
	for _, a := range svc.Calculate(models.ActivitySnapshot{TotalPhotos: 10}, allow) {
		if a.ID == AchPhotos100 && a.IsUnlocked {
			t.Error("photo_total_100 unlocked with only 10 photos")
		}
	}
}

func TestNonPhotoCategoriesIgnoreAllowList(t *testing.T) {
	svc := NewAchievementsService()
	snapshot := models.ActivitySnapshot{CurrentStreak: 7}

	for _, a := range svc.Calculate(snapshot, nil) {
		if a.ID == "streak_7" && !a.IsUnlocked {
			t.Error("streak_7 should unlock from the counter alone")
		}
		if a.ID == "streak_7" && a.UnlockedAt == nil {
			t.Error("unlocked achievements need a timestamp")
		}
	}
}

func TestDiffReturnsOnlyNewUnlocks(t *testing.T) {
	svc := NewAchievementsService()

	prev := svc.Calculate(models.ActivitySnapshot{CurrentStreak: 3}, nil)
	curr := svc.Calculate(models.ActivitySnapshot{CurrentStreak: 7}, nil)

	newly := svc.Diff(prev, curr)
	ids := map[string]bool{}
	for _, a := range newly {
		ids[a.ID] = true
	}
	if ids["streak_3"] {
		t.Error("streak_3 was already unlocked, must not reappear in diff")
	}
	if !ids["streak_7"] {
		t.Error("streak_7 newly unlocked, expected in diff")
	}
}

func TestDiffWithEmptyPrevious(t *testing.T) {
	svc := NewAchievementsService()
	curr := svc.Calculate(models.ActivitySnapshot{CurrentStreak: 3}, nil)

	newly := svc.Diff(nil, curr)
	found := false
	for _, a := range newly {
		if a.ID == "streak_3" {
			found = true
		}
		if !a.IsUnlocked {
			t.Errorf("%s in diff but not unlocked", a.ID)
		}
	}
	if !found {
		t.Error("achievement absent from previous counts as newly unlocked")
	}
}

func TestWeightAchievementsTruncateKilos(t *testing.T) {
	svc := NewAchievementsService()

	for _, a := range svc.Calculate(models.ActivitySnapshot{WeightLostKg: 2.9}, nil) {
		if a.ID == "weight_1" && !a.IsUnlocked {
			t.Error("weight_1 should unlock at 2.9kg lost")
		}
		if a.ID == "weight_3" && a.IsUnlocked {
			t.Error("weight_3 must not unlock at 2.9kg lost")
		}
	}
}
