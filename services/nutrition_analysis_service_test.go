package services

import (
	"strings"
	"testing"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

func testProduct() *models.Product {
	return &models.Product{
		Barcode: "1234567890123",
		Name:    "Test product",
		Per100g: models.NutritionFacts{
			Calories: 200,
			Protein:  8,
			Sugar:    5,
			Sodium:   100,
		},
	}
}

func TestRatingForScore(t *testing.T) {
	cases := []struct {
		score int
		want  Rating
	}{
		{100, RatingExcellent},
		{80, RatingExcellent},
		{79, RatingGood},
		{65, RatingGood},
		{64, RatingModerate},
		{50, RatingModerate},
		{45, RatingModerate},
		{44, RatingPoor},
		{25, RatingPoor},
		{24, RatingAvoid},
		{0, RatingAvoid},
	}
	for _, c := range cases {
		if got := RatingForScore(c.score); got != c.want {
			t.Errorf("RatingForScore(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestAnalyzeMacrosProteinLevels(t *testing.T) {
	svc := NewNutritionAnalysisService()

	high := svc.AnalyzeMacros(models.NutritionFacts{Protein: 15}, "")
	if high.ProteinLevel != "high" || high.Adjustment != 10 {
		t.Errorf("protein 15: got level %q adjustment %d, want high +10", high.ProteinLevel, high.Adjustment)
	}

	adequate := svc.AnalyzeMacros(models.NutritionFacts{Protein: 5}, "")
	if adequate.ProteinLevel != "adequate" || adequate.Adjustment != 0 {
		t.Errorf("protein 5: got level %q adjustment %d, want adequate 0", adequate.ProteinLevel, adequate.Adjustment)
	}

	low := svc.AnalyzeMacros(models.NutritionFacts{Protein: 4}, "")
	if low.ProteinLevel != "low" || low.Adjustment != -5 {
		t.Errorf("protein 4: got level %q adjustment %d, want low -5", low.ProteinLevel, low.Adjustment)
	}
}

func TestAnalyzeMacrosLoseWeightBonusesStack(t *testing.T) {
	svc := NewNutritionAnalysisService()

	// protein 20 also earns the high-protein +10
	got := svc.AnalyzeMacros(models.NutritionFacts{Protein: 20, Calories: 90, Fiber: 4}, "lose_weight")
	want := 10 + 15 + 10
	if got.Adjustment != want {
		t.Errorf("lose_weight bonuses: adjustment = %d, want %d", got.Adjustment, want)
	}
	if len(got.Reasons) != 3 {
		t.Errorf("expected 3 reasons, got %v", got.Reasons)
	}
}

func TestAnalyzeMacrosBuildMuscle(t *testing.T) {
	svc := NewNutritionAnalysisService()

	got := svc.AnalyzeMacros(models.NutritionFacts{Protein: 20}, "build_muscle")
	if got.Adjustment != 10+20 {
		t.Errorf("build_muscle protein 20: adjustment = %d, want 30", got.Adjustment)
	}

	// 19g misses the goal bonus but keeps the high-protein one
	got = svc.AnalyzeMacros(models.NutritionFacts{Protein: 19}, "build_muscle")
	if got.Adjustment != 10 {
		t.Errorf("build_muscle protein 19: adjustment = %d, want 10", got.Adjustment)
	}
}

func TestAnalyzeQualityWorstCase(t *testing.T) {
	svc := NewNutritionAnalysisService()

	got := svc.AnalyzeQuality(4, "E")
	if got.Adjustment != -30 {
		t.Errorf("NOVA 4 + grade E: adjustment = %d, want -30", got.Adjustment)
	}
	if got.ProcessingLabel != "ultra-processed" {
		t.Errorf("processing label = %q, want ultra-processed", got.ProcessingLabel)
	}
}

func TestAnalyzeQualityUnknownValuesAreNeutral(t *testing.T) {
	svc := NewNutritionAnalysisService()
	if got := svc.AnalyzeQuality(0, ""); got.Adjustment != 0 {
		t.Errorf("unknown quality: adjustment = %d, want 0", got.Adjustment)
	}
}

func TestAnalyzeRestrictionsAllergyPenaltyPerMatch(t *testing.T) {
	svc := NewNutritionAnalysisService()
	product := testProduct()
	product.AllergenTags = []string{"en:milk", "en:gluten"}

	ctx := &RestrictionContext{Allergies: []string{"milk", "gluten"}}
	got := svc.AnalyzeRestrictions(product, ctx)
	if got.Adjustment != -100 {
		t.Errorf("two allergy matches: adjustment = %d, want -100", got.Adjustment)
	}
	if len(got.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", got.Warnings)
	}
}

func TestAnalyzeRestrictionsSingleAllergyPenaltyFlag(t *testing.T) {
	svc := NewNutritionAnalysisService()
	svc.SingleAllergyPenalty = true

	product := testProduct()
	product.AllergenTags = []string{"en:milk", "en:gluten"}

	ctx := &RestrictionContext{Allergies: []string{"milk", "gluten"}}
	got := svc.AnalyzeRestrictions(product, ctx)
	if got.Adjustment != -50 {
		t.Errorf("collapsed penalty: adjustment = %d, want -50", got.Adjustment)
	}
	if len(got.Warnings) != 2 {
		t.Errorf("warnings still listed per match, got %v", got.Warnings)
	}
}

func TestAnalyzeRestrictionsConditions(t *testing.T) {
	svc := NewNutritionAnalysisService()

	product := testProduct()
	product.Per100g.Sugar = 20
	product.Per100g.Sodium = 700

	ctx := &RestrictionContext{Conditions: []string{"diabetes", "hipertension"}}
	got := svc.AnalyzeRestrictions(product, ctx)
	if got.Adjustment != -40 {
		t.Errorf("diabetes + hypertension: adjustment = %d, want -40", got.Adjustment)
	}

	// below thresholds nothing fires
	product.Per100g.Sugar = 15
	product.Per100g.Sodium = 600
	got = svc.AnalyzeRestrictions(product, ctx)
	if got.Adjustment != 0 || len(got.Warnings) != 0 {
		t.Errorf("at-threshold values should be neutral, got %+v", got)
	}
}

func TestAnalyzeBaseScoreIsModerate(t *testing.T) {
	svc := NewNutritionAnalysisService()

	// adequate protein, no goal, unknown quality, no restrictions: all neutral
	product := testProduct()
	analysis := svc.Analyze(product, &RestrictionContext{})
	if analysis.Score != 50 {
		t.Fatalf("neutral product score = %d, want 50", analysis.Score)
	}
	if analysis.Rating != RatingModerate {
		t.Errorf("rating = %q, want moderate", analysis.Rating)
	}
}

func TestAnalyzeScoreIsClamped(t *testing.T) {
	svc := NewNutritionAnalysisService()

	product := testProduct()
	product.AllergenTags = []string{"en:milk", "en:soy", "en:gluten"}
	product.NovaGroup = 4
	product.NutriScoreGrade = "e"

	ctx := &RestrictionContext{Allergies: []string{"milk", "soy", "gluten"}}
	analysis := svc.Analyze(product, ctx)
	if analysis.Score != 0 {
		t.Errorf("heavily penalized score = %d, want clamp at 0", analysis.Score)
	}
	if analysis.Rating != RatingAvoid {
		t.Errorf("rating = %q, want avoid", analysis.Rating)
	}
}

func TestAnalyzeNilContext(t *testing.T) {
	svc := NewNutritionAnalysisService()
	if got := svc.Analyze(testProduct(), nil); got != nil {
		t.Errorf("nil context should skip personalization, got %+v", got)
	}
}

func TestPortionSuggestionPrefersLabeledServing(t *testing.T) {
	svc := NewNutritionAnalysisService()

	product := testProduct()
	product.ServingSize = "30 g"
	analysis := svc.Analyze(product, &RestrictionContext{})
	if !strings.Contains(analysis.PortionSuggestion, "30 g") {
		t.Errorf("portion suggestion should quote the serving size, got %q", analysis.PortionSuggestion)
	}

	// no serving, 200 kcal/100g, 2000 kcal target: 10% is 200 kcal → 100g
	product.ServingSize = ""
	analysis = svc.Analyze(product, &RestrictionContext{TargetCalories: 2000})
	if !strings.Contains(analysis.PortionSuggestion, "100g") {
		t.Errorf("derived portion should be about 100g, got %q", analysis.PortionSuggestion)
	}
}

func TestConsumptionTipsThresholds(t *testing.T) {
	svc := NewNutritionAnalysisService()

	product := testProduct()
	product.Per100g.Protein = 16
	product.Per100g.Carbohydrates = 21
	product.Per100g.Fiber = 6
	product.NovaGroup = 4

	tips := svc.consumptionTips(product)
	if len(tips) != 4 {
		t.Errorf("expected all four tips, got %v", tips)
	}
}
