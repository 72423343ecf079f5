package services

import (
	"fmt"
	"strings"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// RestrictionContext is the slice of a user profile the scoring engine needs.
// Built from models.User; nil means "no profile, skip personalization".
type RestrictionContext struct {
	NutritionGoal  string   // "lose_weight" | "build_muscle" | "athletic_performance" | ...
	Allergies      []string // lowercased allergy names
	Conditions     []string // lowercased condition codes
	TargetCalories float64  // kcal/day; 0 means unknown
}

// BuildRestrictionContext creates a RestrictionContext from a User and
// optional DailyGoal (goal calories win over the profile target when set).
func BuildRestrictionContext(user *models.User, goal *models.DailyGoal) *RestrictionContext {
	if user == nil {
		return nil
	}
	target := user.TargetCalories
	if goal != nil && goal.Calories > 0 {
		target = goal.Calories
	}
	return &RestrictionContext{
		NutritionGoal:  strings.ToLower(strings.TrimSpace(user.NutritionGoal)),
		Allergies:      user.AllergyList(),
		Conditions:     user.ConditionList(),
		TargetCalories: target,
	}
}

type Rating string

const (
	RatingExcellent Rating = "excellent"
	RatingGood      Rating = "good"
	RatingModerate  Rating = "moderate"
	RatingPoor      Rating = "poor"
	RatingAvoid     Rating = "avoid"
)

// RatingForScore maps a clamped 0-100 score onto the five-step rating scale.
func RatingForScore(score int) Rating {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 65:
		return RatingGood
	case score >= 45:
		return RatingModerate
	case score >= 25:
		return RatingPoor
	default:
		return RatingAvoid
	}
}

// MacroAssessment is the macro primitive's output: a signed score adjustment
// plus the reasons that produced it.
type MacroAssessment struct {
	Adjustment   int      `json:"adjustment"`
	ProteinLevel string   `json:"protein_level"` // "high" | "adequate" | "low"
	Reasons      []string `json:"reasons"`
}

type QualityAssessment struct {
	Adjustment      int    `json:"adjustment"`
	ProcessingLabel string `json:"processing_label,omitempty"` // "minimal" | "processed" | "ultra-processed"
	Description     string `json:"description,omitempty"`
}

type RestrictionAssessment struct {
	Adjustment int      `json:"adjustment"`
	Warnings   []string `json:"warnings"`
}

// PersonalizedAnalysis bundles the aggregate result for one scanned product.
// Computed fresh on every scan, never cached.
type PersonalizedAnalysis struct {
	Rating Rating `json:"rating"`
	Score  int    `json:"score"` // clamped 0-100

	GoalScore       int      `json:"goal_score"`
	GoalReasons     []string `json:"goal_reasons"`
	ProteinLevel    string   `json:"protein_level"`
	ProcessingLabel string   `json:"processing_label,omitempty"`
	QualityNote     string   `json:"quality_note,omitempty"`
	Warnings        []string `json:"warnings"`

	PortionSuggestion string   `json:"portion_suggestion"`
	Alternatives      []string `json:"alternatives,omitempty"`
	ConsumptionTips   []string `json:"consumption_tips,omitempty"`
}

// NutritionAnalysisService is a pure rules engine: deterministic point
// adjustments from macro thresholds, processing level and user restrictions.
// No I/O, no state beyond configuration.
type NutritionAnalysisService struct {
	// SingleAllergyPenalty collapses multiple allergy matches into one -50
	// hit. Default false preserves the historical per-match penalty.
	SingleAllergyPenalty bool
}

func NewNutritionAnalysisService() *NutritionAnalysisService {
	return &NutritionAnalysisService{}
}

const baseScore = 50

// AnalyzeMacros scores the per-100g macros against the user's nutrition goal.
func (s *NutritionAnalysisService) AnalyzeMacros(facts models.NutritionFacts, goal string) MacroAssessment {
	out := MacroAssessment{}

	switch {
	case facts.Protein >= 15:
		out.ProteinLevel = "high"
		out.Adjustment += 10
		out.Reasons = append(out.Reasons, "High protein content")
	case facts.Protein >= 5:
		out.ProteinLevel = "adequate"
	default:
		out.ProteinLevel = "low"
		out.Adjustment -= 5
		out.Reasons = append(out.Reasons, "Low protein content")
	}

	// Goal bonuses are additive and independent; a product can trigger several.
	switch goal {
	case "build_muscle":
		if facts.Protein >= 20 {
			out.Adjustment += 20
			out.Reasons = append(out.Reasons, "Excellent protein source for muscle building")
		}
	case "lose_weight":
		if facts.Calories <= 100 && facts.Protein >= 10 {
			out.Adjustment += 15
			out.Reasons = append(out.Reasons, "Low calorie and protein dense, good for weight loss")
		}
		if facts.Fiber >= 3 {
			out.Adjustment += 10
			out.Reasons = append(out.Reasons, "Good fiber content supports satiety")
		}
	case "athletic_performance":
		if facts.Carbohydrates >= 15 {
			out.Adjustment += 15
			out.Reasons = append(out.Reasons, "Carbohydrates fuel athletic performance")
		}
	}

	return out
}

// AnalyzeQuality scores the processing level (NOVA-like group 1-4) and the
// Nutri-Score-like grade. Both axes contribute independently; unknown values
// (group 0, empty grade) contribute nothing.
func (s *NutritionAnalysisService) AnalyzeQuality(novaGroup int, grade string) QualityAssessment {
	out := QualityAssessment{}

	switch novaGroup {
	case 1:
		out.Adjustment += 15
		out.ProcessingLabel = "minimal"
		out.Description = "Unprocessed or minimally processed food"
	case 2:
		out.Adjustment += 5
		out.ProcessingLabel = "processed"
		out.Description = "Processed culinary ingredient"
	case 3:
		out.Adjustment -= 5
		out.ProcessingLabel = "processed"
		out.Description = "Processed food"
	case 4:
		out.Adjustment -= 15
		out.ProcessingLabel = "ultra-processed"
		out.Description = "Ultra-processed food, consume in moderation"
	}

	switch strings.ToLower(strings.TrimSpace(grade)) {
	case "a":
		out.Adjustment += 15
	case "b":
		out.Adjustment += 10
	case "c":
		// neutral
	case "d":
		out.Adjustment -= 10
	case "e":
		out.Adjustment -= 15
	}

	return out
}

// AnalyzeRestrictions applies allergy and condition penalties. Allergy
// matching is a case-insensitive substring test against the product's
// allergen tags ("en:milk" matches allergy "milk").
func (s *NutritionAnalysisService) AnalyzeRestrictions(product *models.Product, ctx *RestrictionContext) RestrictionAssessment {
	out := RestrictionAssessment{Warnings: []string{}}
	if ctx == nil {
		return out
	}

	matched := 0
	for _, allergy := range ctx.Allergies {
		if allergy == "" {
			continue
		}
		for _, tag := range product.AllergenTags {
			if strings.Contains(strings.ToLower(tag), allergy) {
				matched++
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("Contains %s, which is in your allergy list", allergy))
				break
			}
		}
	}
	if matched > 0 {
		if s.SingleAllergyPenalty {
			out.Adjustment -= 50
		} else {
			out.Adjustment -= 50 * matched
		}
	}

	for _, cond := range ctx.Conditions {
		switch {
		case strings.Contains(cond, "diabet"):
			if product.Per100g.Sugar > 15 {
				out.Adjustment -= 20
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("High sugar (%.0fg/100g), not recommended with diabetes", product.Per100g.Sugar))
			}
		case strings.Contains(cond, "hipertens"), strings.Contains(cond, "hypertens"):
			if product.Per100g.Sodium > 600 {
				out.Adjustment -= 20
				out.Warnings = append(out.Warnings,
					fmt.Sprintf("High sodium (%.0fmg/100g), not recommended with hypertension", product.Per100g.Sodium))
			}
		}
	}

	return out
}

// Analyze aggregates the three primitives into one rating/score/recommendation
// bundle. A nil context skips personalization entirely (generic, unscored
// display is the caller's concern).
func (s *NutritionAnalysisService) Analyze(product *models.Product, ctx *RestrictionContext) *PersonalizedAnalysis {
	if product == nil || ctx == nil {
		return nil
	}

	macros := s.AnalyzeMacros(product.Per100g, ctx.NutritionGoal)
	quality := s.AnalyzeQuality(product.NovaGroup, product.NutriScoreGrade)
	restrictions := s.AnalyzeRestrictions(product, ctx)

	score := clampScore(baseScore + macros.Adjustment + quality.Adjustment + restrictions.Adjustment)

	return &PersonalizedAnalysis{
		Rating:            RatingForScore(score),
		Score:             score,
		GoalScore:         clampScore(baseScore + macros.Adjustment),
		GoalReasons:       macros.Reasons,
		ProteinLevel:      macros.ProteinLevel,
		ProcessingLabel:   quality.ProcessingLabel,
		QualityNote:       quality.Description,
		Warnings:          restrictions.Warnings,
		PortionSuggestion: s.portionSuggestion(product, ctx.TargetCalories),
		Alternatives:      s.alternativeSuggestions(product),
		ConsumptionTips:   s.consumptionTips(product),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// portionSuggestion uses the labeled serving when present, else derives grams
// supplying ~10% of the daily calorie target from the per-100g figure.
func (s *NutritionAnalysisService) portionSuggestion(product *models.Product, targetCalories float64) string {
	if product.ServingSize != "" {
		return fmt.Sprintf("Stick to the labeled serving size (%s)", product.ServingSize)
	}
	if targetCalories <= 0 {
		targetCalories = 2000
	}
	if product.Per100g.Calories <= 0 {
		return "Check the label for a sensible portion size"
	}
	grams := (0.10 * targetCalories) / product.Per100g.Calories * 100.0
	return fmt.Sprintf("A portion of about %.0fg keeps this around 10%% of your daily calories", grams)
}

// alternativeSuggestions are heuristic string matches, not guaranteed relevant.
func (s *NutritionAnalysisService) alternativeSuggestions(product *models.Product) []string {
	var out []string
	name := strings.ToLower(product.Name)

	if strings.Contains(name, "yogurt") || strings.Contains(name, "yoghurt") || strings.Contains(name, "yogur") {
		out = append(out, "Plain or Greek yogurt, or kefir, with no added sugar")
	}
	if product.NovaGroup == 4 {
		out = append(out, "A homemade or less-processed version of this product")
	}
	if product.Per100g.Sugar > 10 {
		out = append(out, "A no-added-sugar version of this product")
	}
	return out
}

func (s *NutritionAnalysisService) consumptionTips(product *models.Product) []string {
	var out []string
	facts := product.Per100g

	if facts.Protein > 15 {
		out = append(out, "Good choice post-workout thanks to its protein")
	}
	if facts.Carbohydrates > 20 {
		out = append(out, "Better consumed earlier in the day")
	}
	if product.NovaGroup == 4 {
		out = append(out, "Ultra-processed: consume occasionally, not daily")
	}
	if facts.Fiber > 5 {
		out = append(out, "High fiber: increase your water intake")
	}
	return out
}
