package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
)

// MealService owns meal persistence. Items arrive either as a barcode (the
// catalog fills in nutrition and scoring) or as a manual entry with macros
// supplied by the caller.
type MealService struct {
	db       *gorm.DB
	resolver *OpenFoodFactsService
	analysis *NutritionAnalysisService
}

func NewMealService(db *gorm.DB, resolver *OpenFoodFactsService, analysis *NutritionAnalysisService) *MealService {
	return &MealService{db: db, resolver: resolver, analysis: analysis}
}

type MealItemRequest struct {
	Barcode   string  `json:"barcode,omitempty"`
	FoodLabel string  `json:"food_label,omitempty"`
	Quantity  float64 `json:"quantity"` // grams

	// Manual-entry macros, ignored when a barcode is given.
	Calories float64 `json:"calories,omitempty"`
	Protein  float64 `json:"protein,omitempty"`
	Carbs    float64 `json:"carbs,omitempty"`
	Fat      float64 `json:"fat,omitempty"`
	Sodium   float64 `json:"sodium,omitempty"`
	Sugar    float64 `json:"sugar,omitempty"`
	Fiber    float64 `json:"fiber,omitempty"`
}

func (s *MealService) AddMeal(ctx context.Context, userID uint, mealType string, ateAt time.Time, items []MealItemRequest, restrictions *RestrictionContext) (*models.Meal, error) {
	meal := &models.Meal{UserID: userID, Type: mealType, AteAt: ateAt}
	if err := s.db.Create(meal).Error; err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}

	for _, it := range items {
		mi, err := s.buildItem(ctx, meal.ID, it, restrictions)
		if err != nil {
			return nil, err
		}
		if err := s.db.Create(mi).Error; err != nil {
			return nil, fmt.Errorf("create meal item: %w", err)
		}
	}

	var populated models.Meal
	if err := s.db.Preload("Items").First(&populated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &populated, nil
}

// buildItem turns one item request into a MealItem row. Barcode items get
// their nutrition snapshot and personalized score from the catalog at log
// time; a barcode the catalog does not know falls back to a manual entry.
func (s *MealService) buildItem(ctx context.Context, mealID uint, it MealItemRequest, restrictions *RestrictionContext) (*models.MealItem, error) {
	mi := &models.MealItem{
		MealID:    mealID,
		Barcode:   it.Barcode,
		FoodLabel: it.FoodLabel,
		Quantity:  it.Quantity,
		Calories:  it.Calories,
		Protein:   it.Protein,
		Carbs:     it.Carbs,
		Fat:       it.Fat,
		Sodium:    it.Sodium,
		Sugar:     it.Sugar,
		Fiber:     it.Fiber,
		Safe:      true,
	}
	if it.Barcode == "" {
		return mi, nil
	}

	product, err := s.resolver.Resolve(ctx, it.Barcode)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return mi, nil
		}
		return nil, fmt.Errorf("resolve barcode %s: %w", it.Barcode, err)
	}

	if mi.FoodLabel == "" {
		mi.FoodLabel = product.Name
	}
	scale := it.Quantity / 100
	if scale <= 0 {
		scale = 1
	}
	mi.Calories = product.Per100g.Calories * scale
	mi.Protein = product.Per100g.Protein * scale
	mi.Carbs = product.Per100g.Carbohydrates * scale
	mi.Fat = product.Per100g.Fat * scale
	mi.Sodium = product.Per100g.Sodium * scale
	mi.Sugar = product.Per100g.Sugar * scale
	mi.Fiber = product.Per100g.Fiber * scale

	if analysis := s.analysis.Analyze(product, restrictions); analysis != nil {
		mi.Score = analysis.Score
		mi.Safe = len(analysis.Warnings) == 0
		mi.Warnings = strings.Join(analysis.Warnings, "; ")
	}
	return mi, nil
}

func (s *MealService) GetMeal(userID, mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.Preload("Items").
		Where("id = ? AND user_id = ?", mealID, userID).
		First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) ListMeals(userID uint) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) ListMealsByDateRange(userID uint, from, to time.Time) ([]models.Meal, error) {
	var meals []models.Meal
	err := s.db.Preload("Items").
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, from, to).
		Order("ate_at DESC").
		Find(&meals).Error
	return meals, err
}

func (s *MealService) UpdateMeal(ctx context.Context, userID, mealID uint, mealType string, ateAt time.Time, items []MealItemRequest, restrictions *RestrictionContext) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
		return nil, err
	}
	meal.Type = mealType
	meal.AteAt = ateAt
	if err := s.db.Save(&meal).Error; err != nil {
		return nil, err
	}

	if err := s.db.Where("meal_id = ?", meal.ID).Delete(&models.MealItem{}).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		mi, err := s.buildItem(ctx, meal.ID, it, restrictions)
		if err != nil {
			return nil, err
		}
		if err := s.db.Create(mi).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Meal
	if err := s.db.Preload("Items").First(&updated, meal.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *MealService) DeleteMeal(userID, mealID uint) error {
	if err := s.db.Where("meal_id = ?", mealID).Delete(&models.MealItem{}).Error; err != nil {
		return err
	}
	return s.db.Where("id = ? AND user_id = ?", mealID, userID).Delete(&models.Meal{}).Error
}

// AttachPhoto stores the uploaded photo URL on the meal.
func (s *MealService) AttachPhoto(userID, mealID uint, photoURL string) (*models.Meal, error) {
	var meal models.Meal
	if err := s.db.Where("id = ? AND user_id = ?", mealID, userID).First(&meal).Error; err != nil {
		return nil, err
	}
	meal.PhotoURL = photoURL
	if err := s.db.Save(&meal).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (s *MealService) RemovePhoto(userID, mealID uint) error {
	return s.db.Model(&models.Meal{}).
		Where("id = ? AND user_id = ?", mealID, userID).
		Update("photo_url", "").Error
}

// CountPhotosOn counts meals with a photo logged on the given calendar day.
func (s *MealService) CountPhotosOn(userID uint, date time.Time) (int, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.AddDate(0, 0, 1)
	var count int64
	err := s.db.Model(&models.Meal{}).
		Where("user_id = ? AND photo_url <> '' AND ate_at >= ? AND ate_at < ?", userID, start, end).
		Count(&count).Error
	return int(count), err
}

// LifetimePhotoCount is the authoritative total of meal photos ever logged.
func (s *MealService) LifetimePhotoCount(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.Meal{}).
		Where("user_id = ? AND photo_url <> ''", userID).
		Count(&count).Error
	return int(count), err
}

func (s *MealService) MealsLogged(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.Meal{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

// DistinctDaysLogged counts calendar days with at least one meal.
func (s *MealService) DistinctDaysLogged(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.Meal{}).
		Where("user_id = ?", userID).
		Distinct("date(ate_at)").
		Count(&count).Error
	return int(count), err
}

// ProductsScanned counts meal items created from a catalog barcode.
func (s *MealService) ProductsScanned(userID uint) (int, error) {
	var count int64
	err := s.db.Model(&models.MealItem{}).
		Joins("JOIN meals ON meals.id = meal_items.meal_id").
		Where("meals.user_id = ? AND meal_items.barcode <> ''", userID).
		Distinct("meal_items.barcode").
		Count(&count).Error
	return int(count), err
}
