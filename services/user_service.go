package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
	"github.com/koki198977/recomiendame-coach-app-sub001/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type ProfileInput struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Birthday       string  `json:"birthday"` // YYYY-MM-DD
	Height         float64 `json:"height"`
	Weight         float64 `json:"weight"`
	NutritionGoal  string  `json:"nutrition_goal"`
	Allergies      string  `json:"allergies"`  // comma-separated
	Conditions     string  `json:"conditions"` // comma-separated
	TargetCalories float64 `json:"target_calories"`
	ProfilePicture string  `json:"profile_picture"` // base64 data URI
	Onboarded      bool    `json:"onboarded"`
}

func (s *UserService) GetProfile(email string) (map[string]interface{}, error) {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	var bmi float64
	bmiCategory := ""
	if v, err := utils.CalculateBMI(user.Height, user.Weight); err == nil {
		bmi = v
		bmiCategory = utils.BMICategory(v)
	}

	return map[string]interface{}{
		"id":              user.ID,
		"user_id":         user.UserID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"birthday":        user.Birthday.Format("2006-01-02"),
		"age":             age,
		"height":          user.Height,
		"weight":          user.Weight,
		"start_weight":    user.StartWeight,
		"bmi":             bmi,
		"bmi_category":    bmiCategory,
		"nutrition_goal":  user.NutritionGoal,
		"allergies":       user.AllergyList(),
		"conditions":      user.ConditionList(),
		"target_calories": user.TargetCalories,
		"profile_picture": user.ProfilePicture,
		"mfa_enabled":     user.MFAEnabled,
		"onboarded":       user.Onboarded,
	}, nil
}

func (s *UserService) UpdateProfile(email string, input ProfileInput) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Birthday != "" {
		if birthday, err := time.Parse("2006-01-02", input.Birthday); err == nil {
			user.Birthday = birthday
		}
	}
	if input.Height > 0 {
		user.Height = input.Height
	}
	if input.Weight > 0 {
		if user.StartWeight <= 0 {
			user.StartWeight = input.Weight
		}
		user.Weight = input.Weight
	}
	if input.NutritionGoal != "" {
		user.NutritionGoal = strings.ToLower(input.NutritionGoal)
	}
	if input.Allergies != "" {
		user.Allergies = input.Allergies
	}
	if input.Conditions != "" {
		user.Conditions = input.Conditions
	}
	if input.TargetCalories > 0 {
		user.TargetCalories = input.TargetCalories
	}
	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, "profiles/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		user.ProfilePicture = url
	}
	user.Onboarded = input.Onboarded

	return s.db.Save(&user).Error
}

// CompleteOnboarding records the initial profile in one shot and flips the
// onboarded flag. StartWeight is pinned here, never overwritten later.
func (s *UserService) CompleteOnboarding(
	email string,
	birthday time.Time,
	height, weight float64,
	nutritionGoal string,
	allergies, conditions []string,
	targetCalories float64,
	profilePictureBase64 string,
	mfaEnabled bool,
) error {
	var user models.User
	if err := s.db.Where("email = ? AND disabled = ?", email, false).First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	user.Birthday = birthday
	user.Height = height
	user.Weight = weight
	user.StartWeight = weight
	user.NutritionGoal = strings.ToLower(nutritionGoal)
	user.Allergies = strings.Join(allergies, ",")
	user.Conditions = strings.Join(conditions, ",")
	user.TargetCalories = targetCalories
	user.MFAEnabled = mfaEnabled

	if profilePictureBase64 != "" {
		url, err := utils.UploadBase64ImageToS3(profilePictureBase64, "onboarding/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}

	user.Onboarded = true
	return s.db.Save(&user).Error
}

func (s *UserService) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete disables the account; rows stay for audit.
func (s *UserService) Delete(email string) error {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		return err
	}
	user.Disabled = true
	return s.db.Save(&user).Error
}
