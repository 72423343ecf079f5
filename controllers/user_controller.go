package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	email := c.GetString("email")
	profile, err := uc.Users.GetProfile(email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	email := c.GetString("email")

	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.Users.UpdateProfile(email, input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (uc *UserController) CompleteOnboarding(c *gin.Context) {
	email := c.GetString("email")

	var body struct {
		Birthday       string   `json:"birthday" binding:"required"` // YYYY-MM-DD
		Height         float64  `json:"height" binding:"required"`
		Weight         float64  `json:"weight" binding:"required"`
		NutritionGoal  string   `json:"nutrition_goal"`
		Allergies      []string `json:"allergies"`
		Conditions     []string `json:"conditions"`
		TargetCalories float64  `json:"target_calories"`
		ProfilePicture string   `json:"profile_picture"`
		MFAEnabled     bool     `json:"mfa_enabled"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	birthday, err := time.Parse("2006-01-02", body.Birthday)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birthday must be YYYY-MM-DD"})
		return
	}

	err = uc.Users.CompleteOnboarding(
		email, birthday, body.Height, body.Weight,
		body.NutritionGoal, body.Allergies, body.Conditions,
		body.TargetCalories, body.ProfilePicture, body.MFAEnabled,
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "onboarding completed"})
}

func (uc *UserController) DeleteAccount(c *gin.Context) {
	email := c.GetString("email")
	if err := uc.Users.Delete(email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account disabled"})
}
