package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
	"github.com/koki198977/recomiendame-coach-app-sub001/utils"
)

type MealController struct {
	Meals       *services.MealService
	Streak      *services.FoodPhotoStreakService
	Rekognition *services.RekognitionService
	Notifier    *services.Notifier
}

func NewMealController(meals *services.MealService, streak *services.FoodPhotoStreakService, rek *services.RekognitionService, notifier *services.Notifier) *MealController {
	return &MealController{Meals: meals, Streak: streak, Rekognition: rek, Notifier: notifier}
}

func mealID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return 0, false
	}
	return uint(id), true
}

func (mc *MealController) Log(c *gin.Context) {
	var body struct {
		Type  string                     `json:"type" binding:"required"`
		AteAt time.Time                  `json:"ate_at"`
		Items []services.MealItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if body.AteAt.IsZero() {
		body.AteAt = time.Now()
	}

	uid := c.GetUint("userID")
	meal, err := mc.Meals.AddMeal(c.Request.Context(), uid, body.Type, body.AteAt, body.Items, restrictionContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (mc *MealController) List(c *gin.Context) {
	uid := c.GetUint("userID")
	meals, err := mc.Meals.ListMeals(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (mc *MealController) Get(c *gin.Context) {
	uid := c.GetUint("userID")
	id, ok := mealID(c)
	if !ok {
		return
	}
	meal, err := mc.Meals.GetMeal(uid, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) Update(c *gin.Context) {
	uid := c.GetUint("userID")
	id, ok := mealID(c)
	if !ok {
		return
	}

	var body struct {
		Type  string                     `json:"type" binding:"required"`
		AteAt time.Time                  `json:"ate_at"`
		Items []services.MealItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.Meals.UpdateMeal(c.Request.Context(), uid, id, body.Type, body.AteAt, body.Items, restrictionContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (mc *MealController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")
	id, ok := mealID(c)
	if !ok {
		return
	}
	if err := mc.Meals.DeleteMeal(uid, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// A deleted meal may take its photo with it; rerun the delete transition.
	if update, err := mc.Streak.OnPhotoDeleted(uid); err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "meal deleted", "streak": update.Streak, "achievements_revoked": update.AchievementsRevoked})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "meal deleted"})
}

// UploadPhoto stores a base64 meal photo. The image must look like food
// before it counts toward the streak.
func (mc *MealController) UploadPhoto(c *gin.Context) {
	uid := c.GetUint("userID")
	id, ok := mealID(c)
	if !ok {
		return
	}

	var body struct {
		Photo string `json:"photo" binding:"required"` // data URI
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if mc.Rekognition != nil {
		isFood, labels, err := mc.Rekognition.ContainsFood(body.Photo)
		if err == nil && !isFood {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "image does not look like food", "labels": labels})
			return
		}
	}

	url, err := utils.UploadBase64ImageToS3(body.Photo, "meal-photos/"+strconv.FormatUint(uint64(id), 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	meal, err := mc.Meals.AttachPhoto(uid, id, url)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return
	}

	update, err := mc.Streak.OnPhotoUploaded(uid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"meal": meal})
		return
	}
	if mc.Notifier != nil {
		mc.Notifier.StreakUpdated(uid, update.Streak)
		if len(update.AchievementsUnlocked) > 0 {
			mc.Notifier.AchievementsUnlocked(uid, update.AchievementsUnlocked)
		}
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal, "streak": update.Streak, "achievements_unlocked": update.AchievementsUnlocked})
}

func (mc *MealController) DeletePhoto(c *gin.Context) {
	uid := c.GetUint("userID")
	id, ok := mealID(c)
	if !ok {
		return
	}
	if err := mc.Meals.RemovePhoto(uid, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	update, err := mc.Streak.OnPhotoDeleted(uid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"message": "photo removed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "photo removed", "streak": update.Streak, "achievements_revoked": update.AchievementsRevoked})
}
