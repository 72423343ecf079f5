package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type StreakController struct {
	Streak   *services.FoodPhotoStreakService
	Notifier *services.Notifier
}

func NewStreakController(streak *services.FoodPhotoStreakService, notifier *services.Notifier) *StreakController {
	return &StreakController{Streak: streak, Notifier: notifier}
}

// PhotoUploaded runs the upload transition and announces any new unlocks.
func (sc *StreakController) PhotoUploaded(c *gin.Context) {
	uid := c.GetUint("userID")

	update, err := sc.Streak.OnPhotoUploaded(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if sc.Notifier != nil {
		sc.Notifier.StreakUpdated(uid, update.Streak)
		if len(update.AchievementsUnlocked) > 0 {
			sc.Notifier.AchievementsUnlocked(uid, update.AchievementsUnlocked)
		}
	}
	c.JSON(http.StatusOK, update)
}

// PhotoDeleted runs the delete transition; lost unlocks come back revoked.
func (sc *StreakController) PhotoDeleted(c *gin.Context) {
	uid := c.GetUint("userID")

	update, err := sc.Streak.OnPhotoDeleted(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, update)
}

func (sc *StreakController) Progress(c *gin.Context) {
	uid := c.GetUint("userID")

	progress, err := sc.Streak.GetProgress(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (sc *StreakController) Reset(c *gin.Context) {
	uid := c.GetUint("userID")

	if err := sc.Streak.Reset(uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "streak reset"})
}
