package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type ActivityLogController struct {
	Activity *services.ActivityLogService
}

func NewActivityLogController(activity *services.ActivityLogService) *ActivityLogController {
	return &ActivityLogController{Activity: activity}
}

func (ac *ActivityLogController) Upsert(c *gin.Context) {
	uid := c.GetUint("userID")

	var body struct {
		Hydration float64 `json:"hydration"`
		Exercise  float64 `json:"exercise"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := ac.Activity.UpsertDailyActivity(uid, body.Hydration, body.Exercise); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity saved"})
}

func (ac *ActivityLogController) Get(c *gin.Context) {
	uid := c.GetUint("userID")

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	hydration, exercise, err := ac.Activity.GetDailyActivityByDate(uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hydration": hydration, "exercise": exercise})
}
