package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type DailyGoalController struct {
	Goals *services.DailyGoalService
}

func NewDailyGoalController(goals *services.DailyGoalService) *DailyGoalController {
	return &DailyGoalController{Goals: goals}
}

func (gc *DailyGoalController) GetGoalsAndProgress(c *gin.Context) {
	uid := c.GetUint("userID")

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		goal, progress, err := gc.Goals.GetGoalsAndProgressByDate(uid, date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"goals": goal, "progress": progress})
		return
	}

	goal, progress, err := gc.Goals.GetGoalsAndProgress(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goal, "progress": progress})
}

func (gc *DailyGoalController) UpsertGoals(c *gin.Context) {
	uid := c.GetUint("userID")

	var body struct {
		Calories  float64 `json:"calories"`
		Protein   float64 `json:"protein"`
		Carbs     float64 `json:"carbs"`
		Fat       float64 `json:"fat"`
		Sodium    float64 `json:"sodium"`
		Sugar     float64 `json:"sugar"`
		Hydration float64 `json:"hydration"`
		Exercise  float64 `json:"exercise"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := gc.Goals.UpsertGoals(uid, body.Calories, body.Protein, body.Carbs, body.Fat, body.Sodium, body.Sugar, body.Hydration, body.Exercise)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goals saved"})
}

func (gc *DailyGoalController) ListProgress(c *gin.Context) {
	uid := c.GetUint("userID")
	logs, err := gc.Goals.GetAllDailyProgress(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, logs)
}
