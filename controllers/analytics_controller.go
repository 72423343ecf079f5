package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
}

func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

func (ac *AnalyticsController) Summary(c *gin.Context) {
	uid := c.GetUint("userID")

	to := time.Now()
	from := to.AddDate(0, 0, -6)
	var err error
	if s := c.Query("from"); s != "" {
		if from, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
	}
	if s := c.Query("to"); s != "" {
		if to, err = time.Parse("2006-01-02", s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
	}
	includeMissing := c.DefaultQuery("include_missing", "true") == "true"

	summary, err := ac.Analytics.Summary(c.Request.Context(), uid, from, to, includeMissing)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (ac *AnalyticsController) WeeklyOverview(c *gin.Context) {
	uid := c.GetUint("userID")

	weekStart := time.Now().AddDate(0, 0, -6)
	if s := c.Query("week_start"); s != "" {
		parsed, err := time.Parse("2006-01-02", s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "week_start must be YYYY-MM-DD"})
			return
		}
		weekStart = parsed
	}
	mode := c.DefaultQuery("mode", "chart")

	overview, err := ac.Analytics.WeeklyOverview(c.Request.Context(), uid, weekStart, mode)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, overview)
}
