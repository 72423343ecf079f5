package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/config"
	"github.com/koki198977/recomiendame-coach-app-sub001/models"
	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

// currentUser loads the authenticated user set by the auth middleware.
func currentUser(c *gin.Context) (*models.User, error) {
	email := c.GetString("email")
	if email == "" {
		return nil, errors.New("not authenticated")
	}
	var user models.User
	if err := config.DB.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// restrictionContext builds the scoring context for the authenticated user,
// preferring the daily goal's calorie target when one exists.
func restrictionContext(c *gin.Context) *services.RestrictionContext {
	user, err := currentUser(c)
	if err != nil {
		return nil
	}
	var goal models.DailyGoal
	if err := config.DB.Where("user_id = ?", user.ID).First(&goal).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return services.BuildRestrictionContext(user, nil)
		}
		goal = models.DailyGoal{}
	}
	return services.BuildRestrictionContext(user, &goal)
}
