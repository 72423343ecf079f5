package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type NotificationController struct {
	Notifier *services.Notifier
}

func NewNotificationController(n *services.Notifier) *NotificationController {
	return &NotificationController{Notifier: n}
}

func (nc *NotificationController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	limit := 50
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	alerts, err := nc.Notifier.ListAlerts(uid, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, alerts)
}
