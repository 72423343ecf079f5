package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/services"
)

type AchievementsController struct {
	Achievements *services.AchievementsService
	Snapshots    *services.SnapshotBuilder
	Unlocked     *services.UnlockedRepository
}

func NewAchievementsController(ach *services.AchievementsService, snap *services.SnapshotBuilder, unlocked *services.UnlockedRepository) *AchievementsController {
	return &AchievementsController{Achievements: ach, Snapshots: snap, Unlocked: unlocked}
}

// List evaluates the full catalog against the user's current activity.
func (ac *AchievementsController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	allowList, err := ac.Unlocked.Load(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snapshot := ac.Snapshots.Build(c.Request.Context(), uid)

	// The social graph lives in the social backend the app talks to
	// directly, so the client reports those counters with the request.
	snapshot.PostsCreated = intQuery(c, "posts_created")
	snapshot.Followers = intQuery(c, "followers")

	achievements := ac.Achievements.Calculate(snapshot, allowList)

	unlocked := 0
	for _, a := range achievements {
		if a.IsUnlocked {
			unlocked++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements": achievements,
		"unlocked":     unlocked,
		"total":        len(achievements),
		"snapshot":     snapshot,
	})
}

// intQuery reads a non-negative integer query parameter, zero when absent
// or malformed.
func intQuery(c *gin.Context, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
