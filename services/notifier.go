package services

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/koki198977/recomiendame-coach-app-sub001/models"
	"github.com/koki198977/recomiendame-coach-app-sub001/utils"
)

// Notifier fans one domain event out to the alert table, the websocket hub
// and push. Every channel is best effort; a failed channel never fails the
// operation that raised the event.
type Notifier struct {
	db    *gorm.DB
	hub   *RealtimeHub
	push  *PushService
	users *UserService
}

func NewNotifier(db *gorm.DB, hub *RealtimeHub, push *PushService, users *UserService) *Notifier {
	return &Notifier{db: db, hub: hub, push: push, users: users}
}

func (n *Notifier) emit(userID uint, typ, message string, extra map[string]any) {
	a := &models.Alert{UserID: userID, Type: typ, Message: message, CreatedAt: time.Now()}
	if err := n.db.Create(a).Error; err != nil {
		log.Printf("store alert for user %d: %v", userID, err)
	}

	if n.hub != nil {
		payload := map[string]any{"kind": "alert.created", "alert": a}
		for k, v := range extra {
			payload[k] = v
		}
		n.hub.Broadcast(userID, payload)
	}
	if n.push != nil {
		n.push.PushToUser(userID, "Recomiéndame", message, map[string]string{
			"type": typ, "alertId": fmt.Sprintf("%d", a.ID),
		})
	}
}

// AchievementsUnlocked announces each newly unlocked achievement.
func (n *Notifier) AchievementsUnlocked(userID uint, unlocked []models.Achievement) {
	for _, a := range unlocked {
		msg := fmt.Sprintf("¡Logro desbloqueado! %s %s", a.Icon, a.Title)
		n.emit(userID, "achievement", msg, map[string]any{"kind": "achievement.unlocked", "achievement": a})
	}
}

// streak lengths that earn a congratulation email.
var streakMilestones = map[int]bool{7: true, 30: true, 100: true}

// StreakUpdated announces the new streak length and mails milestone days.
func (n *Notifier) StreakUpdated(userID uint, streak models.FoodPhotoStreakData) {
	if n.hub != nil {
		n.hub.Broadcast(userID, map[string]any{"kind": "streak.updated", "streak": streak})
	}
	if !streakMilestones[streak.CurrentStreak] {
		return
	}

	msg := fmt.Sprintf("¡Racha de %d días con tus fotos de comida!", streak.CurrentStreak)
	n.emit(userID, "streak", msg, nil)

	if n.users != nil {
		if user, err := n.users.GetByID(userID); err == nil {
			if err := utils.SendStreakMilestoneEmail(user.Email, streak.CurrentStreak); err != nil {
				log.Printf("streak milestone email for user %d: %v", userID, err)
			}
		}
	}
}

func (n *Notifier) ListAlerts(userID uint, limit int) ([]models.Alert, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var alerts []models.Alert
	err := n.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}
