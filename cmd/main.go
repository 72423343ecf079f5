package main

import (
	"log"

	"github.com/koki198977/recomiendame-coach-app-sub001/config"
	"github.com/koki198977/recomiendame-coach-app-sub001/controllers"
	"github.com/koki198977/recomiendame-coach-app-sub001/routes"
	"github.com/koki198977/recomiendame-coach-app-sub001/services"
	"github.com/koki198977/recomiendame-coach-app-sub001/utils"
)

func main() {
	config.InitDB()
	utils.InitS3()
	db := config.DB

	// storage + repositories
	blobs := services.NewGormBlobStore(db)
	streakRepo := services.NewStreakRepository(blobs)
	unlockedRepo := services.NewUnlockedRepository(blobs)

	// core services
	analysisSvc := services.NewNutritionAnalysisService()
	resolverSvc := services.NewOpenFoodFactsService()
	chapiSvc := services.NewChapiService()
	scannerSvc := services.NewScannerService(resolverSvc, analysisSvc, chapiSvc)

	mealSvc := services.NewMealService(db, resolverSvc, analysisSvc)
	streakSvc := services.NewFoodPhotoStreakService(streakRepo, unlockedRepo, mealSvc)
	achievementsSvc := services.NewAchievementsService()

	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(db)
	activitySvc := services.NewActivityLogService(db)
	goalSvc := services.NewDailyGoalService(db, mealSvc, activitySvc)
	analyticsSvc := services.NewAnalyticsService(db)
	snapshots := services.NewSnapshotBuilder(mealSvc, streakRepo, analyticsSvc, activitySvc, userSvc)

	rekSvc, err := services.NewRekognitionService()
	if err != nil {
		log.Printf("rekognition unavailable, meal photos skip the food check: %v", err)
		rekSvc = nil
	}
	pushSvc, err := services.NewPushService(db)
	if err != nil {
		log.Printf("push unavailable: %v", err)
		pushSvc = nil
	}
	hub := services.NewRealtimeHub()
	notifier := services.NewNotifier(db, hub, pushSvc, userSvc)

	r := routes.SetupRouter(routes.Controllers{
		Auth:          controllers.NewAuthController(authSvc),
		User:          controllers.NewUserController(userSvc),
		Scanner:       controllers.NewScannerController(scannerSvc),
		Chapi:         controllers.NewChapiController(chapiSvc),
		Achievements:  controllers.NewAchievementsController(achievementsSvc, snapshots, unlockedRepo),
		Streak:        controllers.NewStreakController(streakSvc, notifier),
		Meal:          controllers.NewMealController(mealSvc, streakSvc, rekSvc, notifier),
		DailyGoal:     controllers.NewDailyGoalController(goalSvc),
		ActivityLog:   controllers.NewActivityLogController(activitySvc),
		Analytics:     controllers.NewAnalyticsController(analyticsSvc),
		Device:        controllers.NewDeviceController(pushSvc),
		Notifications: controllers.NewNotificationController(notifier),
		Realtime:      controllers.NewRealtimeController(hub),
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
