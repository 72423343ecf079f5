package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/koki198977/recomiendame-coach-app-sub001/controllers"
	"github.com/koki198977/recomiendame-coach-app-sub001/middlewares"
)

// Controllers bundles every constructed controller; routes only wire paths.
type Controllers struct {
	Auth          *controllers.AuthController
	User          *controllers.UserController
	Scanner       *controllers.ScannerController
	Chapi         *controllers.ChapiController
	Achievements  *controllers.AchievementsController
	Streak        *controllers.StreakController
	Meal          *controllers.MealController
	DailyGoal     *controllers.DailyGoalController
	ActivityLog   *controllers.ActivityLogController
	Analytics     *controllers.AnalyticsController
	Device        *controllers.DeviceController
	Notifications *controllers.NotificationController
	Realtime      *controllers.RealtimeController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
		auth.POST("/forgot-password", ctl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctl.Auth.ResetPassword)
		auth.POST("/mfa/send", ctl.Auth.SendMFACode)
		auth.POST("/mfa/verify", ctl.Auth.VerifyMFACode)
	}

	api := r.Group("/")
	api.Use(middlewares.AuthMiddleware())
	{
		user := api.Group("/user")
		{
			user.GET("/profile", ctl.User.GetProfile)
			user.PUT("/profile", ctl.User.UpdateProfile)
			user.POST("/onboarding", ctl.User.CompleteOnboarding)
			user.DELETE("", ctl.User.DeleteAccount)
		}

		api.POST("/scanner/analyze", ctl.Scanner.Analyze)
		api.POST("/chapi/message", ctl.Chapi.Message)
		api.GET("/achievements", ctl.Achievements.List)

		streak := api.Group("/streak")
		{
			streak.POST("/photo-uploaded", ctl.Streak.PhotoUploaded)
			streak.POST("/photo-deleted", ctl.Streak.PhotoDeleted)
			streak.GET("/progress", ctl.Streak.Progress)
			streak.POST("/reset", ctl.Streak.Reset)
		}

		meals := api.Group("/meals")
		{
			meals.POST("", ctl.Meal.Log)
			meals.GET("", ctl.Meal.List)
			meals.GET("/:id", ctl.Meal.Get)
			meals.PUT("/:id", ctl.Meal.Update)
			meals.DELETE("/:id", ctl.Meal.Delete)
			meals.POST("/:id/photo", ctl.Meal.UploadPhoto)
			meals.DELETE("/:id/photo", ctl.Meal.DeletePhoto)
		}

		goals := api.Group("/goals")
		{
			goals.GET("", ctl.DailyGoal.GetGoalsAndProgress)
			goals.PUT("", ctl.DailyGoal.UpsertGoals)
			goals.GET("/progress", ctl.DailyGoal.ListProgress)
		}

		activity := api.Group("/activity")
		{
			activity.POST("", ctl.ActivityLog.Upsert)
			activity.GET("", ctl.ActivityLog.Get)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/summary", ctl.Analytics.Summary)
			analytics.GET("/weekly", ctl.Analytics.WeeklyOverview)
		}

		api.POST("/devices", ctl.Device.Register)
		api.GET("/notifications", ctl.Notifications.List)
		api.GET("/ws/events", ctl.Realtime.EventsWS)
	}

	return r
}
