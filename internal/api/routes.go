package api

import (
	"alcyxob/triplan/internal/pkg/logger"
	"alcyxob/triplan/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Services bundles what the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Plans    service.PlanService
	Editor   service.EditorService
	Workouts service.WorkoutService
	Imports  service.ImportService
	Profiles service.ProfileService
	Chat     service.ChatService
}

func SetupRoutes(router *gin.Engine, svc Services, allowedOrigins []string, log *logger.Logger) {
	authHandler := NewAuthHandler(svc.Auth, log)
	planHandler := NewPlanHandler(svc.Plans, log)
	editorHandler := NewEditorHandler(svc.Editor, log)
	workoutHandler := NewWorkoutHandler(svc.Workouts, log)
	importHandler := NewImportHandler(svc.Imports, log)
	profileHandler := NewProfileHandler(svc.Profiles, svc.Chat, log)

	router.Use(RequestID(), RequestLogger(log), CORS(allowedOrigins))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
		// Public so the import page can offer it before login.
		apiV1.GET("/imports/template", importHandler.Template)
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(svc.Auth))
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Save)
		protected.POST("/chat", profileHandler.Chat)

		plans := protected.Group("/plans")
		{
			plans.POST("/generate", planHandler.Generate)
			plans.GET("", planHandler.List)
			plans.GET("/:planId", planHandler.Get)
			plans.PUT("/:planId", planHandler.Update)
			plans.DELETE("/:planId", planHandler.Delete)

			ed := plans.Group("/:planId/editor")
			ed.POST("", editorHandler.Open)
			ed.GET("", editorHandler.Current)
			ed.POST("/move", editorHandler.Move)
			ed.POST("/reorder", editorHandler.Reorder)
			ed.POST("/save", editorHandler.Save)
			ed.DELETE("", editorHandler.Discard)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.POST("", workoutHandler.Create)
			workouts.GET("", workoutHandler.List)
			workouts.GET("/summary", workoutHandler.Summary)
			workouts.GET("/:workoutId", workoutHandler.Get)
			workouts.PUT("/:workoutId", workoutHandler.Update)
			workouts.DELETE("/:workoutId", workoutHandler.Delete)
		}

		imports := protected.Group("/imports")
		{
			imports.POST("", importHandler.Upload)
			imports.PUT("/:importId/mapping", importHandler.SetMapping)
			imports.GET("/:importId/preview", importHandler.Preview)
			imports.POST("/:importId/commit", importHandler.Commit)
			imports.GET("/:importId/source", importHandler.Source)
		}
	}
}
