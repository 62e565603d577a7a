package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/utpal74/ai-task-scheduler/handlers"
)

func SetupRoutes(router *gin.Engine, taskHandler *handlers.TasksHandler, summaryHandler *handlers.SummaryHandler, authHandler *handlers.AuthHandler, health gin.HandlerFunc) {
	router.GET("/", taskHandler.StatusHandler)
	router.GET("/healthz", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := router.Group("/auth")
	{
		auth.GET("/google", authHandler.GoogleLoginHandler)
		auth.GET("/google/callback", authHandler.GoogleCallbackHandler)
	}

	api := router.Group("/api")
	{
		api.POST("/tasks", taskHandler.NewTaskHandler)
		api.GET("/tasks", taskHandler.GetAllTasksHandler)
		api.GET("/summary", summaryHandler.GetSummaryHandler)
	}
}
