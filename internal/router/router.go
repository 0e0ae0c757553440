package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studytrack/backend/internal/handler"
	"studytrack/backend/internal/logging"
	"studytrack/backend/internal/middleware"
	"studytrack/backend/internal/service"
)

type Handlers struct {
	Auth        *handler.AuthHandler
	Timer       *handler.TimerHandler
	Preferences *handler.PreferencesHandler
	Tasks       *handler.TaskHandler
	Stats       *handler.StatsHandler
}

func New(
	authService *service.AuthService,
	handlers Handlers,
	corsOrigins []string,
	logger *zap.Logger,
) *gin.Engine {
	engine := gin.New()
	engine.Use(logging.RequestLogger(logger), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	auth := api.Group("/auth")
	auth.POST("/register", handlers.Auth.Register)
	auth.POST("/login", handlers.Auth.Login)

	authorized := api.Group("")
	authorized.Use(middleware.Auth(authService))

	timer := authorized.Group("/timer")
	timer.GET("/state", handlers.Timer.GetState)
	timer.POST("/mode", handlers.Timer.SelectMode)
	timer.POST("/start", handlers.Timer.Start)
	timer.POST("/pause", handlers.Timer.Pause)
	timer.POST("/stop", handlers.Timer.Stop)

	prefs := authorized.Group("/preferences")
	prefs.GET("", handlers.Preferences.Get)
	prefs.PUT("", handlers.Preferences.Put)

	tasks := authorized.Group("/tasks")
	tasks.POST("", handlers.Tasks.Create)
	tasks.GET("", handlers.Tasks.List)
	tasks.PUT("/:id", handlers.Tasks.Update)
	tasks.PATCH("/:id/completed", handlers.Tasks.SetCompleted)
	tasks.DELETE("/:id", handlers.Tasks.Delete)

	stats := authorized.Group("/stats")
	stats.GET("/daily", handlers.Stats.Daily)
	stats.GET("/subjects", handlers.Stats.Subjects)
	stats.GET("/tasks", handlers.Stats.Tasks)

	return engine
}
