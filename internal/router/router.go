package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/client"
	"quote-pipeline-api/internal/config"
	"quote-pipeline-api/internal/database"
	"quote-pipeline-api/internal/handler"
	"quote-pipeline-api/internal/metrics"
	"quote-pipeline-api/internal/middleware"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/service"
)

// Config holds the router dependencies
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWT            config.JWTConfig
	BasePath       string
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	S3Client       client.S3ClientInterface
	Cache          *redis.Client
}

// Setup builds the gin engine with all routes and middleware registered
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Repositories
	quoteRepo := repository.NewQuoteRepository(cfg.DB)
	customerRepo := repository.NewCustomerRepository(cfg.DB)
	contactRepo := repository.NewContactRepository(cfg.DB)
	activityRepo := repository.NewActivityRepository(cfg.DB)
	taskRepo := repository.NewTaskRepository(cfg.DB)
	userRepo := repository.NewUserRepository(cfg.DB)

	// Services
	quoteService := service.NewQuoteService(quoteRepo, customerRepo, cfg.S3Client, cfg.Cache, cfg.Metrics, cfg.Logger)
	customerService := service.NewCustomerService(customerRepo, contactRepo, cfg.Logger)
	activityService := service.NewActivityService(activityRepo, customerRepo, quoteRepo, cfg.Logger)
	taskService := service.NewTaskService(taskRepo, quoteRepo, cfg.Logger)
	authService := service.NewAuthService(userRepo, cfg.JWT, cfg.Logger)

	// Handlers
	quoteHandler := handler.NewQuoteHandler(quoteService)
	customerHandler := handler.NewCustomerHandler(customerService, activityService)
	taskHandler := handler.NewTaskHandler(taskService)
	authHandler := handler.NewAuthHandler(authService)

	registerOps := func(group *gin.RouterGroup) {
		group.GET("/health", healthCheck(cfg.DB))
		group.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	registerOps(r.Group(""))
	if cfg.BasePath != "" {
		registerOps(r.Group(cfg.BasePath))
	}

	api := r.Group(cfg.BasePath + "/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWT.Secret))
	{
		quotes := protected.Group("/quotes")
		{
			quotes.GET("", quoteHandler.ListQuotes)
			quotes.POST("", quoteHandler.CreateQuote)
			quotes.PATCH("/positions", quoteHandler.ReorderQuotes)
			quotes.GET("/:id", quoteHandler.GetQuote)
			quotes.PUT("/:id", quoteHandler.UpdateQuote)
			quotes.PATCH("/:id/stage", quoteHandler.MoveQuoteStage)
			quotes.POST("/:id/attachment", quoteHandler.UploadAttachment)
			quotes.GET("/:id/activities", customerHandler.ListQuoteActivities)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", customerHandler.ListCustomers)
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.DELETE("/:id", customerHandler.DeleteCustomer)
			customers.GET("/:id/contacts", customerHandler.ListContacts)
			customers.POST("/:id/contacts", customerHandler.AddContact)
			customers.DELETE("/:id/contacts/:contactId", customerHandler.DeleteContact)
			customers.GET("/:id/activities", customerHandler.ListCustomerActivities)
			customers.POST("/:id/activities", customerHandler.LogActivity)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/done", taskHandler.SetTaskDone)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r
}

// healthCheck reports liveness plus the database connection state. The
// wired handle is checked first; when the process came up without one,
// the connection published by the background retry is consulted.
func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "disconnected"
		if database.Ping(db) || database.IsConnected() {
			dbStatus = "connected"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": dbStatus,
		})
	}
}
