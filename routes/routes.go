package routes

import (
	"net/http"
	"time"

	"designhub-backend/config"
	"designhub-backend/controllers"
	"designhub-backend/services"
	"designhub-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the shared objects handlers are built from.
type Deps struct {
	DB     *gorm.DB
	Quotes *services.QuoteService
}

func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(config.PerformanceLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	quoteController := controllers.NewQuoteController(deps.Quotes)
	materialController := controllers.NewMaterialController(deps.DB)
	projectController := controllers.NewProjectController(deps.DB)
	profileController := controllers.NewProfileController(deps.DB)
	notificationController := controllers.NewNotificationController(deps.DB, deps.Quotes)
	dashboardController := controllers.NewDashboardController(deps.Quotes)
	reportController := controllers.NewReportController(deps.Quotes)

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware(cfg.JWTSecret))
	{
		// Quote routes
		quotes := api.Group("/quotes")
		{
			quotes.POST("/preview", quoteController.PreviewQuote)
			quotes.POST("", quoteController.CreateQuote)
			quotes.GET("/:id", quoteController.GetQuote)
			quotes.PUT("/:id", quoteController.UpdateQuote)

			quotes.POST("/:id/items", quoteController.AddItem)
			quotes.PATCH("/:id/items/:index", quoteController.UpdateItem)
			quotes.DELETE("/:id/items/:index", quoteController.RemoveItem)

			quotes.POST("/:id/submit", quoteController.SubmitQuote)
			quotes.POST("/:id/accept", quoteController.AcceptQuote)
			quotes.POST("/:id/reject", quoteController.RejectQuote)

			quotes.GET("/:id/notifications", notificationController.GetQuoteNotifications)
		}

		// Project routes
		projects := api.Group("/projects")
		{
			projects.POST("", projectController.CreateProject)
			projects.GET("", projectController.GetProjects)
			projects.GET("/:id", projectController.GetProject)
			projects.PUT("/:id/assign", projectController.AssignProject)
			projects.GET("/:id/quotes", quoteController.ListProjectQuotes)
		}

		// Material catalog routes
		materials := api.Group("/materials")
		{
			materials.POST("", materialController.CreateMaterial)
			materials.GET("", materialController.GetMaterials)
			materials.GET("/:id", materialController.GetMaterial)
			materials.PUT("/:id", materialController.UpdateMaterial)
			materials.DELETE("/:id", materialController.DeleteMaterial)
		}

		// Profile routes
		api.GET("/profile", profileController.GetProfile)
		api.PUT("/profile", profileController.UpdateProfile)

		// Dashboard and report routes
		api.GET("/dashboard", dashboardController.GetDashboardOverview)
		api.GET("/reports", reportController.GetReportAnalytics)
	}

	return r
}
