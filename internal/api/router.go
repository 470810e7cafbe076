package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "meal-planner/internal/api/handlers/health"
	ingredientHandler "meal-planner/internal/api/handlers/ingredient"
	mealHandler "meal-planner/internal/api/handlers/meal"
	planHandler "meal-planner/internal/api/handlers/plan"
	visionHandler "meal-planner/internal/api/handlers/vision"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/gemini"
	"meal-planner/internal/core/meal"
	"meal-planner/internal/core/plan"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	timeoutDuration = 120 * time.Second
	// 10MB request body cap
	maxBodySize = 10 << 20
)

// SetupRouter wires middleware, services and routes into a gin engine.
func SetupRouter(cfg *config.Config, store cache.Store, persistence plan.Persistence) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.String("text_model", cfg.Gemini.TextModel),
		zap.String("image_model", cfg.Gemini.ImageModel),
		zap.Duration("timeout", timeoutDuration),
	)

	client := gemini.NewClient(cfg)

	bag, err := plan.NewBag(persistence)
	if err != nil {
		return nil, fmt.Errorf("failed to load grocery bag: %w", err)
	}
	favorites, err := plan.NewFavorites(persistence)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	schedule, err := plan.NewSchedule(persistence)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	suggestionSvc := meal.NewSuggestionService(cfg, client)
	recipeSvc := meal.NewRecipeService(cfg, client, store)
	imageSvc := meal.NewImageService(cfg, client, store)
	visionSvc := meal.NewVisionService(cfg, client)

	// Per-request timeout plus context config injection.
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Set("config", cfg)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	api := router.Group("/api/v1")
	{
		api.GET("/ingredients/search", ingredientHandler.HandleSearch)

		meals := mealHandler.NewHandler(suggestionSvc, recipeSvc, imageSvc, bag, favorites)
		mealGroup := api.Group("/meals")
		{
			mealGroup.POST("/generate", meals.HandleGenerateMeals)
			mealGroup.POST("/recipe", meals.HandleRecipe)
			mealGroup.POST("/image", meals.HandleImage)
			mealGroup.POST("/rank", meals.HandleRank)
		}

		visions := visionHandler.NewHandler(cfg, visionSvc)
		api.POST("/vision/ingredients", visions.HandleExtract)

		plans := planHandler.NewHandler(bag, favorites, schedule)
		bagGroup := api.Group("/bag")
		{
			bagGroup.GET("/items", plans.HandleBagList)
			bagGroup.POST("/items", plans.HandleBagAdd)
			bagGroup.DELETE("/items", plans.HandleBagRemove)
			bagGroup.POST("/toggle", plans.HandleBagToggle)
		}

		favGroup := api.Group("/favorites")
		{
			favGroup.GET("", plans.HandleFavoritesList)
			favGroup.POST("/toggle", plans.HandleFavoritesToggle)
		}

		scheduleGroup := api.Group("/schedule")
		{
			scheduleGroup.GET("/:date", plans.HandleScheduleDay)
			scheduleGroup.POST("", plans.HandleScheduleAdd)
			scheduleGroup.DELETE("", plans.HandleScheduleRemove)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_enabled", store != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
