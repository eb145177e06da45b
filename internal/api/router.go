package api

import (
	"context"
	"net/http"
	"time"

	catalogHandler "bar-catalog/internal/api/handlers/catalog"
	cocktailHandler "bar-catalog/internal/api/handlers/cocktail"
	"bar-catalog/internal/api/handlers/health"
	"bar-catalog/internal/api/middleware"
	catalogService "bar-catalog/internal/core/catalog"
	cocktailService "bar-catalog/internal/core/cocktail"
	"bar-catalog/internal/core/transfer"
	"bar-catalog/internal/infrastructure/cache"
	"bar-catalog/internal/infrastructure/config"
	"bar-catalog/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (2MB，可攜文件含翻譯也遠低於此)
	maxBodySize = 2 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, db *gorm.DB, cacheSvc *cache.Service) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與寫入去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// 初始化服務
	categorySvc := catalogService.NewCategoryService(db, cacheSvc)
	unitSvc := catalogService.NewUnitService(db, cacheSvc)
	bottleSvc := catalogService.NewBottleService(db, cacheSvc)
	ingredientSvc := catalogService.NewIngredientService(db, cacheSvc)
	availabilitySvc := catalogService.NewAvailabilityService(db, cacheSvc)
	cocktailSvc := cocktailService.NewService(db, cacheSvc)

	exportSvc := transfer.NewExportService(cocktailSvc)
	matchSvc := transfer.NewMatchService(db)
	importSvc := transfer.NewImportService(db, cocktailSvc, cacheSvc)
	fetchSvc := transfer.NewFetchService(&cfg.Import)

	// 全局中間件：設置超時與健康檢查依賴
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("db", db)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		categories := catalogHandler.NewCategoryHandler(categorySvc)
		units := catalogHandler.NewUnitHandler(unitSvc)
		bottles := catalogHandler.NewBottleHandler(bottleSvc)
		ingredients := catalogHandler.NewIngredientHandler(ingredientSvc)
		availability := catalogHandler.NewAvailabilityHandler(availabilitySvc)
		cocktails := cocktailHandler.NewHandler(cocktailSvc)
		transfers := cocktailHandler.NewTransferHandler(exportSvc, matchSvc, importSvc, fetchSvc)

		categoryGroup := api.Group("/categories")
		{
			categoryGroup.GET("", categories.HandleList)
			categoryGroup.GET("/:id", categories.HandleGet)
			categoryGroup.POST("", categories.HandleCreate)
			categoryGroup.PUT("/:id", categories.HandleUpdate)
			categoryGroup.DELETE("/:id", categories.HandleDelete)
		}
		api.GET("/category-types", categories.HandleListTypes)

		unitGroup := api.Group("/units")
		{
			unitGroup.GET("", units.HandleList)
			unitGroup.GET("/:id", units.HandleGet)
			unitGroup.POST("", units.HandleCreate)
			unitGroup.PUT("/:id", units.HandleUpdate)
			unitGroup.DELETE("/:id", units.HandleDelete)
		}

		bottleGroup := api.Group("/bottles")
		{
			bottleGroup.GET("", bottles.HandleList)
			bottleGroup.GET("/:id", bottles.HandleGet)
			bottleGroup.POST("", bottles.HandleCreate)
			bottleGroup.PUT("/:id", bottles.HandleUpdate)
			bottleGroup.DELETE("/:id", bottles.HandleDelete)
		}

		ingredientGroup := api.Group("/ingredients")
		{
			ingredientGroup.GET("", ingredients.HandleList)
			ingredientGroup.GET("/:id", ingredients.HandleGet)
			ingredientGroup.POST("", ingredients.HandleCreate)
			ingredientGroup.PUT("/:id", ingredients.HandleUpdate)
			ingredientGroup.DELETE("/:id", ingredients.HandleDelete)
		}

		cocktailGroup := api.Group("/cocktails")
		{
			cocktailGroup.GET("", cocktails.HandleList)
			cocktailGroup.GET("/:id", cocktails.HandleGet)
			cocktailGroup.POST("", cocktails.HandleCreate)
			cocktailGroup.PUT("/:id", cocktails.HandleUpdate)
			cocktailGroup.DELETE("/:id", cocktails.HandleDelete)

			// 配方匯出
			cocktailGroup.GET("/:id/export", transfers.HandleExport)
		}

		importGroup := api.Group("/import")
		{
			importGroup.POST("/preview", transfers.HandlePreview)
			importGroup.POST("/confirm", transfers.HandleConfirm)
			importGroup.POST("/fetch", transfers.HandleFetch)
		}

		availabilityGroup := api.Group("/availability")
		{
			availabilityGroup.GET("/cocktails", availability.HandleCocktails)
			availabilityGroup.GET("/low-stock", availability.HandleLowStock)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
