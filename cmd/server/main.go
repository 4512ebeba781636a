package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmakela/profiili/adapters/event"
	httpAdapter "github.com/jmakela/profiili/adapters/http"
	"github.com/jmakela/profiili/adapters/media_storage"
	"github.com/jmakela/profiili/adapters/persistence"
	activityUC "github.com/jmakela/profiili/internal/application/usecase/activity"
	authUC "github.com/jmakela/profiili/internal/application/usecase/auth"
	educationUC "github.com/jmakela/profiili/internal/application/usecase/education"
	favoriteUC "github.com/jmakela/profiili/internal/application/usecase/favorite"
	photoUC "github.com/jmakela/profiili/internal/application/usecase/photo"
	profileUC "github.com/jmakela/profiili/internal/application/usecase/profile"
	workUC "github.com/jmakela/profiili/internal/application/usecase/work"
	"github.com/jmakela/profiili/internal/config"
	"github.com/jmakela/profiili/pkg/auth"
	"github.com/jmakela/profiili/pkg/logger"
	"github.com/jmakela/profiili/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	zlog := logger.NewZapLogger(cfg.App.Env)
	zlog.Info("Starting profiili API server")

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, zlog, "profiili-api")
		if err != nil {
			zlog.Fatal("cannot init tracing", err)
		}
		defer tp.Shutdown(context.Background())
	}

	dbPool, err := persistence.NewPostgresPool(cfg, zlog)
	if err != nil {
		zlog.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, zlog)
	if err != nil {
		zlog.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		zlog.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Transactions; after-commit listeners see the touched profile ids.
	txManager := persistence.NewTxManager(dbPool, zlog)

	profileCache := persistence.NewRedisProfileCache(redisClient, zlog)
	txManager.OnCommit(profileCache.Invalidate)
	txManager.OnCommit(func(ctx context.Context, profileIDs []uuid.UUID) {
		for _, id := range profileIDs {
			payload := event.ProfileEventPayload{
				EventType: event.ProfileEventTypeUpdated,
				ProfileID: id,
			}
			if err := kafkaClient.PublishProfileEvent(ctx, payload); err != nil {
				zlog.Error("Failed to publish profile event", err, zap.String("profile_id", id.String()))
			}
		}
	})

	// Repositories
	accountRepo := persistence.NewPostgresAccountRepo(dbPool)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, zlog)
	categoryRepo := persistence.NewPostgresEducationCategoryRepo(dbPool, zlog)
	entryRepo := persistence.NewPostgresEducationEntryRepo(dbPool, zlog)
	workplaceRepo := persistence.NewPostgresWorkplaceRepo(dbPool, zlog)
	roleRepo := persistence.NewPostgresRoleRepo(dbPool, zlog)
	activityRepo := persistence.NewPostgresActivityRepo(dbPool, zlog)
	qualificationRepo := persistence.NewPostgresQualificationRepo(dbPool, zlog)
	favoriteRepo := persistence.NewPostgresFavoriteRepo(dbPool, zlog)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg)
	if err != nil {
		zlog.Fatal("cannot init uploader", err)
	}

	// Use cases
	loginUseCase := authUC.NewLoginUseCase(accountRepo, jwtSvc, zlog)
	profileUseCase := profileUC.NewUseCase(profileRepo, profileCache, txManager, zlog)
	photoUseCase := photoUC.NewUseCase(profileRepo, uploader, txManager, zlog)
	educationUseCase := educationUC.NewUseCase(categoryRepo, entryRepo, txManager, zlog)
	workUseCase := workUC.NewUseCase(workplaceRepo, roleRepo, txManager, zlog)
	activityUseCase := activityUC.NewUseCase(activityRepo, qualificationRepo, txManager, zlog)
	favoriteUseCase := favoriteUC.NewUseCase(favoriteRepo, txManager, zlog)

	// Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase, zlog)
	profileHandler := httpAdapter.NewProfileHandler(profileUseCase, photoUseCase, zlog)
	educationHandler := httpAdapter.NewEducationHandler(educationUseCase, zlog)
	workHandler := httpAdapter.NewWorkHandler(workUseCase, zlog)
	activityHandler := httpAdapter.NewActivityHandler(activityUseCase, zlog)
	favoriteHandler := httpAdapter.NewFavoriteHandler(favoriteUseCase, zlog)

	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(httpAdapter.ErrorMiddleware(zlog))

	api := router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.POST("/auth/login", authHandler.Login)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			private.GET("/profile", profileHandler.GetProfile)
			private.PUT("/profile", profileHandler.UpdateProfile)
			private.GET("/profile/competencies", profileHandler.GetCompetencies)
			private.POST("/profile/photo", profileHandler.UploadPhoto)
			private.DELETE("/profile/photo", profileHandler.DeletePhoto)

			education := private.Group("/education")
			{
				education.GET("", educationHandler.List)
				education.GET("/categories", educationHandler.ListCategories)
				education.PUT("", educationHandler.Merge)
				education.PATCH("", educationHandler.Upsert)
				education.DELETE("", educationHandler.Delete)
			}

			workplaces := private.Group("/workplaces")
			{
				workplaces.GET("", workHandler.List)
				workplaces.POST("", workHandler.Create)
				workplaces.GET("/:id", workHandler.Get)
				workplaces.PUT("/:id", workHandler.Update)
				workplaces.DELETE("/:id", workHandler.Delete)
			}

			activities := private.Group("/activities")
			{
				activities.GET("", activityHandler.List)
				activities.POST("", activityHandler.Create)
				activities.GET("/:id", activityHandler.Get)
				activities.PUT("/:id", activityHandler.Update)
				activities.DELETE("", activityHandler.Delete)
			}

			favorites := private.Group("/favorites")
			{
				favorites.GET("", favoriteHandler.List)
				favorites.POST("", favoriteHandler.Add)
				favorites.DELETE("/:id", favoriteHandler.Delete)
			}
		}
	}

	zlog.Info("Server running", zap.String("port", cfg.App.Port))
	if err := router.Run(":" + cfg.App.Port); err != nil {
		zlog.Fatal("cannot run server", err)
	}
}
