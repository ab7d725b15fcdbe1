package routes

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/controllers"
	"equipment-system/internal/repositories"
	"equipment-system/internal/services"
	"equipment-system/pkg/middleware"
	"equipment-system/pkg/service"
)

// InitRouter собирает зависимости всех слоёв и регистрирует маршруты.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	validate *validator.Validate,
	logger *zap.Logger,
) {
	api := e.Group("/api")

	txManager := repositories.NewTxManager(dbConn)

	userRepo := repositories.NewUserRepository(dbConn)
	equipmentTypeRepo := repositories.NewEquipmentTypeRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	authMW := middleware.NewAuthMiddleware(jwtSvc, userRepo, logger)

	authService := services.NewAuthService(userRepo, cacheRepo, jwtSvc, logger)
	userService := services.NewUserService(userRepo, txManager, authService, logger)
	equipmentTypeService := services.NewEquipmentTypeService(equipmentTypeRepo, txManager, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, equipmentTypeRepo, txManager, validate, logger)
	exportService := services.NewEquipmentExportService(equipmentRepo, logger)

	authCtrl := controllers.NewAuthController(authService, logger)
	userCtrl := controllers.NewUserController(userService, logger)
	equipmentTypeCtrl := controllers.NewEquipmentTypeController(equipmentTypeService, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, exportService, logger)

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authCtrl, userCtrl)
	runUserRouter(secureGroup, userCtrl)
	runEquipmentTypeRouter(secureGroup, equipmentTypeCtrl, authMW)
	runEquipmentRouter(secureGroup, equipmentCtrl)

	logger.Info("InitRouter: маршруты зарегистрированы")
}
