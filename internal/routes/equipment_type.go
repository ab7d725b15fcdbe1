package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
	"equipment-system/pkg/middleware"
)

// Список доступен всем авторизованным, создание и изменение — только is_staff.
func runEquipmentTypeRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentTypeController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/equipment-type", ctrl.GetEquipmentTypes)
	secureGroup.POST("/equipment-type", ctrl.CreateEquipmentType, authMW.AdminOnly)
	secureGroup.PUT("/equipment-type/:id", ctrl.UpdateEquipmentType, authMW.AdminOnly)
}
