package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runEquipmentRouter(secureGroup *echo.Group, ctrl *controllers.EquipmentController) {
	secureGroup.GET("/equipment", ctrl.GetEquipments)
	// export регистрируется раньше /:id, иначе echo примет "export" за ID
	secureGroup.GET("/equipment/export", ctrl.ExportEquipments)
	secureGroup.GET("/equipment/:id", ctrl.FindEquipment)
	secureGroup.POST("/equipment", ctrl.CreateEquipment)
	secureGroup.PUT("/equipment/:id", ctrl.UpdateEquipment)
	secureGroup.DELETE("/equipment/:id", ctrl.DeleteEquipment)
}
