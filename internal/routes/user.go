package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController) {
	secureGroup.GET("/user/:id", userCtrl.GetUserByID)
}
