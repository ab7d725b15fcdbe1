package routes

import (
	"github.com/labstack/echo/v4"

	"equipment-system/internal/controllers"
)

// runAuthRouter — публичные маршруты: регистрация, вход, обновление пары токенов.
func runAuthRouter(api *echo.Group, authCtrl *controllers.AuthController, userCtrl *controllers.UserController) {
	api.POST("/user", userCtrl.Register)
	api.POST("/user/login", authCtrl.Login)
	api.POST("/user/refresh_token", authCtrl.RefreshToken)
}
