package routes

import (
	"github.com/gin-gonic/gin"

	"citysync-be/controllers"
	"citysync-be/middlewares"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ctrl *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Register)
		auth.POST("/login", ctrl.Login)
		auth.POST("/logout", ctrl.Logout)
		auth.GET("/me", middlewares.AuthMiddleware(), ctrl.GetMe)
	}
}
