package routes

import (
	"github.com/gin-gonic/gin"

	"citysync-be/controllers"
	"citysync-be/middlewares"
	"citysync-be/services"
)

// EmployeeRoutes sets up the employee-facing routes
func EmployeeRoutes(r *gin.Engine, ctrl *controllers.IssueController) {
	employee := r.Group("/employee", middlewares.AuthMiddleware(), middlewares.RequireRole(services.RoleEmployee))
	{
		employee.GET("/me/issues", ctrl.GetAssignedIssues)
	}
}
