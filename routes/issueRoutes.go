package routes

import (
	"github.com/gin-gonic/gin"

	"citysync-be/controllers"
	"citysync-be/middlewares"
	"citysync-be/services"
)

// IssueRoutes sets up the issue lifecycle routes. Reporting is limited to
// citizens (and rate limited); assignment and status updates to employees.
func IssueRoutes(r *gin.Engine, ctrl *controllers.IssueController, rateLimiter gin.HandlerFunc) {
	issue := r.Group("/issue", middlewares.AuthMiddleware())
	{
		create := []gin.HandlerFunc{middlewares.RequireRole(services.RoleCitizen)}
		if rateLimiter != nil {
			create = append(create, rateLimiter)
		}
		issue.POST("", append(create, ctrl.CreateIssue)...)

		issue.GET("", ctrl.GetAllIssues)
		issue.GET("/:id", ctrl.GetIssue)
		issue.PATCH("/:id", middlewares.RequireRole(services.RoleEmployee), ctrl.UpdateIssueStatus)
		issue.POST("/:id/assign", middlewares.RequireRole(services.RoleEmployee), ctrl.AssignIssue)
	}
}
