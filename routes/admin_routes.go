package routes

import (
	"github.com/socialsoftware/quiz_tutor/handlers"
	"github.com/socialsoftware/quiz_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	executions := admin.Group("/executions")
	executions.Get("", handlers.ListCourseExecutions)
	executions.Post("", handlers.CreateCourseExecution)
	executions.Delete("/:executionId", handlers.RemoveCourseExecution)
	executions.Post("/:executionId/users", handlers.CreateExternalUser)
}
