package routes

import (
	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/handlers"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/gofiber/fiber/v2"
)

func PublicRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/auth/fenix", handlers.FenixAuthURL)

	api.Get("/executions/active", func(c *fiber.Ctx) error {
		var executions []models.CourseExecution
		if err := database.DB.Preload("Course").Where("status = ?", models.ExecutionStatusActive).Find(&executions).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list executions"})
		}
		return c.JSON(executions)
	})
}
