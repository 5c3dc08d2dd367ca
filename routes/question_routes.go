package routes

import (
	"github.com/socialsoftware/quiz_tutor/handlers"
	"github.com/socialsoftware/quiz_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuestionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	questions := api.Group("/executions/:executionId/questions", middleware.Protected(), middleware.TeacherRequired())
	questions.Post("", handlers.CreateQuestion)
	questions.Get("", handlers.ListQuestions)
	questions.Get("/:questionId", handlers.GetQuestion)
	questions.Put("/:questionId", handlers.UpdateQuestion)
	questions.Put("/:questionId/status", handlers.SetQuestionStatus)
	questions.Delete("/:questionId", handlers.DeleteQuestion)
}
