package routes

import (
	"github.com/socialsoftware/quiz_tutor/handlers"
	"github.com/socialsoftware/quiz_tutor/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// teacher-side quiz management
	managed := api.Group("/executions/:executionId/quizzes", middleware.Protected(), middleware.TeacherRequired())
	managed.Post("", handlers.CreateQuiz)
	managed.Get("", handlers.ListQuizzes)

	quizzes := api.Group("/quizzes", middleware.Protected())
	quizzes.Get("/:quizId", handlers.GetQuiz)
	quizzes.Put("/:quizId", middleware.TeacherRequired(), handlers.UpdateQuiz)
	quizzes.Delete("/:quizId", middleware.TeacherRequired(), handlers.DeleteQuiz)
	quizzes.Get("/:quizId/export", middleware.TeacherRequired(), handlers.ExportQuiz)

	// student-side solving
	quizzes.Post("/:quizId/answers", handlers.SubmitQuizAnswers)
	quizzes.Post("/:quizId/conclude", handlers.ConcludeQuiz)

	student := api.Group("/executions/:executionId", middleware.Protected())
	student.Post("/quizzes/generate", handlers.GenerateQuiz)
	student.Get("/quizzes/available", handlers.ListAvailableQuizzes)

	api.Get("/attempts", middleware.Protected(), handlers.GetMyAttempts)
}

func WebSocketRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	api.Get("/ws", websocket.New(handlers.ServeWs))
}
