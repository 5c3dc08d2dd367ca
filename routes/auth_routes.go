package routes

import (
	"github.com/socialsoftware/quiz_tutor/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/fenix", handlers.FenixAuth)
	auth.Post("/external", handlers.ExternalLogin)
	auth.Post("/registration/confirm", handlers.ConfirmRegistration)

	demo := auth.Group("/demo")
	demo.Post("/student", handlers.DemoStudentAuth)
	demo.Post("/teacher", handlers.DemoTeacherAuth)
	demo.Post("/admin", handlers.DemoAdminAuth)
}
