package handlers

import (
	"time"

	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/socialsoftware/quiz_tutor/notifications"
	"github.com/socialsoftware/quiz_tutor/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListCourseExecutions(c *fiber.Ctx) error {
	var executions []models.CourseExecution
	if err := database.DB.Preload("Course").Find(&executions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list course executions"})
	}
	return c.JSON(executions)
}

type CourseExecutionRequest struct {
	CourseName   string `json:"course_name" validate:"required"`
	Acronym      string `json:"acronym" validate:"required"`
	AcademicTerm string `json:"academic_term" validate:"required"`
}

// CreateCourseExecution registers an external (non-TECNICO) course execution.
// The course itself is created on first use and reused afterwards.
func CreateCourseExecution(c *fiber.Ctx) error {
	var req CourseExecutionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var count int64
	database.DB.Model(&models.CourseExecution{}).
		Where("acronym = ? AND academic_term = ?", req.Acronym, req.AcademicTerm).
		Count(&count)
	if count > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Course execution already exists"})
	}

	var execution models.CourseExecution
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course
		err := tx.Where("name = ? AND type = ?", req.CourseName, models.CourseTypeExternal).First(&course).Error
		if err == gorm.ErrRecordNotFound {
			course = models.Course{Name: req.CourseName, Type: models.CourseTypeExternal}
			err = tx.Create(&course).Error
		}
		if err != nil {
			return err
		}

		execution = models.CourseExecution{
			CourseID:     course.ID,
			Acronym:      req.Acronym,
			AcademicTerm: req.AcademicTerm,
			Status:       models.ExecutionStatusActive,
		}
		return tx.Create(&execution).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create course execution"})
	}

	database.DB.Preload("Course").First(&execution, "id = ?", execution.ID)
	return c.Status(fiber.StatusCreated).JSON(execution)
}

// RemoveCourseExecution deletes an execution that has no quizzes yet.
func RemoveCourseExecution(c *fiber.Ctx) error {
	executionID := c.Params("executionId")

	var execution models.CourseExecution
	if err := database.DB.First(&execution, "id = ?", executionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var quizCount int64
	database.DB.Model(&models.Quiz{}).Where("course_execution_id = ?", execution.ID).Count(&quizCount)
	if quizCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Course execution still has quizzes"})
	}

	var questionCount int64
	database.DB.Model(&models.Question{}).Where("course_id = ?", execution.CourseID).Count(&questionCount)
	if questionCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Course execution still has questions"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&execution).Association("Users").Clear(); err != nil {
			return err
		}
		return tx.Delete(&execution).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete course execution"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type ExternalUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required,oneof=student teacher"`
}

// CreateExternalUser provisions an inactive account enrolled in the given
// execution and mails the confirmation token.
func CreateExternalUser(c *fiber.Ctx) error {
	executionID := c.Params("executionId")

	var execution models.CourseExecution
	if err := database.DB.First(&execution, "id = ?", executionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var req ExternalUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	token, err := utils.GenerateConfirmationToken()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate confirmation token"})
	}
	expiration := time.Now().Add(48 * time.Hour)

	user := models.User{
		Name:                       req.Name,
		Username:                   req.Username,
		Email:                      &req.Email,
		Role:                       req.Role,
		State:                      models.UserStateInactive,
		ConfirmationToken:          &token,
		ConfirmationTokenExpiresAt: &expiration,
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Model(&user).Association("CourseExecutions").Append(&execution)
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	go notifications.SendConfirmationEmail(user.Name, req.Email, user.Username, token)

	return c.Status(fiber.StatusCreated).JSON(userResponse(&user))
}
