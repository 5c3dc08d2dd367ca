package handlers

import (
	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OptionRequest struct {
	Content  string `json:"content" validate:"required"`
	Correct  bool   `json:"correct"`
	Sequence int    `json:"sequence"`
}

type QuestionRequest struct {
	Title   string          `json:"title" validate:"required"`
	Content string          `json:"content" validate:"required"`
	Options []OptionRequest `json:"options" validate:"required,min=2,dive"`
}

func (req *QuestionRequest) checkOneCorrectOption() bool {
	correct := 0
	for _, option := range req.Options {
		if option.Correct {
			correct++
		}
	}
	return correct == 1
}

// executionCourse resolves the course a question belongs to through the
// execution in the route.
func executionCourse(c *fiber.Ctx) (*models.CourseExecution, error) {
	executionID := c.Params("executionId")
	var execution models.CourseExecution
	if err := database.DB.Preload("Course").First(&execution, "id = ?", executionID).Error; err != nil {
		return nil, err
	}
	return &execution, nil
}

func CreateQuestion(c *fiber.Ctx) error {
	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.checkOneCorrectOption() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question must have exactly one correct option"})
	}

	question := models.Question{
		CourseID: execution.CourseID,
		Title:    req.Title,
		Content:  req.Content,
		Status:   models.QuestionStatusDisabled,
	}
	for i, option := range req.Options {
		question.Options = append(question.Options, models.Option{
			Sequence: i,
			Content:  option.Content,
			Correct:  option.Correct,
		})
	}

	if err := database.DB.Create(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create question"})
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func ListQuestions(c *fiber.Ctx) error {
	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var questions []models.Question
	database.DB.Preload("Options").Where("course_id = ?", execution.CourseID).Find(&questions)
	return c.JSON(questions)
}

func GetQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.Preload("Options").First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}
	return c.JSON(question)
}

func UpdateQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !req.checkOneCorrectOption() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Question must have exactly one correct option"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		question.Title = req.Title
		question.Content = req.Content
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		for i, option := range req.Options {
			newOption := models.Option{
				QuestionID: question.ID,
				Sequence:   i,
				Content:    option.Content,
				Correct:    option.Correct,
			}
			if err := tx.Create(&newOption).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question"})
	}

	database.DB.Preload("Options").First(&question, "id = ?", question.ID)
	return c.JSON(question)
}

type QuestionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DISABLED ACTIVE REMOVED"`
}

func SetQuestionStatus(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var req QuestionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	question.Status = req.Status
	if err := database.DB.Save(&question).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update question status"})
	}
	return c.JSON(question)
}

// DeleteQuestion removes a question that no quiz references.
func DeleteQuestion(c *fiber.Ctx) error {
	questionID := c.Params("questionId")
	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Question not found"})
	}

	var usedCount int64
	database.DB.Model(&models.QuizQuestion{}).Where("question_id = ?", question.ID).Count(&usedCount)
	if usedCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Question is used by a quiz"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete question"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
