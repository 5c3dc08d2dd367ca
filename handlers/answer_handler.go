package handlers

import (
	"time"

	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmitAnswersRequest struct {
	Answers []struct {
		QuizQuestionID string  `json:"quiz_question_id" validate:"required,uuid4"`
		OptionID       *string `json:"option_id"`
		TimeTakenMs    int     `json:"time_taken_ms"`
	} `json:"answers" validate:"required,min=1,dive"`
}

// SubmitQuizAnswers records (or re-records) the caller's picks for an
// available quiz. The attempt stays open until the quiz is concluded.
func SubmitQuizAnswers(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	quizID := c.Params("quizId")
	var quiz models.Quiz
	if err := database.DB.Preload("QuizQuestions").First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	if !quiz.IsAvailable(time.Now()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Quiz is not available yet"})
	}

	var req SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quizQuestionIDs := make(map[uuid.UUID]bool, len(quiz.QuizQuestions))
	for _, quizQuestion := range quiz.QuizQuestions {
		quizQuestionIDs[quizQuestion.ID] = true
	}

	var quizAnswer models.QuizAnswer
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).First(&quizAnswer).Error
		if err == gorm.ErrRecordNotFound {
			quizAnswer = models.QuizAnswer{QuizID: quiz.ID, UserID: userID}
			err = tx.Create(&quizAnswer).Error
		}
		if err != nil {
			return err
		}

		if quizAnswer.Completed {
			return fiber.NewError(fiber.StatusConflict, "Quiz has already been concluded")
		}

		for _, answer := range req.Answers {
			quizQuestionID, err := uuid.Parse(answer.QuizQuestionID)
			if err != nil || !quizQuestionIDs[quizQuestionID] {
				return fiber.NewError(fiber.StatusBadRequest, "Answer references a question outside this quiz")
			}

			var optionID *uuid.UUID
			if answer.OptionID != nil {
				parsed, err := uuid.Parse(*answer.OptionID)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "Invalid option ID")
				}
				optionID = &parsed
			}

			// one record per question and attempt; re-submission replaces it
			if err := tx.Where("quiz_answer_id = ? AND quiz_question_id = ?", quizAnswer.ID, quizQuestionID).
				Delete(&models.QuestionAnswer{}).Error; err != nil {
				return err
			}

			questionAnswer := models.QuestionAnswer{
				QuizAnswerID:   quizAnswer.ID,
				QuizQuestionID: quizQuestionID,
				OptionID:       optionID,
				TimeTakenMs:    answer.TimeTakenMs,
			}
			if err := tx.Create(&questionAnswer).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save answers"})
	}

	return c.JSON(fiber.Map{"message": "Answers saved", "quiz_answer_id": quizAnswer.ID})
}

// ConcludeQuiz closes the caller's attempt and reveals the correct options.
func ConcludeQuiz(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	quizID := c.Params("quizId")
	var quizAnswer models.QuizAnswer
	err = database.DB.
		Preload("QuestionAnswers").
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		First(&quizAnswer).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No attempt found for this quiz"})
	}

	if quizAnswer.Completed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Quiz has already been concluded"})
	}

	now := time.Now()
	quizAnswer.Completed = true
	quizAnswer.AnswerDate = &now
	if err := database.DB.Save(&quizAnswer).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to conclude quiz"})
	}

	type CorrectAnswer struct {
		QuizQuestionID uuid.UUID  `json:"quiz_question_id"`
		OptionID       *uuid.UUID `json:"correct_option_id"`
	}

	var quizQuestions []models.QuizQuestion
	database.DB.Preload("Question.Options").Where("quiz_id = ?", quizID).Order("sequence").Find(&quizQuestions)

	correctAnswers := make([]CorrectAnswer, len(quizQuestions))
	correctCount := 0
	answeredOptions := make(map[uuid.UUID]uuid.UUID)
	for _, questionAnswer := range quizAnswer.QuestionAnswers {
		if questionAnswer.OptionID != nil {
			answeredOptions[questionAnswer.QuizQuestionID] = *questionAnswer.OptionID
		}
	}

	for i, quizQuestion := range quizQuestions {
		answer := CorrectAnswer{QuizQuestionID: quizQuestion.ID}
		for _, option := range quizQuestion.Question.Options {
			if option.Correct {
				correct := option.ID
				answer.OptionID = &correct
				if answeredOptions[quizQuestion.ID] == option.ID {
					correctCount++
				}
			}
		}
		correctAnswers[i] = answer
	}

	return c.JSON(fiber.Map{
		"message":         "Quiz concluded",
		"answer_date":     quizAnswer.AnswerDate,
		"correct_count":   correctCount,
		"question_count":  len(quizQuestions),
		"correct_answers": correctAnswers,
	})
}

// GetMyAttempts lists the caller's quiz attempts across executions.
func GetMyAttempts(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	var attempts []models.QuizAnswer
	database.DB.Preload("Quiz").Where("user_id = ?", userID).Order("created_at desc").Find(&attempts)
	return c.JSON(attempts)
}
