package services

import (
	"fmt"
	"time"

	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateStudentQuiz builds a personal quiz for one student out of the
// execution's active question pool and opens the student's attempt. The quiz,
// its question associations and the attempt are persisted in one transaction.
func GenerateStudentQuiz(studentID uuid.UUID, execution *models.CourseExecution, quizSize int) (*models.Quiz, *models.QuizAnswer, error) {
	var activeQuestions []models.Question
	err := database.DB.Preload("Options").
		Where("course_id = ? AND status = ?", execution.CourseID, models.QuestionStatusActive).
		Find(&activeQuestions).Error
	if err != nil {
		return nil, nil, fmt.Errorf("load active questions: %w", err)
	}

	var quizNumber int64
	database.DB.Model(&models.Quiz{}).Where("course_execution_id = ?", execution.ID).Count(&quizNumber)

	quiz := &models.Quiz{
		Number:            int(quizNumber) + 1,
		CourseExecutionID: execution.ID,
		Year:              time.Now().Year(),
	}
	if err := quiz.SetTitle(fmt.Sprintf("Generated quiz #%d", quiz.Number)); err != nil {
		return nil, nil, err
	}

	if err := quiz.Generate(quizSize, activeQuestions); err != nil {
		return nil, nil, err
	}

	quizAnswer := &models.QuizAnswer{UserID: studentID}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}

		quizAnswer.QuizID = quiz.ID
		return tx.Create(quizAnswer).Error
	})
	if err != nil {
		return nil, nil, fmt.Errorf("persist generated quiz: %w", err)
	}

	return quiz, quizAnswer, nil
}
