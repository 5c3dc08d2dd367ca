package jobs

import (
	"log"
	"strconv"
	"time"

	config "github.com/socialsoftware/quiz_tutor/configs"
	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"gorm.io/gorm"
)

// CleanupStaleGeneratedQuizzes removes generated student quizzes that were
// never answered. Quizzes with any recorded answer are kept untouched.
func CleanupStaleGeneratedQuizzes() {
	log.Println("Running job: CleanupStaleGeneratedQuizzes...")

	maxAgeDays := 7
	if raw := config.ConfigOr("STALE_QUIZ_MAX_AGE_DAYS", "7"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxAgeDays = parsed
		}
	}
	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var staleQuizzes []models.Quiz
	err := database.DB.
		Preload("QuizQuestions.QuestionAnswers").
		Preload("QuizAnswers.QuestionAnswers").
		Where("type = ? AND generation_date < ?", models.QuizTypeStudent, cutoff).
		Find(&staleQuizzes).Error
	if err != nil {
		log.Printf("Error loading stale quizzes: %v", err)
		return
	}

	removed := 0
	for i := range staleQuizzes {
		quiz := &staleQuizzes[i]

		// attempts that were started but never submitted don't count as answers
		hasSubmissions := false
		for _, answer := range quiz.QuizAnswers {
			if answer.Completed || len(answer.QuestionAnswers) > 0 {
				hasSubmissions = true
				break
			}
		}
		if hasSubmissions {
			continue
		}
		for _, quizQuestion := range quiz.QuizQuestions {
			if len(quizQuestion.QuestionAnswers) > 0 {
				hasSubmissions = true
				break
			}
		}
		if hasSubmissions {
			continue
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
				return err
			}
			return tx.Delete(quiz).Error
		})
		if err != nil {
			log.Printf("Error removing stale quiz %s: %v", quiz.ID, err)
			continue
		}
		removed++
	}

	if removed > 0 {
		log.Printf("✅ Removed %d stale generated quizzes", removed)
	}
}
