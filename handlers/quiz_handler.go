package handlers

import (
	"errors"
	"time"

	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/socialsoftware/quiz_tutor/services"
	"github.com/socialsoftware/quiz_tutor/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizQuestionRef struct {
	QuestionID string `json:"question_id" validate:"required,uuid4"`
	Sequence   int    `json:"sequence" validate:"required"`
}

type QuizRequest struct {
	Number        int               `json:"number"`
	Title         string            `json:"title"`
	Date          time.Time         `json:"date"`
	AvailableDate *time.Time        `json:"available_date"`
	Year          int               `json:"year"`
	Type          string            `json:"type" validate:"required,oneof=EXAM TEST STUDENT TEACHER"`
	Series        int               `json:"series"`
	Version       string            `json:"version"`
	Questions     []QuizQuestionRef `json:"questions" validate:"dive"`
}

// quizErrorResponse translates the quiz domain errors into API failures.
func quizErrorResponse(c *fiber.Ctx, err error) error {
	var notConsistent *models.NotConsistentError
	if errors.As(err, &notConsistent) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": notConsistent.Error(), "field": notConsistent.Field})
	}

	var notEnough *models.NotEnoughQuestionsError
	if errors.As(err, &notEnough) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": notEnough.Error()})
	}

	var hasAnswers *models.HasAnswersError
	if errors.As(err, &hasAnswers) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": hasAnswers.Error(), "answers": hasAnswers.Count})
	}

	var answered *models.QuestionAnsweredError
	if errors.As(err, &answered) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": answered.Error()})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func CreateQuiz(c *fiber.Ctx) error {
	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var req QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	details := models.QuizDetails{
		Number:        req.Number,
		Title:         req.Title,
		Date:          req.Date,
		AvailableDate: req.AvailableDate,
		Year:          req.Year,
		Type:          req.Type,
		Series:        req.Series,
		Version:       req.Version,
	}

	questionIDs := make([]uuid.UUID, len(req.Questions))
	for i, ref := range req.Questions {
		questionID, err := uuid.Parse(ref.QuestionID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid question ID"})
		}
		questionIDs[i] = questionID
		details.Questions = append(details.Questions, models.QuizQuestionDetails{
			QuestionID: questionID,
			Sequence:   ref.Sequence,
		})
	}

	if len(questionIDs) > 0 {
		var count int64
		database.DB.Model(&models.Question{}).
			Where("id IN ? AND course_id = ?", questionIDs, execution.CourseID).
			Count(&count)
		if int(count) != len(questionIDs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "One or more question IDs do not belong to this course"})
		}
	}

	quiz, err := models.NewQuiz(details)
	if err != nil {
		return quizErrorResponse(c, err)
	}
	quiz.CourseExecutionID = execution.ID

	if err := database.DB.Create(quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create quiz"})
	}

	if quiz.IsAvailable(time.Now()) {
		websocket.NotifyQuizAvailable(quiz.ID, execution.ID, quiz.Title)
	}

	return c.Status(fiber.StatusCreated).JSON(quiz)
}

func ListQuizzes(c *fiber.Ctx) error {
	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var quizzes []models.Quiz
	database.DB.Where("course_execution_id = ?", execution.ID).Order("number").Find(&quizzes)
	return c.JSON(quizzes)
}

func GetQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	var quiz models.Quiz
	err := database.DB.
		Preload("QuizQuestions", func(db *gorm.DB) *gorm.DB { return db.Order("quiz_questions.sequence") }).
		Preload("QuizQuestions.Question.Options").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	// students never see the correct-option flags
	if !currentUserIsTeacher(c) {
		if !quiz.IsAvailable(time.Now()) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Quiz is not available yet"})
		}
		return c.JSON(quizForStudent(&quiz))
	}

	return c.JSON(quiz)
}

type QuizUpdateRequest struct {
	Title         *string    `json:"title"`
	AvailableDate *time.Time `json:"available_date"`
}

// UpdateQuiz mutates title and available date through the validating setters,
// so the construction invariants are re-checked on every write.
func UpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	var req QuizUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	wasAvailable := quiz.IsAvailable(time.Now())

	if req.Title != nil {
		if err := quiz.SetTitle(*req.Title); err != nil {
			return quizErrorResponse(c, err)
		}
	}
	if req.AvailableDate != nil {
		if err := quiz.SetAvailableDate(req.AvailableDate); err != nil {
			return quizErrorResponse(c, err)
		}
	}

	if err := database.DB.Save(&quiz).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update quiz"})
	}

	if !wasAvailable && quiz.IsAvailable(time.Now()) {
		websocket.NotifyQuizAvailable(quiz.ID, quiz.CourseExecutionID, quiz.Title)
	}

	return c.JSON(quiz)
}

// DeleteQuiz runs the removal guard, detaches the question associations and
// deletes the quiz. Quizzes with recorded answers are refused.
func DeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	var quiz models.Quiz
	err := database.DB.
		Preload("QuizAnswers").
		Preload("QuizQuestions.QuestionAnswers").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	if err := quiz.CheckCanRemove(); err != nil {
		return quizErrorResponse(c, err)
	}

	quiz.Remove()

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete quiz"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

type GenerateQuizRequest struct {
	Size int `json:"size" validate:"required,gt=0"`
}

// GenerateQuiz builds a personal STUDENT quiz from the execution's active
// question pool and opens an in-progress attempt for the caller.
func GenerateQuiz(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user"})
	}

	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var req GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	quiz, quizAnswer, err := services.GenerateStudentQuiz(studentID, execution, req.Size)
	if err != nil {
		return quizErrorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"quiz_answer_id": quizAnswer.ID,
		"quiz":           quizForStudent(quiz),
	})
}

// ListAvailableQuizzes returns the authored quizzes a student can currently
// take in an execution. Generated STUDENT quizzes are personal and excluded.
func ListAvailableQuizzes(c *fiber.Ctx) error {
	execution, err := executionCourse(c)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Course execution not found"})
	}

	var quizzes []models.Quiz
	database.DB.
		Where("course_execution_id = ? AND type <> ? AND available_date IS NOT NULL AND available_date <= ?",
			execution.ID, models.QuizTypeStudent, time.Now()).
		Order("available_date").
		Find(&quizzes)
	return c.JSON(quizzes)
}

type QuestionForStudent struct {
	QuizQuestionID uuid.UUID          `json:"quiz_question_id"`
	Sequence       int                `json:"sequence"`
	Title          string             `json:"title"`
	Content        string             `json:"content"`
	ImageURL       *string            `json:"image_url"`
	Options        []OptionForStudent `json:"options"`
}

type OptionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Sequence int       `json:"sequence"`
	Content  string    `json:"content"`
}

// quizForStudent strips the correct-option flags before a quiz reaches a
// student.
func quizForStudent(quiz *models.Quiz) fiber.Map {
	questions := make([]QuestionForStudent, len(quiz.QuizQuestions))
	for i, quizQuestion := range quiz.QuizQuestions {
		question := QuestionForStudent{
			QuizQuestionID: quizQuestion.ID,
			Sequence:       quizQuestion.Sequence,
			Title:          quizQuestion.Question.Title,
			Content:        quizQuestion.Question.Content,
			ImageURL:       quizQuestion.Question.ImageURL,
		}
		for _, option := range quizQuestion.Question.Options {
			question.Options = append(question.Options, OptionForStudent{
				ID:       option.ID,
				Sequence: option.Sequence,
				Content:  option.Content,
			})
		}
		questions[i] = question
	}

	return fiber.Map{
		"id":             quiz.ID,
		"title":          quiz.Title,
		"type":           quiz.Type,
		"available_date": quiz.AvailableDate,
		"questions":      questions,
	}
}

// ExportQuiz renders the quiz to a PDF and returns the uploaded document URL.
func ExportQuiz(c *fiber.Ctx) error {
	quizID := c.Params("quizId")
	var quiz models.Quiz
	err := database.DB.
		Preload("CourseExecution.Course").
		Preload("QuizQuestions", func(db *gorm.DB) *gorm.DB { return db.Order("quiz_questions.sequence") }).
		Preload("QuizQuestions.Question.Options").
		First(&quiz, "id = ?", quizID).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Quiz not found"})
	}

	url, err := services.ExportQuizPDF(&quiz)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export quiz"})
	}

	return c.JSON(fiber.Map{"url": url})
}
