package models

import (
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	QuizTypeExam    = "EXAM"
	QuizTypeTest    = "TEST"
	QuizTypeStudent = "STUDENT"
	QuizTypeTeacher = "TEACHER"
)

type Quiz struct {
	ID                uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Number            int        `gorm:"index" json:"number"`
	Title             string     `gorm:"size:255;not null" json:"title"`
	Date              time.Time  `gorm:"column:generation_date" json:"date"`
	AvailableDate     *time.Time `gorm:"column:available_date" json:"available_date"`
	Year              int        `json:"year"`
	Type              string     `gorm:"size:20;not null" json:"type"`
	Series            int        `json:"series"`
	Version           string     `gorm:"size:50" json:"version"`
	CourseExecutionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_execution_id"`

	CourseExecution CourseExecution `gorm:"foreignkey:CourseExecutionID" json:"-"`
	QuizQuestions   []*QuizQuestion `gorm:"foreignkey:QuizID" json:"quiz_questions,omitempty"`
	QuizAnswers     []*QuizAnswer   `gorm:"foreignkey:QuizID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuizQuestionDetails is one entry of the ordered question list a quiz is
// authored from. Sequence is 1-based and must match the entry's position.
type QuizQuestionDetails struct {
	QuestionID uuid.UUID
	Sequence   int
}

type QuizDetails struct {
	Number        int
	Title         string
	Date          time.Time
	AvailableDate *time.Time
	Year          int
	Type          string
	Series        int
	Version       string
	Questions     []QuizQuestionDetails
}

// NewQuiz builds a quiz from authoring details, enforcing the consistency
// rules: non-blank title, sequence numbers exactly 1..N in list order, and an
// available date for TEACHER quizzes. STUDENT quizzes are available from their
// generation date regardless of what the caller supplied.
func NewQuiz(details QuizDetails) (*Quiz, error) {
	if err := checkQuestionSequence(details.Questions); err != nil {
		return nil, err
	}

	quiz := &Quiz{
		Number:  details.Number,
		Date:    details.Date,
		Type:    details.Type,
		Year:    details.Year,
		Series:  details.Series,
		Version: details.Version,
	}

	if err := quiz.SetTitle(details.Title); err != nil {
		return nil, err
	}

	if details.Type == QuizTypeStudent {
		date := details.Date
		quiz.AvailableDate = &date
	} else if err := quiz.SetAvailableDate(details.AvailableDate); err != nil {
		return nil, err
	}

	for i, question := range details.Questions {
		quiz.QuizQuestions = append(quiz.QuizQuestions, &QuizQuestion{
			QuestionID: question.QuestionID,
			Sequence:   i + 1,
		})
	}

	return quiz, nil
}

func checkQuestionSequence(questions []QuizQuestionDetails) error {
	for i, question := range questions {
		if question.Sequence != i+1 {
			return &NotConsistentError{Field: "sequence of questions not correct"}
		}
	}
	return nil
}

// SetTitle rejects empty and all-whitespace titles. The previous title is kept
// when the check fails.
func (q *Quiz) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &NotConsistentError{Field: "Title"}
	}
	q.Title = title
	return nil
}

// SetAvailableDate re-runs the TEACHER check on every call, not only at
// construction time.
func (q *Quiz) SetAvailableDate(availableDate *time.Time) error {
	if q.Type == QuizTypeTeacher && availableDate == nil {
		return &NotConsistentError{Field: "Available date"}
	}
	q.AvailableDate = availableDate
	return nil
}

// Generate fills the quiz with a uniform random subset of the active question
// pool, without repetition. Question positions are 0-based in selection order.
// The quiz becomes a STUDENT quiz dated and available from now.
func (q *Quiz) Generate(quizSize int, activeQuestions []Question) error {
	if quizSize > len(activeQuestions) {
		return &NotEnoughQuestionsError{Available: len(activeQuestions), Requested: quizSize}
	}

	indexes := make([]int, len(activeQuestions))
	for i := range indexes {
		indexes[i] = i
	}

	// partial Fisher-Yates: after quizSize swaps the prefix is a uniform
	// quizSize-subset of the pool
	for i := 0; i < quizSize; i++ {
		j := i + rand.Intn(len(indexes)-i)
		indexes[i], indexes[j] = indexes[j], indexes[i]
	}

	for i := 0; i < quizSize; i++ {
		question := activeQuestions[indexes[i]]
		q.QuizQuestions = append(q.QuizQuestions, &QuizQuestion{
			QuizID:     q.ID,
			QuestionID: question.ID,
			Question:   question,
			Sequence:   i,
		})
	}

	now := time.Now()
	q.Date = now
	q.Type = QuizTypeStudent
	q.AvailableDate = &now
	return nil
}

// CheckCanRemove fails while any answer is recorded against the quiz, then
// delegates to each question association's own removability check.
func (q *Quiz) CheckCanRemove() error {
	if len(q.QuizAnswers) != 0 {
		return &HasAnswersError{Count: len(q.QuizAnswers)}
	}

	for _, quizQuestion := range q.QuizQuestions {
		if err := quizQuestion.CheckCanRemove(); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches every question association and clears the set. It does not
// run CheckCanRemove; callers must do that first.
func (q *Quiz) Remove() {
	for _, quizQuestion := range q.QuizQuestions {
		quizQuestion.Remove()
	}
	q.QuizQuestions = nil
}

func (q *Quiz) AddQuizQuestion(quizQuestion *QuizQuestion) {
	quizQuestion.QuizID = q.ID
	q.QuizQuestions = append(q.QuizQuestions, quizQuestion)
}

func (q *Quiz) AddQuizAnswer(quizAnswer *QuizAnswer) {
	quizAnswer.QuizID = q.ID
	q.QuizAnswers = append(q.QuizAnswers, quizAnswer)
}

// IsAvailable reports whether students can already take the quiz.
func (q *Quiz) IsAvailable(at time.Time) bool {
	return q.AvailableDate != nil && !q.AvailableDate.After(at)
}
