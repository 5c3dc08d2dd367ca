package models

import "github.com/google/uuid"

// QuizQuestion binds one question to one quiz at a specific position.
// Authored quizzes number their questions from 1, generated quizzes from 0.
type QuizQuestion struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID     uuid.UUID `gorm:"type:uuid;index" json:"quiz_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	Sequence   int       `gorm:"not null" json:"sequence"`

	Quiz            *Quiz             `gorm:"foreignkey:QuizID" json:"-"`
	Question        Question          `gorm:"foreignkey:QuestionID" json:"question"`
	QuestionAnswers []*QuestionAnswer `gorm:"foreignkey:QuizQuestionID" json:"-"`
}

// CheckCanRemove refuses removal once the question has been individually
// answered within its quiz.
func (qq *QuizQuestion) CheckCanRemove() error {
	if len(qq.QuestionAnswers) != 0 {
		return &QuestionAnsweredError{Count: len(qq.QuestionAnswers)}
	}
	return nil
}

// Remove severs the back-reference to the owning quiz.
func (qq *QuizQuestion) Remove() {
	qq.Quiz = nil
	qq.QuizID = uuid.Nil
}
