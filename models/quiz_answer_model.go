package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizAnswer is one student's submission against a quiz. Its mere existence
// blocks removal of the quiz.
type QuizAnswer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	AnswerDate *time.Time `json:"answer_date"`
	Completed  bool       `gorm:"not null;default:false" json:"completed"`

	Quiz            *Quiz             `gorm:"foreignkey:QuizID" json:"quiz,omitempty"`
	User            User              `gorm:"foreignkey:UserID" json:"-"`
	QuestionAnswers []*QuestionAnswer `gorm:"foreignkey:QuizAnswerID" json:"question_answers,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
