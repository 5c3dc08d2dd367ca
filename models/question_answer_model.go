package models

import "github.com/google/uuid"

// QuestionAnswer records the option a student picked for one quiz question.
// OptionID is nil while the question is unanswered.
type QuestionAnswer struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuizAnswerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_answer_id"`
	QuizQuestionID uuid.UUID  `gorm:"type:uuid;not null;index" json:"quiz_question_id"`
	OptionID       *uuid.UUID `gorm:"type:uuid" json:"option_id"`
	TimeTakenMs    int        `gorm:"default:0" json:"time_taken_ms"`

	QuizAnswer   *QuizAnswer  `gorm:"foreignkey:QuizAnswerID" json:"-"`
	QuizQuestion QuizQuestion `gorm:"foreignkey:QuizQuestionID" json:"-"`
	Option       *Option      `gorm:"foreignkey:OptionID" json:"-"`
}
