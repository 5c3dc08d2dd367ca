package models

import "github.com/google/uuid"

type Option struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Sequence   int       `gorm:"not null" json:"sequence"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Correct    bool      `gorm:"not null;default:false" json:"correct"`
}
