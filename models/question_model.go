package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	QuestionStatusDisabled = "DISABLED"
	QuestionStatusActive   = "ACTIVE"
	QuestionStatusRemoved  = "REMOVED"
)

type Question struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Status   string    `gorm:"size:20;not null;default:'DISABLED'" json:"status"`
	ImageURL *string   `gorm:"size:255" json:"image_url"`

	Course  Course   `gorm:"foreignkey:CourseID" json:"-"`
	Options []Option `gorm:"foreignkey:QuestionID" json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) IsActive() bool {
	return q.Status == QuestionStatusActive
}
