package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	CourseTypeTecnico  = "TECNICO"
	CourseTypeExternal = "EXTERNAL"
)

const (
	ExecutionStatusActive   = "ACTIVE"
	ExecutionStatusInactive = "INACTIVE"
)

type Course struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"size:255;not null" json:"name"`
	Type string    `gorm:"size:20;not null;default:'TECNICO'" json:"type"`

	Executions []CourseExecution `gorm:"foreignkey:CourseID" json:"executions,omitempty"`
	Questions  []Question        `gorm:"foreignkey:CourseID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseExecution is one run of a course in a specific academic term, e.g.
// acronym "ASof" in term "2019/2020".
type CourseExecution struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null" json:"course_id"`
	Acronym      string    `gorm:"size:50;not null;index:idx_execution_term,unique" json:"acronym"`
	AcademicTerm string    `gorm:"size:50;not null;index:idx_execution_term,unique" json:"academic_term"`
	Status       string    `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	Course  Course  `gorm:"foreignkey:CourseID" json:"course"`
	Users   []*User `gorm:"many2many:user_course_executions;" json:"-"`
	Quizzes []Quiz  `gorm:"foreignkey:CourseExecutionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ce *CourseExecution) IsActive() bool {
	return ce.Status == ExecutionStatusActive
}
