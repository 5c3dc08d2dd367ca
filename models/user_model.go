package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin       = "admin"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
	RoleDemoAdmin   = "demo-admin"
	RoleDemoTeacher = "demo-teacher"
	RoleDemoStudent = "demo-student"
)

const (
	UserStateActive   = "active"
	UserStateInactive = "inactive"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"size:255;not null" json:"name"`
	Username string    `gorm:"size:100;not null;unique" json:"username"`
	Email    *string   `gorm:"size:255" json:"email"`
	Password string    `gorm:"size:255" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'student'" json:"role"`
	State    string    `gorm:"size:20;not null;default:'active'" json:"-"`

	// Comma-joined acronym+term list of the courses a teacher runs, kept in
	// sync on every identity-provider login.
	EnrolledCoursesAcronyms *string `gorm:"type:text" json:"-"`

	ConfirmationToken          *string    `gorm:"size:255" json:"-"`
	ConfirmationTokenExpiresAt *time.Time `json:"-"`
	LastAccess                 *time.Time `json:"last_access"`

	CourseExecutions []*CourseExecution `gorm:"many2many:user_course_executions;" json:"course_executions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.State == UserStateActive
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleDemoAdmin
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher || u.Role == RoleDemoTeacher
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent || u.Role == RoleDemoStudent
}

func (u *User) HasCourseExecution(executionID uuid.UUID) bool {
	for _, execution := range u.CourseExecutions {
		if execution.ID == executionID {
			return true
		}
	}
	return false
}
