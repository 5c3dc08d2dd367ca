package handlers

import (
	"strings"
	"time"

	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/fenix"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FenixAuthURL tells the frontend where to send the user for the OAuth dance.
func FenixAuthURL(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"url": fenix.NewClient().AuthorizeURL()})
}

type FenixAuthRequest struct {
	Code string `json:"code" validate:"required"`
}

// FenixAuth signs a user in through the university identity provider. Users
// attending an active course execution are created as students on first login,
// users teaching one as teachers; everyone else is rejected as not enrolled.
func FenixAuth(c *fiber.Ctx) error {
	var req FenixAuthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	client := fenix.NewClient()

	accessToken, err := client.AccessTokenFromCode(req.Code)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Wrong user Fenix code"})
	}

	person, err := client.GetPerson(accessToken)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch user from Fenix"})
	}

	attending, teaching, err := client.GetPersonCourses(accessToken)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to fetch courses from Fenix"})
	}

	activeAttending := activeTecnicoExecutions(attending)
	activeTeaching := activeTecnicoExecutions(teaching)

	var user models.User
	err = database.DB.Preload("CourseExecutions").Where("username = ?", person.Username).First(&user).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to look up user"})
		}

		switch {
		case len(activeAttending) > 0:
			user = models.User{Name: person.Name, Username: person.Username, Role: models.RoleStudent, State: models.UserStateActive}
		case len(teaching) > 0:
			user = models.User{Name: person.Name, Username: person.Username, Role: models.RoleTeacher, State: models.UserStateActive}
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User " + person.Username + " is not enrolled"})
		}

		if person.Email != "" {
			email := person.Email
			user.Email = &email
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
		}
	}

	now := time.Now()
	user.LastAccess = &now

	var executionsToSync []*models.CourseExecution
	if user.IsStudent() {
		executionsToSync = activeAttending
	} else {
		executionsToSync = activeTeaching
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, execution := range executionsToSync {
			if user.HasCourseExecution(execution.ID) {
				continue
			}
			if err := tx.Model(&user).Association("CourseExecutions").Append(execution); err != nil {
				return err
			}
		}

		if user.IsTeacher() && len(teaching) > 0 {
			acronyms := make([]string, len(teaching))
			for i, course := range teaching {
				acronyms[i] = course.Acronym + course.AcademicTerm
			}
			joined := strings.Join(acronyms, ",")
			user.EnrolledCoursesAcronyms = &joined
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user enrollments"})
	}

	return authResponse(c, &user)
}

// activeTecnicoExecutions maps provider courses onto the active TECNICO course
// executions already registered in the database; unknown courses are skipped.
func activeTecnicoExecutions(courses []fenix.Course) []*models.CourseExecution {
	var executions []*models.CourseExecution
	for _, course := range courses {
		var execution models.CourseExecution
		err := database.DB.
			Joins("JOIN courses ON courses.id = course_executions.course_id").
			Where("course_executions.acronym = ? AND course_executions.academic_term = ? AND courses.type = ? AND course_executions.status = ?",
				course.Acronym, course.AcademicTerm, models.CourseTypeTecnico, models.ExecutionStatusActive).
			First(&execution).Error
		if err != nil {
			continue
		}
		executions = append(executions, &execution)
	}
	return executions
}
