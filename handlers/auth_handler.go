package handlers

import (
	"time"

	config "github.com/socialsoftware/quiz_tutor/configs"
	"github.com/socialsoftware/quiz_tutor/database"
	"github.com/socialsoftware/quiz_tutor/models"
	"github.com/socialsoftware/quiz_tutor/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Name:     user.Name,
		Username: user.Username,
		Role:     user.Role,
	}
}

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func authResponse(c *fiber.Ctx, user *models.User) error {
	token, err := generateToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}
	return c.JSON(fiber.Map{"token": token, "user": userResponse(user)})
}

// currentUserID pulls the authenticated user's id out of the JWT the Protected
// middleware already verified.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	return uuid.Parse(claims["user_id"].(string))
}

func currentUserIsTeacher(c *fiber.Ctx) bool {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	role, _ := claims["role"].(string)
	return role == models.RoleTeacher || role == models.RoleDemoTeacher || role == models.RoleAdmin || role == models.RoleDemoAdmin
}

type ExternalLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ExternalLogin authenticates users created by an administrator, i.e. users
// that do not come from the university identity provider.
func ExternalLogin(c *fiber.Ctx) error {
	var req ExternalLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	if !user.IsActive() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Account not confirmed yet"})
	}

	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	now := time.Now()
	user.LastAccess = &now
	database.DB.Save(&user)

	return authResponse(c, &user)
}

type ConfirmRegistrationRequest struct {
	Username          string `json:"username" validate:"required"`
	ConfirmationToken string `json:"confirmation_token" validate:"required"`
	Password          string `json:"password" validate:"required,min=6"`
}

// ConfirmRegistration activates an externally created account: the user proves
// possession of the emailed token and picks a password.
func ConfirmRegistration(c *fiber.Ctx) error {
	var req ConfirmRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	if user.IsActive() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Account already confirmed"})
	}

	if user.ConfirmationToken == nil || *user.ConfirmationToken != req.ConfirmationToken {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid confirmation token"})
	}

	if user.ConfirmationTokenExpiresAt == nil || time.Now().After(*user.ConfirmationTokenExpiresAt) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Confirmation token expired"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user.Password = string(hashedPassword)
	user.State = models.UserStateActive
	user.ConfirmationToken = nil
	user.ConfirmationTokenExpiresAt = nil

	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to confirm account"})
	}

	return authResponse(c, &user)
}

// DemoStudentAuth creates a throwaway student account enrolled in the demo
// course execution, so anyone can try the app without credentials.
func DemoStudentAuth(c *fiber.Ctx) error {
	var user models.User

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		username, err := utils.GenerateUniqueDemoUsername(tx)
		if err != nil {
			return err
		}

		user = models.User{
			Name:     "Demo Student",
			Username: username,
			Role:     models.RoleDemoStudent,
			State:    models.UserStateActive,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		var demoExecution models.CourseExecution
		if err := tx.Where("acronym = ?", "DemoCourse").First(&demoExecution).Error; err == nil {
			if err := tx.Model(&user).Association("CourseExecutions").Append(&demoExecution); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create demo student"})
	}

	return authResponse(c, &user)
}

func DemoTeacherAuth(c *fiber.Ctx) error {
	return demoAuth(c, "demo-teacher")
}

func DemoAdminAuth(c *fiber.Ctx) error {
	return demoAuth(c, "demo-admin")
}

func demoAuth(c *fiber.Ctx, username string) error {
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Demo user not seeded"})
	}

	now := time.Now()
	user.LastAccess = &now
	database.DB.Save(&user)

	return authResponse(c, &user)
}
