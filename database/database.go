package database

import (
	"fmt"
	"log"

	config "github.com/socialsoftware/quiz_tutor/configs"
	"github.com/socialsoftware/quiz_tutor/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	dsn := config.Config("DATABASE_URL")

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:                              false,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		DisableNestedTransaction:                 true,
	})
	if err != nil {
		log.Fatalf("🔥 Failed to connect to database: %v", err)
	}

	fmt.Println("✅ Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CourseExecution{},
		&models.Question{},
		&models.Option{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAnswer{},
		&models.QuestionAnswer{},
	)
	if err != nil {
		log.Fatalf("🔥 Failed to migrate database: %v", err)
	}
	fmt.Println("✅ Database migration successful")
}

func SeedAdmin() {
	adminUsername := config.Config("ADMIN_USERNAME")
	adminPassword := config.Config("ADMIN_PASSWORD")

	var count int64
	err := DB.Model(&models.User{}).Where("username = ?", adminUsername).Count(&count).Error
	if err != nil {
		log.Fatalf("🔥 Failed to check for admin user: %v", err)
		return
	}

	if count > 0 {
		log.Println("Admin user already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash admin password: %v", err)
		return
	}

	adminUser := models.User{
		Name:     config.Config("ADMIN_NAME"),
		Username: adminUsername,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		State:    models.UserStateActive,
	}

	if err := DB.Create(&adminUser).Error; err != nil {
		log.Fatalf("🔥 Failed to seed admin user: %v", err)
		return
	}

	log.Println("✅ Admin user seeded successfully")
}

// SeedDemoUsers creates the shared demo teacher and demo admin accounts. Demo
// students are created per login with a generated username, so they are not
// seeded here.
func SeedDemoUsers() {
	demoPassword := config.ConfigOr("DEMO_PASSWORD", "demo")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("🔥 Failed to hash demo password: %v", err)
		return
	}

	demoUsers := []models.User{
		{Name: "Demo Teacher", Username: "demo-teacher", Role: models.RoleDemoTeacher, State: models.UserStateActive, Password: string(hashedPassword)},
		{Name: "Demo Admin", Username: "demo-admin", Role: models.RoleDemoAdmin, State: models.UserStateActive, Password: string(hashedPassword)},
	}

	for _, demoUser := range demoUsers {
		var count int64
		if err := DB.Model(&models.User{}).Where("username = ?", demoUser.Username).Count(&count).Error; err != nil {
			log.Fatalf("🔥 Failed to check for demo user %s: %v", demoUser.Username, err)
			return
		}
		if count > 0 {
			continue
		}
		if err := DB.Create(&demoUser).Error; err != nil {
			log.Fatalf("🔥 Failed to seed demo user %s: %v", demoUser.Username, err)
			return
		}
		log.Printf("✅ Demo user %s seeded successfully", demoUser.Username)
	}
}
