package utils

import (
	"crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"time"

	"github.com/socialsoftware/quiz_tutor/models"
	"gorm.io/gorm"
)

const demoSuffixLength = 6
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateConfirmationToken returns the token mailed to external users so they
// can activate their account.
func GenerateConfirmationToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// GenerateUniqueDemoUsername picks a demo-student username not yet present in
// the users table.
func GenerateUniqueDemoUsername(tx *gorm.DB) (string, error) {
	seededRand := mrand.New(mrand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, demoSuffixLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		username := "demo-student-" + string(b)

		var user models.User
		err := tx.Where("username = ?", username).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return username, nil
			}
			return "", err
		}
	}
}
