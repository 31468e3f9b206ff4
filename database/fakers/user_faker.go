package fakers

import (
	"strings"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// password semua user contoh
const DefaultPassword = "password"

func hashPassword() string {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	return string(hashed)
}

func UserFaker(db *gorm.DB, role string) *models.User {
	id := uuid.New().String()

	return &models.User{
		ID:       id,
		Name:     faker.Name(),
		Email:    strings.ToLower(role + "." + id[:8] + "@" + faker.DomainName()),
		Password: hashPassword(),
		Phone:    faker.Phonenumber(),
		Role:     role,
		IsActive: true,
	}
}
