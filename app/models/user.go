package models

import (
	"strings"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"gorm.io/gorm"
)

type User struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name" validate:"required"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email" validate:"required,email"`
	Password  string    `gorm:"size:255;not null" json:"password,omitempty" validate:"required"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Role      string    `gorm:"size:20;not null;index" json:"role" validate:"required,oneof=pjawab petugas inventor penjual pembeli"`
	AvatarURL string    `gorm:"size:255" json:"avatarUrl"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return Validate(u)
}

// Sanitize mengosongkan hash password sebelum user dikirim sebagai JSON.
func (u *User) Sanitize() *User {
	u.Password = ""
	return u
}

func (u *User) FindByID(db *gorm.DB, userID string) (*User, error) {
	var user User

	err := db.Model(User{}).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *User) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var user User

	email = strings.ToLower(strings.TrimSpace(email))
	err := db.Model(User{}).Where("LOWER(email) = ? AND is_deleted = ?", email, false).First(&user).Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (u *User) CreateUser(db *gorm.DB, params *User) (*User, error) {
	user := &User{
		ID:        params.ID,
		Name:      params.Name,
		Email:     params.Email,
		Password:  params.Password,
		Phone:     params.Phone,
		Role:      params.Role,
		AvatarURL: params.AvatarURL,
		IsActive:  true,
	}

	if err := db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == consts.RolePenanggungJawab
}
