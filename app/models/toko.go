package models

import (
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Toko struct {
	ID         string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID     string    `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	User       *User     `json:"user,omitempty" validate:"-"`
	Nama       string    `gorm:"size:255;not null" json:"nama" validate:"required"`
	Slug       string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Phone      string    `gorm:"size:20" json:"phone"`
	Alamat     string    `gorm:"type:text" json:"alamat"`
	LogoToko   string    `gorm:"size:255" json:"logoToko"`
	Deskripsi  string    `gorm:"type:text" json:"deskripsi"`
	TokoStatus string    `gorm:"size:20;not null;default:request;index" json:"tokoStatus" validate:"omitempty,oneof=request pending active delete"`
	IsDeleted  bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Toko) TableName() string {
	return "toko"
}

func (t *Toko) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.Slug == "" {
		t.Slug = slug.Make(t.Nama + " " + t.ID[:8])
	}
	if t.TokoStatus == "" {
		t.TokoStatus = consts.TokoRequest
	}

	return Validate(t)
}

func (t *Toko) FindBySlug(db *gorm.DB, slugStr string) (*Toko, error) {
	var toko Toko

	err := db.Model(&Toko{}).Where("slug = ? AND is_deleted = ?", slugStr, false).First(&toko).Error
	if err != nil {
		return nil, err
	}

	return &toko, nil
}
