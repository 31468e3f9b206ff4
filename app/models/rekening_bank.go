package models

import (
	"time"

	"gorm.io/gorm"
)

type RekeningBank struct {
	ID            string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID        string    `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	User          *User     `json:"user,omitempty" validate:"-"`
	NamaBank      string    `gorm:"size:100;not null" json:"namaBank" validate:"required"`
	NomorRekening string    `gorm:"size:50;not null" json:"nomorRekening" validate:"required,numeric"`
	NamaPenerima  string    `gorm:"size:255;not null" json:"namaPenerima" validate:"required"`
	IsDeleted     bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (RekeningBank) TableName() string {
	return "rekening_bank"
}

func (r *RekeningBank) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return Validate(r)
}

func (r *RekeningBank) FindByID(db *gorm.DB, id string) (*RekeningBank, error) {
	var rekening RekeningBank

	err := db.Model(&RekeningBank{}).Where("id = ? AND is_deleted = ?", id, false).First(&rekening).Error
	if err != nil {
		return nil, err
	}

	return &rekening, nil
}
