package models

import (
	"time"

	"gorm.io/gorm"
)

// Log jejak audit perubahan data, ditulis di dalam transaksi pemanggil.
type Log struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID      *string   `gorm:"size:36;index" json:"userId"`
	Tabel       string    `gorm:"size:50;not null;index" json:"tabel" validate:"required"`
	Aksi        string    `gorm:"size:20;not null" json:"aksi" validate:"required"`
	ReferensiID string    `gorm:"size:36;index" json:"referensiId"`
	Keterangan  string    `gorm:"type:text" json:"keterangan"`
	IsDeleted   bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Log) TableName() string {
	return "logs"
}

func (l *Log) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return Validate(l)
}

// CreateLog menulis satu baris audit. Pakai tx milik operasi supaya ikut rollback.
func CreateLog(tx *gorm.DB, userID string, tabel string, aksi string, referensiID string, keterangan string) error {
	entry := &Log{
		Tabel:       tabel,
		Aksi:        aksi,
		ReferensiID: referensiID,
		Keterangan:  keterangan,
	}
	if userID != "" {
		entry.UserID = &userID
	}

	return tx.Create(entry).Error
}
