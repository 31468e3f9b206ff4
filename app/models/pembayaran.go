package models

import (
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Pembayaran struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	PesananID    string          `gorm:"size:36;not null;index" json:"pesananId" validate:"required"`
	Pesanan      *Pesanan        `json:"pesanan,omitempty" validate:"-"`
	Jumlah       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"jumlah" validate:"gt=0"`
	Metode       string          `gorm:"size:50;not null" json:"metode" validate:"required"`
	Status       string          `gorm:"size:20;not null;index" json:"status" validate:"required,oneof=pending berhasil gagal"`
	Referensi    string          `gorm:"size:100" json:"referensi"`
	TanggalBayar *time.Time      `json:"tanggalBayar"`
	IsDeleted    bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (Pembayaran) TableName() string {
	return "pembayaran"
}

func (p *Pembayaran) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = consts.PembayaranPending
	}

	return Validate(p)
}

// FindBerhasil mengembalikan pembayaran sukses milik pesanan, nil kalau belum ada.
func (p *Pembayaran) FindBerhasil(db *gorm.DB, pesananID string) (*Pembayaran, error) {
	var pembayaran []Pembayaran

	err := db.Model(&Pembayaran{}).
		Where("pesanan_id = ? AND status = ? AND is_deleted = ?", pesananID, consts.PembayaranBerhasil, false).
		Limit(1).
		Find(&pembayaran).Error
	if err != nil {
		return nil, err
	}
	if len(pembayaran) == 0 {
		return nil, nil
	}

	return &pembayaran[0], nil
}
