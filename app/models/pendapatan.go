package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pendapatan satu baris per pesanan yang selesai, sumber kredit saldo penjual.
type Pendapatan struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	PesananID string          `gorm:"size:36;not null;uniqueIndex" json:"pesananId" validate:"required"`
	Pesanan   *Pesanan        `json:"pesanan,omitempty" validate:"-"`
	TokoID    string          `gorm:"size:36;not null;index" json:"tokoId" validate:"required"`
	Harga     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"harga" validate:"gt=0"`
	IsDeleted bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Pendapatan) TableName() string {
	return "pendapatan"
}

func (p *Pendapatan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return Validate(p)
}
