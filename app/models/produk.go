package models

import (
	"time"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Produk struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	TokoID    string          `gorm:"size:36;not null;index" json:"tokoId" validate:"required"`
	Toko      *Toko           `json:"toko,omitempty" validate:"-"`
	Nama      string          `gorm:"size:255;not null" json:"nama" validate:"required"`
	Slug      string          `gorm:"size:255;index" json:"slug"`
	Deskripsi string          `gorm:"type:text" json:"deskripsi"`
	Harga     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"harga" validate:"gt=0"`
	Stok      int             `gorm:"not null;default:0" json:"stok" validate:"gte=0"`
	SatuanID  string          `gorm:"size:36;index" json:"satuanId"`
	Satuan    *Satuan         `json:"satuan,omitempty" validate:"-"`
	Avatar    string          `gorm:"size:255" json:"avatar"`
	IsDeleted bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (Produk) TableName() string {
	return "produk"
}

func (p *Produk) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Slug == "" {
		p.Slug = slug.Make(p.Nama)
	}

	return Validate(p)
}

func (p *Produk) GetProduk(db *gorm.DB, perPage int, page int) (*[]Produk, int64, error) {
	var err error
	var produk []Produk
	var count int64

	q := db.Model(&Produk{}).Where("is_deleted = ?", false).Session(&gorm.Session{})

	err = q.Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage

	err = q.Order("created_at desc").Limit(perPage).Offset(offset).Find(&produk).Error
	if err != nil {
		return nil, 0, err
	}

	return &produk, count, nil
}

func (p *Produk) FindBySlug(db *gorm.DB, slugStr string) (*Produk, error) {
	var produk Produk

	err := db.Preload("Toko").Model(&Produk{}).Where("slug = ? AND is_deleted = ?", slugStr, false).First(&produk).Error
	if err != nil {
		return nil, err
	}

	return &produk, nil
}

func (p *Produk) FindByID(db *gorm.DB, produkID string) (*Produk, error) {
	var produk Produk

	err := db.Model(&Produk{}).Where("id = ? AND is_deleted = ?", produkID, false).First(&produk).Error
	if err != nil {
		return nil, err
	}

	return &produk, nil
}
