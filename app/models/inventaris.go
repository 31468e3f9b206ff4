package models

import (
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type KategoriInventaris struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Nama      string    `gorm:"size:100;not null" json:"nama" validate:"required"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (KategoriInventaris) TableName() string {
	return "kategori_inventaris"
}

func (k *KategoriInventaris) BeforeCreate(tx *gorm.DB) error {
	ensureID(&k.ID)
	return Validate(k)
}

type Satuan struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Nama      string    `gorm:"size:50;not null" json:"nama" validate:"required"`
	Lambang   string    `gorm:"size:10;not null" json:"lambang" validate:"required"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Satuan) TableName() string {
	return "satuan"
}

func (s *Satuan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return Validate(s)
}

type Inventaris struct {
	ID                   string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	KategoriInventarisID string              `gorm:"size:36;not null;index" json:"kategoriInventarisId" validate:"required"`
	KategoriInventaris   *KategoriInventaris `json:"kategoriInventaris,omitempty" validate:"-"`
	SatuanID             string              `gorm:"size:36;index" json:"satuanId"`
	Satuan               *Satuan             `json:"satuan,omitempty" validate:"-"`
	Nama                 string              `gorm:"size:255;not null" json:"nama" validate:"required"`
	Jumlah               decimal.Decimal     `gorm:"type:decimal(16,2);not null" json:"jumlah" validate:"gte=0"`
	StokMinim            decimal.Decimal     `gorm:"type:decimal(16,2)" json:"stokMinim" validate:"gte=0"`
	Ketersediaan         string              `gorm:"size:20;not null;default:tersedia" json:"ketersediaan" validate:"omitempty,oneof=tersedia 'tidak tersedia' kadaluwarsa"`
	Kondisi              string              `gorm:"size:50" json:"kondisi"`
	TanggalKadaluwarsa   *time.Time          `json:"tanggalKadaluwarsa"`
	Gambar               string              `gorm:"size:255" json:"gambar"`
	Detail               string              `gorm:"type:text" json:"detail"`
	IsDeleted            bool                `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func (Inventaris) TableName() string {
	return "inventaris"
}

func (i *Inventaris) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	if i.Ketersediaan == "" {
		i.Ketersediaan = consts.InventarisTersedia
	}

	return Validate(i)
}

// HampirHabis true kalau stok sudah di bawah atau sama dengan stok minimum.
func (i Inventaris) HampirHabis() bool {
	return !i.StokMinim.IsZero() && i.Jumlah.LessThanOrEqual(i.StokMinim)
}

// PenggunaanInventaris catatan pemakaian stok, opsional terkait laporan lapangan.
type PenggunaanInventaris struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	InventarisID string          `gorm:"size:36;not null;index" json:"inventarisId" validate:"required"`
	Inventaris   *Inventaris     `json:"inventaris,omitempty" validate:"-"`
	LaporanID    *string         `gorm:"size:36;index" json:"laporanId"`
	UserID       string          `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	Jumlah       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"jumlah" validate:"gt=0"`
	IsDeleted    bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (PenggunaanInventaris) TableName() string {
	return "penggunaan_inventaris"
}

func (p *PenggunaanInventaris) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return Validate(p)
}
