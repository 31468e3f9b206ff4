package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JenisBudidaya master jenis ternak / tanaman yang dibudidayakan.
type JenisBudidaya struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Nama      string    `gorm:"size:255;not null" json:"nama" validate:"required"`
	Latin     string    `gorm:"size:255" json:"latin"`
	Tipe      string    `gorm:"size:20;not null;index" json:"tipe" validate:"required,oneof=hewan tumbuhan"`
	Gambar    string    `gorm:"size:255" json:"gambar"`
	Detail    string    `gorm:"type:text" json:"detail"`
	Status    bool      `gorm:"default:true" json:"status"`
	IsDeleted bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (JenisBudidaya) TableName() string {
	return "jenis_budidaya"
}

func (j *JenisBudidaya) BeforeCreate(tx *gorm.DB) error {
	ensureID(&j.ID)
	return Validate(j)
}

// UnitBudidaya satu kandang / kebun / lahan untuk satu jenis budidaya.
type UnitBudidaya struct {
	ID              string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	JenisBudidayaID string          `gorm:"size:36;not null;index" json:"jenisBudidayaId" validate:"required"`
	JenisBudidaya   *JenisBudidaya  `json:"jenisBudidaya,omitempty" validate:"-"`
	Nama            string          `gorm:"size:255;not null" json:"nama" validate:"required"`
	Lokasi          string          `gorm:"size:255" json:"lokasi"`
	Tipe            string          `gorm:"size:20;not null" json:"tipe" validate:"required,oneof=individu kolektif"`
	Luas            decimal.Decimal `gorm:"type:decimal(10,2)" json:"luas"`
	Jumlah          int             `json:"jumlah" validate:"gte=0"`
	Gambar          string          `gorm:"size:255" json:"gambar"`
	Deskripsi       string          `gorm:"type:text" json:"deskripsi"`
	Status          bool            `gorm:"default:true" json:"status"`
	IsDeleted       bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (UnitBudidaya) TableName() string {
	return "unit_budidaya"
}

func (u *UnitBudidaya) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	return Validate(u)
}

// Laporan laporan lapangan yang ditulis petugas untuk satu unit budidaya.
type Laporan struct {
	ID             string        `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UnitBudidayaID string        `gorm:"size:36;not null;index" json:"unitBudidayaId" validate:"required"`
	UnitBudidaya   *UnitBudidaya `json:"unitBudidaya,omitempty" validate:"-"`
	UserID         string        `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	Tipe           string        `gorm:"size:20;not null;index" json:"tipe" validate:"required,oneof=harian sakit kematian vitamin panen"`
	Judul          string        `gorm:"size:255;not null" json:"judul" validate:"required"`
	Gambar         string        `gorm:"size:255" json:"gambar"`
	Catatan        string        `gorm:"type:text" json:"catatan"`
	Jumlah         int           `json:"jumlah" validate:"gte=0"`
	IsDeleted      bool          `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

func (Laporan) TableName() string {
	return "laporan"
}

func (l *Laporan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return Validate(l)
}
