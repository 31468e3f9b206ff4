package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Pesanan struct {
	ID         string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Kode       string          `gorm:"size:50;uniqueIndex" json:"kode"`
	UserID     string          `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	User       *User           `json:"user,omitempty" validate:"-"`
	TokoID     string          `gorm:"size:36;not null;index" json:"tokoId" validate:"required"`
	Toko       *Toko           `json:"toko,omitempty" validate:"-"`
	Items      []PesananItem   `json:"items,omitempty" validate:"-"`
	Status     string          `gorm:"size:20;not null;index" json:"status" validate:"required,oneof=menunggu diterima selesai ditolak expired"`
	Catatan    string          `gorm:"type:text" json:"catatan"`
	TotalHarga decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"totalHarga"`
	IsDeleted  bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (Pesanan) TableName() string {
	return "pesanan"
}

func (p *Pesanan) BeforeCreate(db *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = consts.PesananMenunggu
	}
	if p.Kode == "" {
		p.Kode = generateKodePesanan(db)
	}

	return Validate(p)
}

var transisiPesanan = map[string][]string{
	consts.PesananMenunggu: {consts.PesananDiterima, consts.PesananDitolak, consts.PesananExpired},
	consts.PesananDiterima: {consts.PesananSelesai, consts.PesananDitolak},
}

// BisaPindahKe mengecek apakah status pesanan boleh berpindah ke status tujuan.
func (p Pesanan) BisaPindahKe(status string) bool {
	for _, s := range transisiPesanan[p.Status] {
		if s == status {
			return true
		}
	}
	return false
}

func (p Pesanan) IsFinal() bool {
	return len(transisiPesanan[p.Status]) == 0
}

func (p Pesanan) StatusLabel() string {
	switch p.Status {
	case consts.PesananMenunggu:
		return "Menunggu Konfirmasi"
	case consts.PesananDiterima:
		return "Diterima Penjual"
	case consts.PesananSelesai:
		return "Selesai"
	case consts.PesananDitolak:
		return "Ditolak"
	case consts.PesananExpired:
		return "Kedaluwarsa"
	default:
		return "Unknown"
	}
}

func (p *Pesanan) FindByID(db *gorm.DB, id string) (*Pesanan, error) {
	var pesanan Pesanan

	err := db.
		Preload("Items").
		Preload("Toko").
		Model(&Pesanan{}).Where("id = ? AND is_deleted = ?", id, false).
		First(&pesanan).Error
	if err != nil {
		return nil, err
	}

	return &pesanan, nil
}

// generateKodePesanan format: <nomor>/PESANAN/<bulan romawi>/<tahun>, nomor = nomor terbesar bulan ini + 1.
// Dua checkout bersamaan bisa mendapat nomor sama; unique index pada kode menolak yang kedua.
func generateKodePesanan(db *gorm.DB) string {
	now := time.Now()
	dateCode := "/PESANAN/" + intToRoman(int(now.Month())) + "/" + strconv.Itoa(now.Year())

	var latest Pesanan
	number := 1

	err := db.Session(&gorm.Session{NewDB: true}).
		Model(&Pesanan{}).
		Where("kode LIKE ?", "%"+dateCode).
		Order("LENGTH(kode) DESC, kode DESC").
		Limit(1).
		Find(&latest).Error
	if err == nil && latest.Kode != "" {
		if n, convErr := strconv.Atoi(strings.Split(latest.Kode, "/")[0]); convErr == nil {
			number = n + 1
		}
	}

	return strconv.Itoa(number) + dateCode
}

func intToRoman(num int) string {
	values := []int{
		1000, 900, 500, 400,
		100, 90, 50, 40,
		10, 9, 5, 4, 1,
	}

	symbols := []string{
		"M", "CM", "D", "CD",
		"C", "XC", "L", "XL",
		"X", "IX", "V", "IV",
		"I"}
	roman := ""
	i := 0

	for num > 0 {
		k := num / values[i]
		for j := 0; j < k; j++ {
			roman += symbols[i]
			num -= values[i]
		}
		i++
	}
	return roman
}

type PesananItem struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	PesananID string          `gorm:"size:36;not null;index" json:"pesananId"`
	ProdukID  string          `gorm:"size:36;not null;index" json:"produkId" validate:"required"`
	Produk    *Produk         `json:"produk,omitempty" validate:"-"`
	Nama      string          `gorm:"size:255" json:"nama"`
	Jumlah    int             `gorm:"not null" json:"jumlah" validate:"gt=0"`
	Harga     decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"harga"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (PesananItem) TableName() string {
	return "pesanan_item"
}

func (i *PesananItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&i.ID)
	return Validate(i)
}
