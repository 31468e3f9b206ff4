package fakers

import (
	"math/rand"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var namaProduk = []string{"Telur Ayam", "Susu Sapi", "Madu Hutan", "Beras Organik", "Cabai Merah", "Jagung Manis", "Ikan Lele", "Pupuk Kandang"}

func TokoFaker(db *gorm.DB, owner *models.User) *models.Toko {
	return &models.Toko{
		ID:         uuid.New().String(),
		UserID:     owner.ID,
		Nama:       "Toko " + faker.LastName(),
		Phone:      faker.Phonenumber(),
		Alamat:     faker.Sentence(),
		Deskripsi:  faker.Paragraph(),
		TokoStatus: consts.TokoActive,
	}
}

func ProdukFaker(db *gorm.DB, toko *models.Toko) *models.Produk {
	nama := namaProduk[rand.Intn(len(namaProduk))]

	return &models.Produk{
		ID:        uuid.New().String(),
		TokoID:    toko.ID,
		Nama:      nama,
		Deskripsi: faker.Sentence(),
		Harga:     decimal.NewFromInt(int64(5+rand.Intn(95)) * 1000),
		Stok:      10 + rand.Intn(90),
	}
}
