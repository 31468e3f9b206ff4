package seeders

import (
	"errors"
	"fmt"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/alirogz/smartfarm/database/fakers"
	"gorm.io/gorm"
)

type Seeder struct {
	Seeder interface{}
}

const (
	jumlahPenjual = 3
	jumlahPembeli = 5
	produkPerToko = 4
)

// AdminEmail akun penanggung jawab yang selalu dibuat oleh seeder.
const AdminEmail = "admin@smartfarm.local"

func masterSeeders() []Seeder {
	return []Seeder{
		{Seeder: &[]models.JenisBudidaya{
			{Nama: "Ayam Petelur", Latin: "Gallus gallus domesticus", Tipe: "hewan", Status: true},
			{Nama: "Sapi Perah", Latin: "Bos taurus", Tipe: "hewan", Status: true},
			{Nama: "Melon", Latin: "Cucumis melo", Tipe: "tumbuhan", Status: true},
		}},
		{Seeder: &[]models.KategoriInventaris{
			{Nama: "Pakan"}, {Nama: "Obat & Vitamin"}, {Nama: "Pupuk"}, {Nama: "Peralatan"},
		}},
		{Seeder: &[]models.Satuan{
			{Nama: "Kilogram", Lambang: "kg"}, {Nama: "Liter", Lambang: "l"}, {Nama: "Butir", Lambang: "btr"}, {Nama: "Karung", Lambang: "krg"},
		}},
	}
}

func RegisterSeeders(db *gorm.DB) []Seeder {
	seeders := masterSeeders()

	for i := 0; i < jumlahPenjual; i++ {
		penjual := fakers.UserFaker(db, consts.RolePenjual)
		toko := fakers.TokoFaker(db, penjual)

		seeders = append(seeders, Seeder{Seeder: penjual}, Seeder{Seeder: toko})
		for j := 0; j < produkPerToko; j++ {
			seeders = append(seeders, Seeder{Seeder: fakers.ProdukFaker(db, toko)})
		}
	}

	for i := 0; i < jumlahPembeli; i++ {
		seeders = append(seeders, Seeder{Seeder: fakers.UserFaker(db, consts.RolePembeli)})
	}

	return seeders
}

func DBSeed(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}

	for _, seeder := range RegisterSeeders(db) {
		err := db.Create(seeder.Seeder).Error
		if err != nil {
			return fmt.Errorf("seed %T: %w", seeder.Seeder, err)
		}
	}

	return nil
}

// seedAdmin membuat akun penanggung jawab kalau belum ada.
func seedAdmin(db *gorm.DB) error {
	_, err := (&models.User{}).FindByEmail(db, AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := fakers.UserFaker(db, consts.RolePenanggungJawab)
	admin.Name = "Penanggung Jawab"
	admin.Email = AdminEmail

	return db.Create(admin).Error
}
