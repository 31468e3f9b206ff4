package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	for _, model := range models.RegisterModels() {
		if err := db.AutoMigrate(model.Model); err != nil {
			t.Fatalf("migrate %T failed: %v", model.Model, err)
		}
	}
	return db
}

func buatUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "User " + role,
		Email:    fmt.Sprintf("%s_%d@example.com", role, time.Now().UnixNano()),
		Password: "hash",
		Role:     role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func buatToko(t *testing.T, db *gorm.DB, ownerID string) *models.Toko {
	t.Helper()
	toko := &models.Toko{UserID: ownerID, Nama: "Toko Tani", TokoStatus: consts.TokoActive}
	if err := db.Create(toko).Error; err != nil {
		t.Fatalf("create toko failed: %v", err)
	}
	return toko
}

func buatProduk(t *testing.T, db *gorm.DB, tokoID string, harga int64, stok int) *models.Produk {
	t.Helper()
	produk := &models.Produk{
		TokoID: tokoID,
		Nama:   fmt.Sprintf("Produk %d", time.Now().UnixNano()),
		Harga:  decimal.NewFromInt(harga),
		Stok:   stok,
	}
	if err := db.Create(produk).Error; err != nil {
		t.Fatalf("create produk failed: %v", err)
	}
	return produk
}

func buatRekening(t *testing.T, db *gorm.DB, userID string) *models.RekeningBank {
	t.Helper()
	rekening := &models.RekeningBank{
		UserID:        userID,
		NamaBank:      "BRI",
		NomorRekening: "1234567890",
		NamaPenerima:  "Pemilik",
	}
	if err := db.Create(rekening).Error; err != nil {
		t.Fatalf("create rekening failed: %v", err)
	}
	return rekening
}

func isiSaldo(t *testing.T, svc *SaldoService, userID string, jumlah int64) {
	t.Helper()
	_, err := svc.Apply(context.Background(), Mutasi{
		UserID:        userID,
		TipeTransaksi: consts.MutasiPendapatanMasukPenjual,
		Jumlah:        decimal.NewFromInt(jumlah),
	})
	if err != nil {
		t.Fatalf("isi saldo failed: %v", err)
	}
}

func cekSaldo(t *testing.T, svc *SaldoService, userID string, want int64) {
	t.Helper()
	saldo, err := svc.GetSaldo(context.Background(), userID)
	if err != nil {
		t.Fatalf("get saldo failed: %v", err)
	}
	if !saldo.SaldoTersedia.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("saldo want %d got %s", want, saldo.SaldoTersedia)
	}
}
