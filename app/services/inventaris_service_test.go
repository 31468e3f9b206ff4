package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
)

func TestInventarisUse(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewInventarisService(db)
	user := buatUser(t, db, consts.RoleInventor)
	ctx := context.Background()

	kategori := &models.KategoriInventaris{Nama: "Pakan"}
	if err := db.Create(kategori).Error; err != nil {
		t.Fatalf("create kategori failed: %v", err)
	}
	inventaris := &models.Inventaris{
		KategoriInventarisID: kategori.ID,
		Nama:                 "Pakan Ayam",
		Jumlah:               decimal.NewFromInt(10),
	}
	if err := db.Create(inventaris).Error; err != nil {
		t.Fatalf("create inventaris failed: %v", err)
	}

	if _, err := svc.Use(ctx, user.ID, PemakaianInput{InventarisID: inventaris.ID, Jumlah: decimal.NewFromInt(11)}); !errors.Is(err, ErrStokTidakCukup) {
		t.Fatalf("want ErrStokTidakCukup got %v", err)
	}
	if _, err := svc.Use(ctx, user.ID, PemakaianInput{InventarisID: inventaris.ID, Jumlah: decimal.Zero}); !errors.Is(err, ErrJumlahTidakValid) {
		t.Fatalf("want ErrJumlahTidakValid got %v", err)
	}

	penggunaan, err := svc.Use(ctx, user.ID, PemakaianInput{InventarisID: inventaris.ID, Jumlah: decimal.NewFromInt(4)})
	if err != nil {
		t.Fatalf("use failed: %v", err)
	}
	if penggunaan.ID == "" || penggunaan.UserID != user.ID {
		t.Fatalf("penggunaan tidak tersimpan: %+v", penggunaan)
	}

	if _, err = svc.Use(ctx, user.ID, PemakaianInput{InventarisID: inventaris.ID, Jumlah: decimal.NewFromInt(6)}); err != nil {
		t.Fatalf("use sisa failed: %v", err)
	}

	var got models.Inventaris
	if err = db.Where("id = ?", inventaris.ID).First(&got).Error; err != nil {
		t.Fatalf("reload inventaris failed: %v", err)
	}
	if !got.Jumlah.IsZero() {
		t.Fatalf("jumlah want 0 got %s", got.Jumlah)
	}
	if got.Ketersediaan != consts.InventarisTidakTersedia {
		t.Fatalf("ketersediaan want %q got %q", consts.InventarisTidakTersedia, got.Ketersediaan)
	}

	var logs int64
	if err = db.Model(&models.Log{}).Where("tabel = ?", "penggunaan_inventaris").Count(&logs).Error; err != nil {
		t.Fatalf("count logs failed: %v", err)
	}
	if logs != 2 {
		t.Fatalf("logs want 2 got %d", logs)
	}
}
