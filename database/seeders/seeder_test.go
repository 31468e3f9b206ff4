package seeders

import (
	"fmt"
	"testing"
	"time"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestDBSeed(t *testing.T) {
	dsn := fmt.Sprintf("file:seeder_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
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

	if err := DBSeed(db); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := DBSeed(db); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	var admins int64
	if err := db.Model(&models.User{}).Where("email = ?", AdminEmail).Count(&admins).Error; err != nil {
		t.Fatalf("count admin failed: %v", err)
	}
	if admins != 1 {
		t.Fatalf("admin want 1 got %d", admins)
	}

	var produk int64
	if err := db.Model(&models.Produk{}).Count(&produk).Error; err != nil {
		t.Fatalf("count produk failed: %v", err)
	}
	if produk != 2*jumlahPenjual*produkPerToko {
		t.Fatalf("produk want %d got %d", 2*jumlahPenjual*produkPerToko, produk)
	}
}
