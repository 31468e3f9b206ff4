package models

import (
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupModelTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:models_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	for _, model := range RegisterModels() {
		if err := db.AutoMigrate(model.Model); err != nil {
			t.Fatalf("migrate %T failed: %v", model.Model, err)
		}
	}
	return db
}

func TestJenisBudidayaDefaults(t *testing.T) {
	db := setupModelTest(t)

	jenis := &JenisBudidaya{Nama: "Ayam Petelur", Tipe: "hewan"}
	if err := db.Create(jenis).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := uuid.Parse(jenis.ID); err != nil {
		t.Fatalf("id bukan uuid: %q", jenis.ID)
	}

	var got JenisBudidaya
	if err := db.Where("id = ?", jenis.ID).First(&got).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.IsDeleted {
		t.Fatalf("isDeleted harus default false")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("timestamps kosong: %v %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestIDYangDikirimTidakDiganti(t *testing.T) {
	db := setupModelTest(t)
	id := uuid.New().String()

	satuan := &Satuan{ID: id, Nama: "Kilogram", Lambang: "kg"}
	if err := db.Create(satuan).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if satuan.ID != id {
		t.Fatalf("id want %s got %s", id, satuan.ID)
	}
}

func TestFieldWajibDitolak(t *testing.T) {
	db := setupModelTest(t)

	tests := []struct {
		name  string
		model interface{}
	}{
		{"jenis budidaya tanpa nama", &JenisBudidaya{Tipe: "hewan"}},
		{"jenis budidaya tipe salah", &JenisBudidaya{Nama: "Sapi", Tipe: "ikan"}},
		{"user tanpa email", &User{Name: "A", Password: "x", Role: consts.RolePembeli}},
		{"user role salah", &User{Name: "A", Email: "a@example.com", Password: "x", Role: "tamu"}},
		{"satuan tanpa lambang", &Satuan{Nama: "Liter"}},
		{"produk harga nol", &Produk{TokoID: "t", Nama: "Telur", Harga: decimal.Zero}},
		{"inventaris jumlah negatif", &Inventaris{KategoriInventarisID: "k", Nama: "Pakan", Jumlah: decimal.NewFromInt(-1)}},
		{"rekening bukan angka", &RekeningBank{UserID: "u", NamaBank: "BRI", NomorRekening: "12ab", NamaPenerima: "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := db.Create(tt.model).Error; err == nil {
				t.Fatalf("create harus gagal")
			}
		})
	}
}

func TestBulkInsertBerhentiDiBarisTidakValid(t *testing.T) {
	db := setupModelTest(t)

	rows := []KategoriInventaris{
		{Nama: "Pakan"},
		{Nama: ""},
		{Nama: "Pupuk"},
	}
	if err := db.Create(&rows).Error; err == nil {
		t.Fatalf("bulk insert harus gagal")
	}

	var count int64
	if err := db.Model(&KategoriInventaris{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("tidak boleh ada baris tersimpan, got %d", count)
	}
}

func TestSlugToko(t *testing.T) {
	db := setupModelTest(t)

	a := &Toko{UserID: "u1", Nama: "Tani Makmur"}
	b := &Toko{UserID: "u2", Nama: "Tani Makmur"}
	for _, toko := range []*Toko{a, b} {
		if err := db.Create(toko).Error; err != nil {
			t.Fatalf("create toko failed: %v", err)
		}
	}
	if a.Slug == b.Slug {
		t.Fatalf("slug toko harus unik: %s", a.Slug)
	}
	if a.TokoStatus != consts.TokoRequest {
		t.Fatalf("status default want request got %s", a.TokoStatus)
	}

	got, err := (&Toko{}).FindBySlug(db, a.Slug)
	if err != nil || got.ID != a.ID {
		t.Fatalf("find by slug failed: %v", err)
	}
}

func TestMutasiSnapshotHarusKonsisten(t *testing.T) {
	db := setupModelTest(t)

	mutasi := &MutasiSaldoUser{
		UserID:        "u1",
		TipeTransaksi: consts.MutasiRefundMasuk,
		Jumlah:        decimal.NewFromInt(100),
		SaldoSebelum:  decimal.NewFromInt(50),
		SaldoSesudah:  decimal.NewFromInt(100),
	}
	if err := db.Create(mutasi).Error; !errors.Is(err, ErrMutasiTidakKonsisten) {
		t.Fatalf("want ErrMutasiTidakKonsisten got %v", err)
	}

	mutasi.SaldoSesudah = decimal.NewFromInt(150)
	if err := db.Create(mutasi).Error; err != nil {
		t.Fatalf("create mutasi failed: %v", err)
	}
	if err := db.Model(mutasi).Update("jumlah", 1).Error; !errors.Is(err, ErrMutasiImmutable) {
		t.Fatalf("update want ErrMutasiImmutable got %v", err)
	}
}

func TestTransisiStatus(t *testing.T) {
	tests := []struct {
		dari, ke string
		want     bool
	}{
		{consts.PesananMenunggu, consts.PesananDiterima, true},
		{consts.PesananMenunggu, consts.PesananExpired, true},
		{consts.PesananMenunggu, consts.PesananSelesai, false},
		{consts.PesananDiterima, consts.PesananSelesai, true},
		{consts.PesananDiterima, consts.PesananExpired, false},
		{consts.PesananSelesai, consts.PesananDitolak, false},
		{consts.PesananDitolak, consts.PesananMenunggu, false},
	}
	for _, tt := range tests {
		if got := (Pesanan{Status: tt.dari}).BisaPindahKe(tt.ke); got != tt.want {
			t.Errorf("pesanan %s -> %s want %v got %v", tt.dari, tt.ke, tt.want, got)
		}
	}

	penarikan := []struct {
		dari, ke string
		want     bool
	}{
		{consts.PenarikanPending, consts.PenarikanProcessing, true},
		{consts.PenarikanPending, consts.PenarikanCompleted, true},
		{consts.PenarikanProcessing, consts.PenarikanRejected, true},
		{consts.PenarikanProcessing, consts.PenarikanPending, false},
		{consts.PenarikanCompleted, consts.PenarikanRejected, false},
		{consts.PenarikanRejected, consts.PenarikanCompleted, false},
	}
	for _, tt := range penarikan {
		if got := (PenarikanSaldo{Status: tt.dari}).BisaPindahKe(tt.ke); got != tt.want {
			t.Errorf("penarikan %s -> %s want %v got %v", tt.dari, tt.ke, tt.want, got)
		}
	}
}

func TestIntToRoman(t *testing.T) {
	tests := map[int]string{1: "I", 4: "IV", 9: "IX", 12: "XII", 2026: "MMXXVI"}
	for in, want := range tests {
		if got := intToRoman(in); got != want {
			t.Errorf("intToRoman(%d) want %s got %s", in, want, got)
		}
	}
}

func TestKodePesananUnikDanBerurutan(t *testing.T) {
	db := setupModelTest(t)
	now := time.Now()
	akhiran := "/PESANAN/" + intToRoman(int(now.Month())) + "/" + strconv.Itoa(now.Year())

	// nomor 10 dibuat lebih dulu dari nomor 9
	for _, kode := range []string{"10" + akhiran, "9" + akhiran} {
		pesanan := &Pesanan{Kode: kode, UserID: "u1", TokoID: "t1", TotalHarga: decimal.NewFromInt(1000)}
		if err := db.Create(pesanan).Error; err != nil {
			t.Fatalf("create pesanan %s failed: %v", kode, err)
		}
	}

	baru := &Pesanan{UserID: "u1", TokoID: "t1", TotalHarga: decimal.NewFromInt(1000)}
	if err := db.Create(baru).Error; err != nil {
		t.Fatalf("create pesanan failed: %v", err)
	}
	if baru.Kode != "11"+akhiran {
		t.Fatalf("kode want 11%s got %s", akhiran, baru.Kode)
	}

	kembar := &Pesanan{Kode: baru.Kode, UserID: "u2", TokoID: "t1", TotalHarga: decimal.NewFromInt(1000)}
	if err := db.Create(kembar).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("kode kembar want ErrDuplicatedKey got %v", err)
	}
}
