package services

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/disintegration/imaging"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupPenarikan(t *testing.T) (*PenarikanService, *SaldoService, *gorm.DB) {
	t.Helper()
	db := setupServiceTest(t)
	saldo := NewSaldoService(db)
	svc := NewPenarikanService(db, saldo, PenarikanConfig{
		BiayaAdmin:   decimal.NewFromInt(2500),
		MinPenarikan: decimal.NewFromInt(10000),
		UploadDir:    t.TempDir(),
	})
	return svc, saldo, db
}

func TestPenarikanRequestMemotongSaldo(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	user := buatUser(t, db, consts.RolePenjual)
	rekening := buatRekening(t, db, user.ID)
	isiSaldo(t, saldo, user.ID, 100000)

	penarikan, err := svc.Request(context.Background(), user.ID, rekening.ID, decimal.NewFromInt(40000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if penarikan.Status != consts.PenarikanPending {
		t.Fatalf("status want pending got %s", penarikan.Status)
	}
	if !penarikan.JumlahDiterima.Equal(decimal.NewFromInt(37500)) {
		t.Fatalf("jumlahDiterima want 37500 got %s", penarikan.JumlahDiterima)
	}
	cekSaldo(t, saldo, user.ID, 60000)

	var mutasi models.MutasiSaldoUser
	err = db.Where("referensi_tabel = ? AND referensi_id = ?", consts.TabelPenarikanSaldo, penarikan.ID).First(&mutasi).Error
	if err != nil {
		t.Fatalf("mutasi penarikan tidak ditemukan: %v", err)
	}
	if mutasi.TipeTransaksi != consts.MutasiPenarikanSaldo {
		t.Fatalf("tipe mutasi want penarikan_saldo got %s", mutasi.TipeTransaksi)
	}
}

func TestPenarikanRequestDitolak(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	user := buatUser(t, db, consts.RolePenjual)
	lain := buatUser(t, db, consts.RolePenjual)
	rekening := buatRekening(t, db, user.ID)
	rekeningLain := buatRekening(t, db, lain.ID)
	isiSaldo(t, saldo, user.ID, 20000)

	tests := []struct {
		name       string
		rekeningID string
		jumlah     int64
		want       error
	}{
		{"di bawah minimum", rekening.ID, 9999, ErrDiBawahMinimum},
		{"saldo tidak cukup", rekening.ID, 20001, ErrSaldoTidakCukup},
		{"rekening orang lain", rekeningLain.ID, 15000, ErrBukanPemilik},
		{"rekening tidak ada", "tidak-ada", 15000, ErrTidakDitemukan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Request(context.Background(), user.ID, tt.rekeningID, decimal.NewFromInt(tt.jumlah))
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v got %v", tt.want, err)
			}
		})
	}

	cekSaldo(t, saldo, user.ID, 20000)

	var count int64
	if err := db.Model(&models.PenarikanSaldo{}).Count(&count).Error; err != nil {
		t.Fatalf("count penarikan failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("penarikan gagal tidak boleh tersimpan, got %d rows", count)
	}
}

func TestPenarikanTransisiStatus(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	admin := buatUser(t, db, consts.RolePenanggungJawab)
	user := buatUser(t, db, consts.RolePenjual)
	rekening := buatRekening(t, db, user.ID)
	isiSaldo(t, saldo, user.ID, 50000)
	ctx := context.Background()

	penarikan, err := svc.Request(ctx, user.ID, rekening.ID, decimal.NewFromInt(20000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	diproses, err := svc.Proses(ctx, penarikan.ID, admin.ID, "sedang ditransfer")
	if err != nil {
		t.Fatalf("proses failed: %v", err)
	}
	if diproses.Status != consts.PenarikanProcessing || diproses.TanggalProses == nil {
		t.Fatalf("proses tidak mengisi status/tanggal: %+v", diproses)
	}

	if _, err = svc.Proses(ctx, penarikan.ID, admin.ID, ""); !errors.Is(err, ErrTransisiTidakValid) {
		t.Fatalf("processing -> processing want ErrTransisiTidakValid got %v", err)
	}

	selesai, err := svc.Complete(ctx, penarikan.ID, admin.ID, "sudah ditransfer", nil)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if selesai.Status != consts.PenarikanCompleted || *selesai.DiprosesOleh != admin.ID {
		t.Fatalf("complete salah: %+v", selesai)
	}

	if _, err = svc.Reject(ctx, penarikan.ID, admin.ID, "telat"); !errors.Is(err, ErrTransisiTidakValid) {
		t.Fatalf("completed -> rejected want ErrTransisiTidakValid got %v", err)
	}
	cekSaldo(t, saldo, user.ID, 30000)
}

func TestPenarikanRejectMengembalikanSaldo(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	admin := buatUser(t, db, consts.RolePenanggungJawab)
	user := buatUser(t, db, consts.RolePenjual)
	rekening := buatRekening(t, db, user.ID)
	isiSaldo(t, saldo, user.ID, 50000)
	ctx := context.Background()

	penarikan, err := svc.Request(ctx, user.ID, rekening.ID, decimal.NewFromInt(20000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	cekSaldo(t, saldo, user.ID, 30000)

	ditolak, err := svc.Reject(ctx, penarikan.ID, admin.ID, "rekening tidak valid")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if ditolak.Status != consts.PenarikanRejected || ditolak.CatatanAdmin != "rekening tidak valid" {
		t.Fatalf("reject salah: %+v", ditolak)
	}
	cekSaldo(t, saldo, user.ID, 50000)

	rek, err := saldo.Reconcile(ctx, user.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !rek.Konsisten || rek.JumlahMutasi != 3 {
		t.Fatalf("reconcile setelah reject: %+v", rek)
	}
}

func TestPenarikanCancelOlehPemilik(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	admin := buatUser(t, db, consts.RolePenanggungJawab)
	user := buatUser(t, db, consts.RolePenjual)
	lain := buatUser(t, db, consts.RolePembeli)
	rekening := buatRekening(t, db, user.ID)
	isiSaldo(t, saldo, user.ID, 50000)
	ctx := context.Background()

	penarikan, err := svc.Request(ctx, user.ID, rekening.ID, decimal.NewFromInt(15000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err = svc.Cancel(ctx, penarikan.ID, lain.ID); !errors.Is(err, ErrBukanPemilik) {
		t.Fatalf("cancel by other want ErrBukanPemilik got %v", err)
	}

	batal, err := svc.Cancel(ctx, penarikan.ID, user.ID)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if batal.Status != consts.PenarikanRejected {
		t.Fatalf("cancel status want rejected got %s", batal.Status)
	}
	cekSaldo(t, saldo, user.ID, 50000)

	// pengembalian hanya sekali
	if _, err = svc.Cancel(ctx, penarikan.ID, user.ID); !errors.Is(err, ErrTransisiTidakValid) {
		t.Fatalf("second cancel want ErrTransisiTidakValid got %v", err)
	}

	kedua, err := svc.Request(ctx, user.ID, rekening.ID, decimal.NewFromInt(15000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err = svc.Proses(ctx, kedua.ID, admin.ID, ""); err != nil {
		t.Fatalf("proses failed: %v", err)
	}
	if _, err = svc.Cancel(ctx, kedua.ID, user.ID); !errors.Is(err, ErrTransisiTidakValid) {
		t.Fatalf("cancel processing want ErrTransisiTidakValid got %v", err)
	}
}

func TestPenarikanCompleteDenganBukti(t *testing.T) {
	svc, saldo, db := setupPenarikan(t)
	admin := buatUser(t, db, consts.RolePenanggungJawab)
	user := buatUser(t, db, consts.RolePenjual)
	rekening := buatRekening(t, db, user.ID)
	isiSaldo(t, saldo, user.ID, 50000)
	ctx := context.Background()

	penarikan, err := svc.Request(ctx, user.ID, rekening.ID, decimal.NewFromInt(15000))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var buf bytes.Buffer
	if err = png.Encode(&buf, imaging.New(2000, 400, color.White)); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}

	selesai, err := svc.Complete(ctx, penarikan.ID, admin.ID, "", &buf)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if selesai.BuktiTransfer == "" {
		t.Fatalf("bukti transfer kosong")
	}

	img, err := imaging.Open(filepath.Join(svc.cfg.UploadDir, selesai.BuktiTransfer))
	if err != nil {
		t.Fatalf("open bukti failed: %v", err)
	}
	if img.Bounds().Dx() != maxLebarBukti {
		t.Fatalf("lebar bukti want %d got %d", maxLebarBukti, img.Bounds().Dx())
	}
}
