package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemCheckout struct {
	ProdukID string `json:"produkId" validate:"required"`
	Jumlah   int    `json:"jumlah" validate:"gt=0"`
}

type CheckoutInput struct {
	Items   []ItemCheckout `json:"items" validate:"required,min=1,dive"`
	Catatan string         `json:"catatan"`
}

type PesananService struct {
	db     *gorm.DB
	saldo  *SaldoService
	expiry time.Duration
}

func NewPesananService(db *gorm.DB, saldo *SaldoService, expiry time.Duration) *PesananService {
	return &PesananService{db: db, saldo: saldo, expiry: expiry}
}

// Checkout membuat pesanan menunggu dan memotong stok produk.
func (s *PesananService) Checkout(ctx context.Context, userID string, input CheckoutInput) (*models.Pesanan, error) {
	const op = "services.PesananService.Checkout"

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrPesananKosong)
	}

	// gabungkan produk yang sama lalu urutkan id supaya urutan lock selalu sama
	jumlahPerProduk := map[string]int{}
	for _, item := range input.Items {
		if item.Jumlah <= 0 {
			return nil, fmt.Errorf("%s: %w", op, ErrJumlahTidakValid)
		}
		jumlahPerProduk[item.ProdukID] += item.Jumlah
	}
	produkIDs := make([]string, 0, len(jumlahPerProduk))
	for id := range jumlahPerProduk {
		produkIDs = append(produkIDs, id)
	}
	sort.Strings(produkIDs)

	var pesanan *models.Pesanan
	var err error
	for percobaan := 0; percobaan < maxPercobaanKode; percobaan++ {
		pesanan, err = s.checkoutTx(ctx, userID, input.Catatan, produkIDs, jumlahPerProduk)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pesanan, nil
}

// maxPercobaanKode batas ulang checkout kalau kode pesanan bentrok.
const maxPercobaanKode = 3

func (s *PesananService) checkoutTx(ctx context.Context, userID string, catatan string, produkIDs []string, jumlahPerProduk map[string]int) (*models.Pesanan, error) {
	pesanan := &models.Pesanan{
		UserID:  userID,
		Status:  consts.PesananMenunggu,
		Catatan: catatan,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := decimal.Zero

		for _, produkID := range produkIDs {
			jumlah := jumlahPerProduk[produkID]

			var produk models.Produk
			err := forUpdate(tx).Where("id = ? AND is_deleted = ?", produkID, false).First(&produk).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTidakDitemukan
			}
			if err != nil {
				return fmt.Errorf("lock produk: %w", err)
			}

			if pesanan.TokoID == "" {
				pesanan.TokoID = produk.TokoID
			} else if pesanan.TokoID != produk.TokoID {
				return ErrTokoBerbeda
			}

			if produk.Stok < jumlah {
				return fmt.Errorf("%s: %w", produk.Nama, ErrStokTidakCukup)
			}

			err = tx.Model(&models.Produk{}).Where("id = ?", produk.ID).Update("stok", gorm.Expr("stok - ?", jumlah)).Error
			if err != nil {
				return fmt.Errorf("kurangi stok: %w", err)
			}

			subtotal := produk.Harga.Mul(decimal.NewFromInt(int64(jumlah)))
			total = total.Add(subtotal)

			pesanan.Items = append(pesanan.Items, models.PesananItem{
				ProdukID: produk.ID,
				Nama:     produk.Nama,
				Jumlah:   jumlah,
				Harga:    produk.Harga,
				Subtotal: subtotal,
			})
		}

		pesanan.TotalHarga = total
		if err := tx.Create(pesanan).Error; err != nil {
			return fmt.Errorf("insert pesanan: %w", err)
		}

		return models.CreateLog(tx, userID, consts.TabelPesanan, consts.LogCreate, pesanan.ID, "checkout "+pesanan.Kode)
	})
	if err != nil {
		return nil, err
	}

	return pesanan, nil
}

// Pay mencatat pembayaran berhasil. Satu pesanan hanya bisa dibayar sekali.
func (s *PesananService) Pay(ctx context.Context, pesananID string, userID string, metode string, referensi string) (*models.Pembayaran, error) {
	const op = "services.PesananService.Pay"

	var pembayaran *models.Pembayaran

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pesanan, err := lockPesanan(tx, pesananID)
		if err != nil {
			return err
		}
		if pesanan.UserID != userID {
			return ErrBukanPemilik
		}
		if pesanan.Status != consts.PesananMenunggu && pesanan.Status != consts.PesananDiterima {
			return ErrTransisiTidakValid
		}

		sudah, err := (&models.Pembayaran{}).FindBerhasil(tx, pesanan.ID)
		if err != nil {
			return fmt.Errorf("cek pembayaran: %w", err)
		}
		if sudah != nil {
			return ErrSudahDibayar
		}

		if metode == "" {
			metode = "transfer"
		}
		now := time.Now()
		pembayaran = &models.Pembayaran{
			PesananID:    pesanan.ID,
			Jumlah:       pesanan.TotalHarga,
			Metode:       metode,
			Status:       consts.PembayaranBerhasil,
			Referensi:    referensi,
			TanggalBayar: &now,
		}
		if err = tx.Create(pembayaran).Error; err != nil {
			return fmt.Errorf("insert pembayaran: %w", err)
		}

		return models.CreateLog(tx, userID, "pembayaran", consts.LogCreate, pembayaran.ID, "bayar "+pesanan.Kode)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pembayaran, nil
}

// UpdateStatus memindahkan status pesanan beserta efek sampingnya ke stok dan saldo.
func (s *PesananService) UpdateStatus(ctx context.Context, pesananID string, aktorID string, status string) (*models.Pesanan, error) {
	const op = "services.PesananService.UpdateStatus"

	var pesanan *models.Pesanan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pesanan, err = s.updateStatusTx(tx, pesananID, aktorID, status)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pesanan, nil
}

func (s *PesananService) updateStatusTx(tx *gorm.DB, pesananID string, aktorID string, status string) (*models.Pesanan, error) {
	pesanan, err := lockPesanan(tx, pesananID)
	if err != nil {
		return nil, err
	}
	if !pesanan.BisaPindahKe(status) {
		return nil, ErrTransisiTidakValid
	}

	// pesanan hanya bisa selesai kalau pembayarannya sudah masuk
	var pembayaran *models.Pembayaran
	if status == consts.PesananSelesai {
		pembayaran, err = (&models.Pembayaran{}).FindBerhasil(tx, pesanan.ID)
		if err != nil {
			return nil, fmt.Errorf("cek pembayaran: %w", err)
		}
		if pembayaran == nil {
			return nil, ErrBelumDibayar
		}
	}

	err = tx.Model(&models.Pesanan{}).Where("id = ?", pesanan.ID).Update("status", status).Error
	if err != nil {
		return nil, fmt.Errorf("update status pesanan: %w", err)
	}
	pesanan.Status = status

	switch status {
	case consts.PesananSelesai:
		if err = s.catatPendapatan(tx, pesanan, pembayaran); err != nil {
			return nil, err
		}
	case consts.PesananDitolak, consts.PesananExpired:
		if err = s.batalkan(tx, pesanan); err != nil {
			return nil, err
		}
	}

	if err = models.CreateLog(tx, aktorID, consts.TabelPesanan, consts.LogUpdate, pesanan.ID, "status "+status); err != nil {
		return nil, err
	}

	return pesanan, nil
}

// catatPendapatan membuat baris pendapatan dan mengkredit saldo pemilik toko.
// Nilainya tidak pernah melebihi pembayaran yang diterima.
func (s *PesananService) catatPendapatan(tx *gorm.DB, pesanan *models.Pesanan, pembayaran *models.Pembayaran) error {
	var toko models.Toko
	if err := tx.Where("id = ?", pesanan.TokoID).First(&toko).Error; err != nil {
		return fmt.Errorf("cari toko: %w", err)
	}

	pendapatan := &models.Pendapatan{
		PesananID: pesanan.ID,
		TokoID:    pesanan.TokoID,
		Harga:     decimal.Min(pesanan.TotalHarga, pembayaran.Jumlah),
	}
	if err := tx.Create(pendapatan).Error; err != nil {
		return fmt.Errorf("insert pendapatan: %w", err)
	}

	_, err := s.saldo.ApplyTx(tx, Mutasi{
		UserID:         toko.UserID,
		TipeTransaksi:  consts.MutasiPendapatanMasukPenjual,
		Jumlah:         pendapatan.Harga,
		ReferensiTabel: consts.TabelPendapatan,
		ReferensiID:    pendapatan.ID,
		Keterangan:     "pendapatan pesanan " + pesanan.Kode,
	})

	return err
}

// batalkan mengembalikan stok, dan dana pembeli kalau pesanan sudah dibayar.
func (s *PesananService) batalkan(tx *gorm.DB, pesanan *models.Pesanan) error {
	var items []models.PesananItem
	if err := tx.Where("pesanan_id = ?", pesanan.ID).Order("produk_id").Find(&items).Error; err != nil {
		return fmt.Errorf("ambil item pesanan: %w", err)
	}

	for _, item := range items {
		err := tx.Model(&models.Produk{}).Where("id = ?", item.ProdukID).Update("stok", gorm.Expr("stok + ?", item.Jumlah)).Error
		if err != nil {
			return fmt.Errorf("kembalikan stok: %w", err)
		}
	}

	pembayaran, err := (&models.Pembayaran{}).FindBerhasil(tx, pesanan.ID)
	if err != nil {
		return fmt.Errorf("cek pembayaran: %w", err)
	}
	if pembayaran == nil {
		return nil
	}

	_, err = s.saldo.ApplyTx(tx, Mutasi{
		UserID:         pesanan.UserID,
		TipeTransaksi:  consts.MutasiRefundMasuk,
		Jumlah:         pembayaran.Jumlah,
		ReferensiTabel: consts.TabelPesanan,
		ReferensiID:    pesanan.ID,
		Keterangan:     "refund pesanan " + pesanan.Kode + " (" + pesanan.Status + ")",
	})

	return err
}

// Refund pesanan selesai: saldo penjual dipindah ke pembeli dan pendapatan dihapus.
func (s *PesananService) Refund(ctx context.Context, pesananID string, aktorID string) (*models.Pesanan, error) {
	const op = "services.PesananService.Refund"

	var pesanan *models.Pesanan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		pesanan, err = lockPesanan(tx, pesananID)
		if err != nil {
			return err
		}
		if pesanan.Status != consts.PesananSelesai {
			return ErrTransisiTidakValid
		}

		var pendapatan models.Pendapatan
		err = tx.Where("pesanan_id = ?", pesanan.ID).First(&pendapatan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTidakDitemukan
		}
		if err != nil {
			return fmt.Errorf("cari pendapatan: %w", err)
		}
		if pendapatan.IsDeleted {
			return ErrSudahDirefund
		}

		pembayaran, err := (&models.Pembayaran{}).FindBerhasil(tx, pesanan.ID)
		if err != nil {
			return fmt.Errorf("cek pembayaran: %w", err)
		}
		if pembayaran == nil {
			return ErrBelumDibayar
		}
		jumlah := decimal.Min(pembayaran.Jumlah, pendapatan.Harga)

		var toko models.Toko
		if err = tx.Where("id = ?", pesanan.TokoID).First(&toko).Error; err != nil {
			return fmt.Errorf("cari toko: %w", err)
		}

		keterangan := "refund pesanan " + pesanan.Kode
		err = s.saldo.TransferTx(tx,
			Mutasi{
				UserID:         toko.UserID,
				TipeTransaksi:  consts.MutasiRefundKePembeli,
				Jumlah:         jumlah,
				ReferensiTabel: consts.TabelPesanan,
				ReferensiID:    pesanan.ID,
				Keterangan:     keterangan,
			},
			Mutasi{
				UserID:         pesanan.UserID,
				TipeTransaksi:  consts.MutasiRefundMasuk,
				Jumlah:         jumlah,
				ReferensiTabel: consts.TabelPesanan,
				ReferensiID:    pesanan.ID,
				Keterangan:     keterangan,
			})
		if err != nil {
			return err
		}

		err = tx.Model(&models.Pendapatan{}).Where("id = ?", pendapatan.ID).Update("is_deleted", true).Error
		if err != nil {
			return fmt.Errorf("hapus pendapatan: %w", err)
		}

		return models.CreateLog(tx, aktorID, consts.TabelPesanan, consts.LogUpdate, pesanan.ID, "refund")
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pesanan, nil
}

// ExpireStale mengubah pesanan menunggu yang melewati batas waktu menjadi expired.
func (s *PesananService) ExpireStale(ctx context.Context, now time.Time) (int, error) {
	const op = "services.PesananService.ExpireStale"

	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Pesanan{}).
		Where("status = ? AND is_deleted = ? AND created_at < ?", consts.PesananMenunggu, false, now.Add(-s.expiry)).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	expired := 0
	for _, id := range ids {
		_, err = s.UpdateStatus(ctx, id, "", consts.PesananExpired)
		if errors.Is(err, ErrTransisiTidakValid) {
			// sudah diproses penjual di antara query dan lock
			continue
		}
		if err != nil {
			return expired, fmt.Errorf("%s: %w", op, err)
		}
		expired++
	}

	return expired, nil
}

func (s *PesananService) Get(ctx context.Context, id string) (*models.Pesanan, error) {
	pesanan, err := (&models.Pesanan{}).FindByID(s.db.WithContext(ctx), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	return pesanan, nil
}

// List pesanan milik pembeli, atau semua pesanan kalau userID kosong.
func (s *PesananService) List(ctx context.Context, userID string) ([]models.Pesanan, error) {
	const op = "services.PesananService.List"

	var pesanan []models.Pesanan

	q := s.db.WithContext(ctx).Preload("Items").Where("is_deleted = ?", false)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Order("created_at desc").Find(&pesanan).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return pesanan, nil
}

func lockPesanan(tx *gorm.DB, id string) (*models.Pesanan, error) {
	var pesanan models.Pesanan

	err := forUpdate(tx).Where("id = ? AND is_deleted = ?", id, false).First(&pesanan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTidakDitemukan
	}
	if err != nil {
		return nil, fmt.Errorf("lock pesanan: %w", err)
	}

	return &pesanan, nil
}
