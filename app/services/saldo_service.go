package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mutasi permintaan perubahan saldo. Jumlah selalu positif, tanda ditentukan TipeTransaksi.
type Mutasi struct {
	UserID         string
	TipeTransaksi  string
	Jumlah         decimal.Decimal
	ReferensiTabel string
	ReferensiID    string
	Keterangan     string
}

type Rekonsiliasi struct {
	UserID        string          `json:"userId"`
	SaldoTercatat decimal.Decimal `json:"saldoTercatat"`
	SaldoDihitung decimal.Decimal `json:"saldoDihitung"`
	Selisih       decimal.Decimal `json:"selisih"`
	JumlahMutasi  int             `json:"jumlahMutasi"`
	Konsisten     bool            `json:"konsisten"`
}

type SaldoService struct {
	db *gorm.DB
}

func NewSaldoService(db *gorm.DB) *SaldoService {
	return &SaldoService{db: db}
}

// Apply mencatat satu mutasi dalam transaksi sendiri.
func (s *SaldoService) Apply(ctx context.Context, m Mutasi) (*models.MutasiSaldoUser, error) {
	const op = "services.SaldoService.Apply"

	var mutasi *models.MutasiSaldoUser
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		mutasi, err = s.ApplyTx(tx, m)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return mutasi, nil
}

// ApplyTx dipakai service lain yang sudah punya transaksi terbuka.
//
// 1) cek tipe dan jumlah
// 2) cek referensi belum pernah dipakai untuk tipe yang sama
// 3) kunci baris saldo (FOR UPDATE)
// 4) hitung saldo sesudah, tolak kalau minus
// 5) update saldo lalu tulis mutasi
func (s *SaldoService) ApplyTx(tx *gorm.DB, m Mutasi) (*models.MutasiSaldoUser, error) {
	if !models.IsTipeMutasi(m.TipeTransaksi) {
		return nil, ErrTipeMutasiTidakValid
	}
	if !m.Jumlah.IsPositive() {
		return nil, ErrJumlahTidakValid
	}

	if m.ReferensiTabel != "" && m.ReferensiID != "" {
		var count int64
		err := tx.Model(&models.MutasiSaldoUser{}).
			Where("referensi_tabel = ? AND referensi_id = ? AND tipe_transaksi = ?", m.ReferensiTabel, m.ReferensiID, m.TipeTransaksi).
			Count(&count).Error
		if err != nil {
			return nil, fmt.Errorf("cek referensi: %w", err)
		}
		if count > 0 {
			return nil, ErrMutasiDuplikat
		}
	}

	saldo, err := lockSaldo(tx, m.UserID)
	if err != nil {
		return nil, fmt.Errorf("lock saldo: %w", err)
	}

	jumlah := m.Jumlah
	if !models.IsKredit(m.TipeTransaksi) {
		jumlah = jumlah.Neg()
	}

	sesudah := saldo.SaldoTersedia.Add(jumlah)
	if sesudah.IsNegative() {
		return nil, ErrSaldoTidakCukup
	}

	err = tx.Model(&models.SaldoUser{}).Where("id = ?", saldo.ID).Update("saldo_tersedia", sesudah).Error
	if err != nil {
		return nil, fmt.Errorf("update saldo: %w", err)
	}

	mutasi := &models.MutasiSaldoUser{
		UserID:        m.UserID,
		TipeTransaksi: m.TipeTransaksi,
		Jumlah:        jumlah,
		SaldoSebelum:  saldo.SaldoTersedia,
		SaldoSesudah:  sesudah,
		Keterangan:    m.Keterangan,
	}
	if m.ReferensiTabel != "" && m.ReferensiID != "" {
		mutasi.ReferensiTabel = &m.ReferensiTabel
		mutasi.ReferensiID = &m.ReferensiID
	}

	if err = tx.Create(mutasi).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrMutasiDuplikat
		}
		return nil, fmt.Errorf("insert mutasi: %w", err)
	}

	return mutasi, nil
}

// TransferTx debit satu user lalu kredit user lain di transaksi yang sama.
func (s *SaldoService) TransferTx(tx *gorm.DB, debit Mutasi, kredit Mutasi) error {
	if models.IsKredit(debit.TipeTransaksi) || !models.IsKredit(kredit.TipeTransaksi) {
		return ErrTipeMutasiTidakValid
	}

	// kunci dengan urutan tetap supaya dua transfer berlawanan arah tidak deadlock
	ids := []string{debit.UserID, kredit.UserID}
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := lockSaldo(tx, id); err != nil {
			return fmt.Errorf("lock saldo: %w", err)
		}
	}

	if _, err := s.ApplyTx(tx, debit); err != nil {
		return err
	}
	if _, err := s.ApplyTx(tx, kredit); err != nil {
		return err
	}

	return nil
}

func (s *SaldoService) Transfer(ctx context.Context, debit Mutasi, kredit Mutasi) error {
	const op = "services.SaldoService.Transfer"

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.TransferTx(tx, debit, kredit)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetSaldo tanpa lock. User yang belum punya baris saldo dianggap nol.
func (s *SaldoService) GetSaldo(ctx context.Context, userID string) (*models.SaldoUser, error) {
	const op = "services.SaldoService.GetSaldo"

	var saldo models.SaldoUser
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&saldo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.SaldoUser{UserID: userID, SaldoTersedia: decimal.Zero}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &saldo, nil
}

func (s *SaldoService) ListMutasi(ctx context.Context, userID string, perPage int, page int) ([]models.MutasiSaldoUser, int64, error) {
	const op = "services.SaldoService.ListMutasi"

	var mutasi []models.MutasiSaldoUser
	var count int64

	q := s.db.WithContext(ctx).Model(&models.MutasiSaldoUser{}).Where("user_id = ?", userID).Session(&gorm.Session{})
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	if page < 1 {
		page = 1
	}
	err := q.Order("created_at desc").Limit(perPage).Offset((page - 1) * perPage).Find(&mutasi).Error
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return mutasi, count, nil
}

// Reconcile menghitung ulang saldo dari seluruh riwayat mutasi.
func (s *SaldoService) Reconcile(ctx context.Context, userID string) (*Rekonsiliasi, error) {
	const op = "services.SaldoService.Reconcile"

	saldo, err := s.GetSaldo(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var mutasi []models.MutasiSaldoUser
	if err = s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&mutasi).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dihitung := decimal.Zero
	for _, m := range mutasi {
		dihitung = dihitung.Add(m.Jumlah)
	}

	selisih := saldo.SaldoTersedia.Sub(dihitung)

	return &Rekonsiliasi{
		UserID:        userID,
		SaldoTercatat: saldo.SaldoTersedia,
		SaldoDihitung: dihitung,
		Selisih:       selisih,
		JumlahMutasi:  len(mutasi),
		Konsisten:     selisih.IsZero(),
	}, nil
}

func lockSaldo(tx *gorm.DB, userID string) (*models.SaldoUser, error) {
	var saldo models.SaldoUser

	err := forUpdate(tx).Where("user_id = ?", userID).First(&saldo).Error
	if err == nil {
		return &saldo, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// baris saldo dibuat saat mutasi pertama
	err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SaldoUser{UserID: userID, SaldoTersedia: decimal.Zero}).Error
	if err != nil {
		return nil, err
	}

	if err = forUpdate(tx).Where("user_id = ?", userID).First(&saldo).Error; err != nil {
		return nil, err
	}

	return &saldo, nil
}

// forUpdate menambah SELECT ... FOR UPDATE. Driver sqlite mengabaikan klausa ini.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
