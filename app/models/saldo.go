package models

import (
	"errors"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrMutasiImmutable      = errors.New("mutasi saldo tidak boleh diubah atau dihapus")
	ErrMutasiTidakKonsisten = errors.New("saldo sesudah tidak sama dengan saldo sebelum ditambah jumlah")
)

type SaldoUser struct {
	ID            string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID        string          `gorm:"size:36;not null;uniqueIndex" json:"userId" validate:"required"`
	User          *User           `json:"user,omitempty" validate:"-"`
	SaldoTersedia decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"saldoTersedia" validate:"gte=0"`
	IsDeleted     bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (SaldoUser) TableName() string {
	return "saldo_user"
}

func (s *SaldoUser) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return Validate(s)
}

// MutasiSaldoUser baris buku besar saldo. Hanya boleh ditambah, tidak pernah diubah.
type MutasiSaldoUser struct {
	ID             string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID         string          `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	TipeTransaksi  string          `gorm:"size:50;not null;uniqueIndex:idx_mutasi_referensi,priority:3" json:"tipeTransaksi" validate:"required,oneof=pendapatan_masuk_penjual penarikan_saldo refund_masuk penarikan_dibatalkan_dikembalikan refund_ke_pembeli"`
	Jumlah         decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"jumlah"`
	SaldoSebelum   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"saldoSebelum" validate:"gte=0"`
	SaldoSesudah   decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"saldoSesudah" validate:"gte=0"`
	ReferensiID    *string         `gorm:"size:36;uniqueIndex:idx_mutasi_referensi,priority:2" json:"referensiId"`
	ReferensiTabel *string         `gorm:"size:50;uniqueIndex:idx_mutasi_referensi,priority:1" json:"referensiTabel"`
	Keterangan     string          `gorm:"type:text" json:"keterangan"`
	IsDeleted      bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (MutasiSaldoUser) TableName() string {
	return "mutasi_saldo_user"
}

func (m *MutasiSaldoUser) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	if !m.SaldoSebelum.Add(m.Jumlah).Equal(m.SaldoSesudah) {
		return ErrMutasiTidakKonsisten
	}

	return Validate(m)
}

func (m *MutasiSaldoUser) BeforeUpdate(tx *gorm.DB) error {
	return ErrMutasiImmutable
}

func (m *MutasiSaldoUser) BeforeDelete(tx *gorm.DB) error {
	return ErrMutasiImmutable
}

// IsKredit true untuk tipe transaksi yang menambah saldo.
func IsKredit(tipe string) bool {
	switch tipe {
	case consts.MutasiPendapatanMasukPenjual, consts.MutasiRefundMasuk, consts.MutasiPenarikanDibatalkanKembali:
		return true
	}
	return false
}

// IsTipeMutasi mengecek tipe transaksi termasuk enum yang dikenal.
func IsTipeMutasi(tipe string) bool {
	switch tipe {
	case consts.MutasiPendapatanMasukPenjual, consts.MutasiPenarikanSaldo, consts.MutasiRefundMasuk,
		consts.MutasiPenarikanDibatalkanKembali, consts.MutasiRefundKePembeli:
		return true
	}
	return false
}

type PenarikanSaldo struct {
	ID             string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID         string          `gorm:"size:36;not null;index" json:"userId" validate:"required"`
	RekeningBankID string          `gorm:"size:36;not null;index" json:"rekeningBankId" validate:"required"`
	RekeningBank   *RekeningBank   `json:"rekeningBank,omitempty" validate:"-"`
	JumlahDiminta  decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"jumlahDiminta" validate:"gt=0"`
	BiayaAdmin     decimal.Decimal `gorm:"type:decimal(16,2);not null;default:0" json:"biayaAdmin" validate:"gte=0"`
	JumlahDiterima decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"jumlahDiterima" validate:"gt=0"`
	Status         string          `gorm:"size:20;not null;index" json:"status" validate:"required,oneof=pending processing completed rejected"`
	TanggalRequest time.Time       `json:"tanggalRequest"`
	TanggalProses  *time.Time      `json:"tanggalProses"`
	CatatanAdmin   string          `gorm:"type:text" json:"catatanAdmin"`
	BuktiTransfer  string          `gorm:"size:255" json:"buktiTransfer"`
	DiprosesOleh   *string         `gorm:"size:36" json:"diprosesOleh"`
	IsDeleted      bool            `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (PenarikanSaldo) TableName() string {
	return "penarikan_saldo"
}

func (p *PenarikanSaldo) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = consts.PenarikanPending
	}
	if p.TanggalRequest.IsZero() {
		p.TanggalRequest = time.Now()
	}

	return Validate(p)
}

var transisiPenarikan = map[string][]string{
	consts.PenarikanPending:    {consts.PenarikanProcessing, consts.PenarikanCompleted, consts.PenarikanRejected},
	consts.PenarikanProcessing: {consts.PenarikanCompleted, consts.PenarikanRejected},
}

func (p PenarikanSaldo) BisaPindahKe(status string) bool {
	for _, s := range transisiPenarikan[p.Status] {
		if s == status {
			return true
		}
	}
	return false
}
