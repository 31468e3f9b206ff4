package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PenarikanConfig struct {
	BiayaAdmin   decimal.Decimal
	MinPenarikan decimal.Decimal
	UploadDir    string
}

type PenarikanService struct {
	db    *gorm.DB
	saldo *SaldoService
	cfg   PenarikanConfig
}

func NewPenarikanService(db *gorm.DB, saldo *SaldoService, cfg PenarikanConfig) *PenarikanService {
	return &PenarikanService{db: db, saldo: saldo, cfg: cfg}
}

// Request membuat penarikan pending dan langsung memotong saldo.
func (s *PenarikanService) Request(ctx context.Context, userID string, rekeningBankID string, jumlah decimal.Decimal) (*models.PenarikanSaldo, error) {
	const op = "services.PenarikanService.Request"

	if !jumlah.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrJumlahTidakValid)
	}
	if jumlah.LessThan(s.cfg.MinPenarikan) {
		return nil, fmt.Errorf("%s: %w", op, ErrDiBawahMinimum)
	}

	diterima := jumlah.Sub(s.cfg.BiayaAdmin)
	if !diterima.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrJumlahTidakValid)
	}

	penarikan := &models.PenarikanSaldo{
		UserID:         userID,
		RekeningBankID: rekeningBankID,
		JumlahDiminta:  jumlah,
		BiayaAdmin:     s.cfg.BiayaAdmin,
		JumlahDiterima: diterima,
		Status:         consts.PenarikanPending,
		TanggalRequest: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rekening, err := (&models.RekeningBank{}).FindByID(tx, rekeningBankID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTidakDitemukan
		}
		if err != nil {
			return fmt.Errorf("cari rekening: %w", err)
		}
		if rekening.UserID != userID {
			return ErrBukanPemilik
		}

		if err = tx.Create(penarikan).Error; err != nil {
			return fmt.Errorf("insert penarikan: %w", err)
		}

		_, err = s.saldo.ApplyTx(tx, Mutasi{
			UserID:         userID,
			TipeTransaksi:  consts.MutasiPenarikanSaldo,
			Jumlah:         jumlah,
			ReferensiTabel: consts.TabelPenarikanSaldo,
			ReferensiID:    penarikan.ID,
			Keterangan:     "penarikan saldo ke " + rekening.NamaBank + " " + rekening.NomorRekening,
		})
		if err != nil {
			return err
		}

		return models.CreateLog(tx, userID, consts.TabelPenarikanSaldo, consts.LogCreate, penarikan.ID, "request penarikan "+jumlah.StringFixed(2))
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return penarikan, nil
}

// Proses menandai penarikan sedang ditransfer admin.
func (s *PenarikanService) Proses(ctx context.Context, id string, adminID string, catatan string) (*models.PenarikanSaldo, error) {
	return s.transisi(ctx, "services.PenarikanService.Proses", id, adminID, consts.PenarikanProcessing, catatan, nil, nil)
}

// Complete menyelesaikan penarikan. bukti boleh nil.
func (s *PenarikanService) Complete(ctx context.Context, id string, adminID string, catatan string, bukti io.Reader) (*models.PenarikanSaldo, error) {
	return s.transisi(ctx, "services.PenarikanService.Complete", id, adminID, consts.PenarikanCompleted, catatan, bukti, nil)
}

// Reject menolak penarikan dan mengembalikan saldo.
func (s *PenarikanService) Reject(ctx context.Context, id string, adminID string, catatan string) (*models.PenarikanSaldo, error) {
	return s.transisi(ctx, "services.PenarikanService.Reject", id, adminID, consts.PenarikanRejected, catatan, nil, nil)
}

// Cancel dibatalkan pemilik selama masih pending, dicatat sebagai rejected.
func (s *PenarikanService) Cancel(ctx context.Context, id string, userID string) (*models.PenarikanSaldo, error) {
	return s.transisi(ctx, "services.PenarikanService.Cancel", id, userID, consts.PenarikanRejected, "dibatalkan oleh pengguna", nil,
		func(p *models.PenarikanSaldo) error {
			if p.UserID != userID {
				return ErrBukanPemilik
			}
			if p.Status != consts.PenarikanPending {
				return ErrTransisiTidakValid
			}
			return nil
		})
}

func (s *PenarikanService) transisi(ctx context.Context, op string, id string, aktorID string, status string, catatan string, bukti io.Reader, syarat func(*models.PenarikanSaldo) error) (*models.PenarikanSaldo, error) {
	var penarikan models.PenarikanSaldo
	var fileBukti string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := forUpdate(tx).Where("id = ? AND is_deleted = ?", id, false).First(&penarikan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTidakDitemukan
		}
		if err != nil {
			return fmt.Errorf("lock penarikan: %w", err)
		}

		if syarat != nil {
			if err = syarat(&penarikan); err != nil {
				return err
			}
		}
		if !penarikan.BisaPindahKe(status) {
			return ErrTransisiTidakValid
		}

		now := time.Now()
		penarikan.Status = status
		penarikan.TanggalProses = &now
		penarikan.DiprosesOleh = &aktorID
		penarikan.CatatanAdmin = catatan

		updates := map[string]interface{}{
			"status":         status,
			"tanggal_proses": &now,
			"diproses_oleh":  &aktorID,
			"catatan_admin":  catatan,
		}

		if bukti != nil {
			fileBukti, err = SimpanBuktiTransfer(s.cfg.UploadDir, penarikan.ID, bukti)
			if err != nil {
				return err
			}
			penarikan.BuktiTransfer = fileBukti
			updates["bukti_transfer"] = fileBukti
		}

		err = tx.Model(&models.PenarikanSaldo{}).Where("id = ?", penarikan.ID).Updates(updates).Error
		if err != nil {
			return fmt.Errorf("update penarikan: %w", err)
		}

		if status == consts.PenarikanRejected {
			_, err = s.saldo.ApplyTx(tx, Mutasi{
				UserID:         penarikan.UserID,
				TipeTransaksi:  consts.MutasiPenarikanDibatalkanKembali,
				Jumlah:         penarikan.JumlahDiminta,
				ReferensiTabel: consts.TabelPenarikanSaldo,
				ReferensiID:    penarikan.ID,
				Keterangan:     catatan,
			})
			if err != nil {
				return err
			}
		}

		return models.CreateLog(tx, aktorID, consts.TabelPenarikanSaldo, consts.LogUpdate, penarikan.ID, "status "+status)
	})
	if err != nil {
		if fileBukti != "" {
			_ = os.Remove(filepath.Join(s.cfg.UploadDir, fileBukti))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &penarikan, nil
}

func (s *PenarikanService) Get(ctx context.Context, id string) (*models.PenarikanSaldo, error) {
	var penarikan models.PenarikanSaldo

	err := s.db.WithContext(ctx).Preload("RekeningBank").Where("id = ? AND is_deleted = ?", id, false).First(&penarikan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTidakDitemukan
	}
	if err != nil {
		return nil, err
	}

	return &penarikan, nil
}

// List semua penarikan kalau userID kosong (admin), selain itu hanya milik user.
func (s *PenarikanService) List(ctx context.Context, userID string) ([]models.PenarikanSaldo, error) {
	const op = "services.PenarikanService.List"

	var penarikan []models.PenarikanSaldo

	q := s.db.WithContext(ctx).Preload("RekeningBank").Where("is_deleted = ?", false)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}

	if err := q.Order("created_at desc").Find(&penarikan).Error; err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return penarikan, nil
}
