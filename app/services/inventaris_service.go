package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PemakaianInput struct {
	InventarisID string          `json:"inventarisId" validate:"required"`
	LaporanID    *string         `json:"laporanId"`
	Jumlah       decimal.Decimal `json:"jumlah"`
}

type InventarisService struct {
	db *gorm.DB
}

func NewInventarisService(db *gorm.DB) *InventarisService {
	return &InventarisService{db: db}
}

// Use mencatat pemakaian stok inventaris oleh user.
func (s *InventarisService) Use(ctx context.Context, userID string, input PemakaianInput) (*models.PenggunaanInventaris, error) {
	const op = "services.InventarisService.Use"

	if !input.Jumlah.IsPositive() {
		return nil, fmt.Errorf("%s: %w", op, ErrJumlahTidakValid)
	}

	penggunaan := &models.PenggunaanInventaris{
		InventarisID: input.InventarisID,
		LaporanID:    input.LaporanID,
		UserID:       userID,
		Jumlah:       input.Jumlah,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inventaris models.Inventaris
		err := forUpdate(tx).Where("id = ? AND is_deleted = ?", input.InventarisID, false).First(&inventaris).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTidakDitemukan
		}
		if err != nil {
			return fmt.Errorf("lock inventaris: %w", err)
		}

		sisa := inventaris.Jumlah.Sub(input.Jumlah)
		if sisa.IsNegative() {
			return ErrStokTidakCukup
		}

		updates := map[string]interface{}{"jumlah": sisa}
		if sisa.IsZero() {
			updates["ketersediaan"] = consts.InventarisTidakTersedia
		}
		if err = tx.Model(&models.Inventaris{}).Where("id = ?", inventaris.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update inventaris: %w", err)
		}

		if err = tx.Create(penggunaan).Error; err != nil {
			return fmt.Errorf("insert penggunaan: %w", err)
		}

		return models.CreateLog(tx, userID, "penggunaan_inventaris", consts.LogCreate, penggunaan.ID,
			"pakai "+input.Jumlah.String()+" "+inventaris.Nama)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return penggunaan, nil
}
