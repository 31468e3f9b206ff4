package services

import (
	"errors"

	"github.com/alirogz/smartfarm/app/models"
)

var (
	ErrTidakDitemukan       = errors.New("data tidak ditemukan")
	ErrBukanPemilik         = errors.New("data bukan milik pengguna")
	ErrJumlahTidakValid     = errors.New("jumlah harus lebih dari nol")
	ErrTipeMutasiTidakValid = errors.New("tipe transaksi tidak dikenal")
	ErrSaldoTidakCukup      = errors.New("saldo tidak cukup")
	ErrMutasiDuplikat       = errors.New("mutasi untuk referensi ini sudah tercatat")
	ErrMutasiImmutable      = models.ErrMutasiImmutable
	ErrTransisiTidakValid   = errors.New("perubahan status tidak diizinkan")
	ErrDiBawahMinimum       = errors.New("jumlah penarikan di bawah minimum")
	ErrStokTidakCukup       = errors.New("stok tidak cukup")
	ErrPesananKosong        = errors.New("pesanan tidak memiliki item")
	ErrTokoBerbeda          = errors.New("satu pesanan hanya boleh dari satu toko")
	ErrSudahDibayar         = errors.New("pesanan sudah dibayar")
	ErrSudahDirefund        = errors.New("pesanan sudah direfund")
	ErrBelumDibayar         = errors.New("pesanan belum dibayar")
)
