package services

import (
	"context"
	"errors"
	"testing"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/shopspring/decimal"
)

func TestSaldoApplyCreditDanDebit(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	ctx := context.Background()
	user := buatUser(t, db, consts.RolePenjual)

	kredit, err := svc.Apply(ctx, Mutasi{
		UserID:        user.ID,
		TipeTransaksi: consts.MutasiPendapatanMasukPenjual,
		Jumlah:        decimal.NewFromInt(50000),
	})
	if err != nil {
		t.Fatalf("apply kredit failed: %v", err)
	}
	if !kredit.Jumlah.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("jumlah kredit want 50000 got %s", kredit.Jumlah)
	}
	if !kredit.SaldoSebelum.IsZero() || !kredit.SaldoSesudah.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("snapshot kredit salah: %s -> %s", kredit.SaldoSebelum, kredit.SaldoSesudah)
	}

	debit, err := svc.Apply(ctx, Mutasi{
		UserID:        user.ID,
		TipeTransaksi: consts.MutasiPenarikanSaldo,
		Jumlah:        decimal.NewFromInt(20000),
	})
	if err != nil {
		t.Fatalf("apply debit failed: %v", err)
	}
	if !debit.Jumlah.Equal(decimal.NewFromInt(-20000)) {
		t.Fatalf("jumlah debit harus negatif, got %s", debit.Jumlah)
	}
	if !debit.SaldoSebelum.Add(debit.Jumlah).Equal(debit.SaldoSesudah) {
		t.Fatalf("saldoSesudah != saldoSebelum + jumlah")
	}

	cekSaldo(t, svc, user.ID, 30000)
}

func TestSaldoApplyTolakInputTidakValid(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	user := buatUser(t, db, consts.RolePembeli)

	tests := []struct {
		name string
		m    Mutasi
		want error
	}{
		{
			name: "jumlah nol",
			m:    Mutasi{UserID: user.ID, TipeTransaksi: consts.MutasiRefundMasuk, Jumlah: decimal.Zero},
			want: ErrJumlahTidakValid,
		},
		{
			name: "jumlah negatif",
			m:    Mutasi{UserID: user.ID, TipeTransaksi: consts.MutasiRefundMasuk, Jumlah: decimal.NewFromInt(-5)},
			want: ErrJumlahTidakValid,
		},
		{
			name: "tipe tidak dikenal",
			m:    Mutasi{UserID: user.ID, TipeTransaksi: "bonus", Jumlah: decimal.NewFromInt(5)},
			want: ErrTipeMutasiTidakValid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(context.Background(), tt.m)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v got %v", tt.want, err)
			}
		})
	}
}

func TestSaldoDebitMelebihiSaldoTidakMenulisApapun(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	user := buatUser(t, db, consts.RolePenjual)
	isiSaldo(t, svc, user.ID, 10000)

	_, err := svc.Apply(context.Background(), Mutasi{
		UserID:        user.ID,
		TipeTransaksi: consts.MutasiPenarikanSaldo,
		Jumlah:        decimal.NewFromInt(10001),
	})
	if !errors.Is(err, ErrSaldoTidakCukup) {
		t.Fatalf("want ErrSaldoTidakCukup got %v", err)
	}

	cekSaldo(t, svc, user.ID, 10000)

	var count int64
	if err := db.Model(&models.MutasiSaldoUser{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count mutasi failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("mutasi rows want 1 got %d", count)
	}
}

func TestSaldoReferensiSamaDitolak(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	user := buatUser(t, db, consts.RolePenjual)

	m := Mutasi{
		UserID:         user.ID,
		TipeTransaksi:  consts.MutasiPendapatanMasukPenjual,
		Jumlah:         decimal.NewFromInt(7500),
		ReferensiTabel: consts.TabelPendapatan,
		ReferensiID:    "pendapatan-1",
	}
	if _, err := svc.Apply(context.Background(), m); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, err := svc.Apply(context.Background(), m); !errors.Is(err, ErrMutasiDuplikat) {
		t.Fatalf("want ErrMutasiDuplikat got %v", err)
	}

	cekSaldo(t, svc, user.ID, 7500)
}

func TestMutasiTidakBisaDiubahAtauDihapus(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	user := buatUser(t, db, consts.RolePenjual)

	mutasi, err := svc.Apply(context.Background(), Mutasi{
		UserID:        user.ID,
		TipeTransaksi: consts.MutasiRefundMasuk,
		Jumlah:        decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if err := db.Model(mutasi).Update("keterangan", "diubah").Error; !errors.Is(err, ErrMutasiImmutable) {
		t.Fatalf("update want ErrMutasiImmutable got %v", err)
	}
	if err := db.Delete(mutasi).Error; !errors.Is(err, ErrMutasiImmutable) {
		t.Fatalf("delete want ErrMutasiImmutable got %v", err)
	}
}

func TestSaldoTransferAtomik(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	penjual := buatUser(t, db, consts.RolePenjual)
	pembeli := buatUser(t, db, consts.RolePembeli)
	isiSaldo(t, svc, penjual.ID, 5000)

	debit := Mutasi{UserID: penjual.ID, TipeTransaksi: consts.MutasiRefundKePembeli, Jumlah: decimal.NewFromInt(8000)}
	kredit := Mutasi{UserID: pembeli.ID, TipeTransaksi: consts.MutasiRefundMasuk, Jumlah: decimal.NewFromInt(8000)}

	if err := svc.Transfer(context.Background(), debit, kredit); !errors.Is(err, ErrSaldoTidakCukup) {
		t.Fatalf("want ErrSaldoTidakCukup got %v", err)
	}
	cekSaldo(t, svc, penjual.ID, 5000)
	cekSaldo(t, svc, pembeli.ID, 0)

	debit.Jumlah = decimal.NewFromInt(3000)
	kredit.Jumlah = decimal.NewFromInt(3000)
	if err := svc.Transfer(context.Background(), debit, kredit); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}
	cekSaldo(t, svc, penjual.ID, 2000)
	cekSaldo(t, svc, pembeli.ID, 3000)

	// arah tipe terbalik ditolak
	if err := svc.Transfer(context.Background(), kredit, debit); !errors.Is(err, ErrTipeMutasiTidakValid) {
		t.Fatalf("want ErrTipeMutasiTidakValid got %v", err)
	}
}

func TestSaldoReconcile(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)
	user := buatUser(t, db, consts.RolePenjual)
	isiSaldo(t, svc, user.ID, 12000)
	isiSaldo(t, svc, user.ID, 3000)

	rek, err := svc.Reconcile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if !rek.Konsisten || rek.JumlahMutasi != 2 {
		t.Fatalf("reconcile want konsisten with 2 mutasi, got %+v", rek)
	}

	// saldo diubah langsung tanpa mutasi
	if err := db.Model(&models.SaldoUser{}).Where("user_id = ?", user.ID).Update("saldo_tersedia", decimal.NewFromInt(20000)).Error; err != nil {
		t.Fatalf("tamper saldo failed: %v", err)
	}

	rek, err = svc.Reconcile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if rek.Konsisten || !rek.Selisih.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("reconcile want selisih 5000, got %+v", rek)
	}
}

func TestGetSaldoUserBaru(t *testing.T) {
	db := setupServiceTest(t)
	svc := NewSaldoService(db)

	saldo, err := svc.GetSaldo(context.Background(), "belum-ada")
	if err != nil {
		t.Fatalf("get saldo failed: %v", err)
	}
	if !saldo.SaldoTersedia.IsZero() {
		t.Fatalf("saldo user baru harus nol, got %s", saldo.SaldoTersedia)
	}
}
