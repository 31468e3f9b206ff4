package models

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Model struct {
	Model interface{}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// decimal dibandingkan sebagai float supaya tag gt/gte/required bisa dipakai
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// RegisterModels urutan penting: tabel induk dulu baru tabel yang punya foreign key.
func RegisterModels() []Model {
	return []Model{
		{Model: User{}},
		{Model: JenisBudidaya{}},
		{Model: UnitBudidaya{}},
		{Model: Laporan{}},
		{Model: KategoriInventaris{}},
		{Model: Satuan{}},
		{Model: Inventaris{}},
		{Model: PenggunaanInventaris{}},
		{Model: Toko{}},
		{Model: Produk{}},
		{Model: Pesanan{}},
		{Model: PesananItem{}},
		{Model: Pembayaran{}},
		{Model: Pendapatan{}},
		{Model: RekeningBank{}},
		{Model: SaldoUser{}},
		{Model: MutasiSaldoUser{}},
		{Model: PenarikanSaldo{}},
		{Model: Log{}},
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

// Validate menjalankan aturan tag `validate` pada struct.
func Validate(v interface{}) error {
	return validate.Struct(v)
}
