package consts

// Role pengguna
const (
	RolePenanggungJawab = "pjawab"
	RolePetugas         = "petugas"
	RoleInventor        = "inventor"
	RolePenjual         = "penjual"
	RolePembeli         = "pembeli"
)

// Status pesanan
const (
	PesananMenunggu = "menunggu"
	PesananDiterima = "diterima"
	PesananSelesai  = "selesai"
	PesananDitolak  = "ditolak"
	PesananExpired  = "expired"
)

// Status penarikan saldo
const (
	PenarikanPending    = "pending"
	PenarikanProcessing = "processing"
	PenarikanCompleted  = "completed"
	PenarikanRejected   = "rejected"
)

// Status pembayaran
const (
	PembayaranPending  = "pending"
	PembayaranBerhasil = "berhasil"
	PembayaranGagal    = "gagal"
)

// Tipe transaksi mutasi saldo
const (
	MutasiPendapatanMasukPenjual     = "pendapatan_masuk_penjual"
	MutasiPenarikanSaldo             = "penarikan_saldo"
	MutasiRefundMasuk                = "refund_masuk"
	MutasiPenarikanDibatalkanKembali = "penarikan_dibatalkan_dikembalikan"
	MutasiRefundKePembeli            = "refund_ke_pembeli"
)

// Status toko
const (
	TokoRequest = "request"
	TokoPending = "pending"
	TokoActive  = "active"
	TokoDelete  = "delete"
)

// Ketersediaan inventaris
const (
	InventarisTersedia      = "tersedia"
	InventarisTidakTersedia = "tidak tersedia"
	InventarisKadaluwarsa   = "kadaluwarsa"
)

// Nama tabel yang dipakai sebagai referensi polimorfik di mutasi saldo
const (
	TabelPendapatan     = "pendapatan"
	TabelPenarikanSaldo = "penarikan_saldo"
	TabelPesanan        = "pesanan"
)

// Aksi untuk tabel logs
const (
	LogCreate = "create"
	LogUpdate = "update"
	LogDelete = "delete"
)
