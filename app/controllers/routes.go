package controllers

import (
	"net/http"

	"github.com/alirogz/smartfarm/app/logger"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func (server *Server) initializeRoutes() {
	server.Router = mux.NewRouter()
	server.Router.Use(middleware.RequestID)
	server.Router.Use(middleware.RealIP)
	server.Router.Use(logger.Middleware(server.Log))
	server.Router.Use(middleware.Recoverer)

	server.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		server.fail(w, r, http.StatusNotFound, "Endpoint tidak ditemukan", nil)
	})

	server.Router.HandleFunc("/healthz", server.Health).Methods("GET")

	// AUTH
	server.Router.HandleFunc("/auth/login", server.Login).Methods("POST")
	server.Router.HandleFunc("/auth/logout", server.Logout).Methods("POST")
	server.Router.HandleFunc("/auth/register", server.Register).Methods("POST")
	server.Router.HandleFunc("/auth/me", server.RequireLogin(server.Me)).Methods("GET")

	// =======================
	//      MASTER & CRUD
	// =======================
	server.userResource().register(server.Router, "/users")
	resource[models.JenisBudidaya]{server: server, label: "jenis budidaya", table: "jenis_budidaya", cached: true}.
		register(server.Router, "/jenisBudidaya")
	resource[models.UnitBudidaya]{server: server, label: "unit budidaya", table: "unit_budidaya", preload: []string{"JenisBudidaya"}}.
		register(server.Router, "/unitBudidaya")
	resource[models.Laporan]{server: server, label: "laporan", table: "laporan", preload: []string{"UnitBudidaya"}}.
		register(server.Router, "/laporan")
	resource[models.KategoriInventaris]{server: server, label: "kategori inventaris", table: "kategori_inventaris", cached: true}.
		register(server.Router, "/kategoriInventaris")
	resource[models.Satuan]{server: server, label: "satuan", table: "satuan", cached: true}.
		register(server.Router, "/satuan")
	resource[models.Inventaris]{server: server, label: "inventaris", table: "inventaris", preload: []string{"KategoriInventaris", "Satuan"}}.
		register(server.Router, "/inventaris")

	// toko dan rekening bank hanya boleh diubah pemiliknya (atau admin)
	tokoUser := func(t *models.Toko) *string { return &t.UserID }
	resource[models.Toko]{
		server:  server,
		label:   "toko",
		table:   "toko",
		prepare: ownedByCurrentUser(tokoUser),
		write:   server.RequireLogin,
		owner:   ownerField(tokoUser),
	}.register(server.Router, "/toko")

	rekeningUser := func(rb *models.RekeningBank) *string { return &rb.UserID }
	resource[models.RekeningBank]{
		server:  server,
		label:   "rekening bank",
		table:   "rekening_bank",
		prepare: ownedByCurrentUser(rekeningUser),
		read:    server.RequireLogin,
		write:   server.RequireLogin,
		owner:   ownerField(rekeningUser),
		scope:   "user_id",
	}.register(server.Router, "/rekeningBank")

	// PRODUK: list pakai pagination, sisanya CRUD biasa
	produk := server.produkResource()
	server.Router.HandleFunc("/produk", server.Produk).Methods("GET")
	server.Router.HandleFunc("/produk", wrap(produk.write, produk.create)).Methods("POST")
	server.Router.HandleFunc("/produk/slug/{slug}", server.GetProdukBySlug).Methods("GET")
	server.Router.HandleFunc("/produk/{id}", produk.get).Methods("GET")
	server.Router.HandleFunc("/produk/{id}", wrap(produk.write, produk.update)).Methods("PUT")
	server.Router.HandleFunc("/produk/{id}", wrap(produk.write, produk.remove)).Methods("DELETE")

	// read-only
	resource[models.Pendapatan]{server: server, label: "pendapatan", table: "pendapatan"}.
		registerReadOnly(server.Router, "/pendapatan")
	resource[models.Log]{server: server, label: "log", table: "logs", read: server.RequireAdmin}.
		registerReadOnly(server.Router, "/logs")
	resource[models.Pembayaran]{server: server, label: "pembayaran", table: "pembayaran"}.
		registerReadOnly(server.Router, "/pembayaran")

	// =======================
	//      SALDO
	// =======================
	server.Router.HandleFunc("/saldo", server.RequireLogin(server.SaldoShow)).Methods("GET")
	server.Router.HandleFunc("/saldo/mutasi", server.RequireLogin(server.SaldoMutasi)).Methods("GET")
	server.Router.HandleFunc("/saldo/reconcile", server.RequireLogin(server.SaldoReconcile)).Methods("GET")

	server.Router.HandleFunc("/penarikanSaldo", server.RequireLogin(server.PenarikanIndex)).Methods("GET")
	server.Router.HandleFunc("/penarikanSaldo", server.RequireLogin(server.PenarikanCreate)).Methods("POST")
	server.Router.HandleFunc("/penarikanSaldo/{id}/cancel", server.RequireLogin(server.PenarikanCancel)).Methods("POST")
	server.Router.HandleFunc("/penarikanSaldo/{id}/proses", server.RequireAdmin(server.AdminPenarikanProses)).Methods("POST")
	server.Router.HandleFunc("/penarikanSaldo/{id}/selesai", server.RequireAdmin(server.AdminPenarikanSelesai)).Methods("POST")
	server.Router.HandleFunc("/penarikanSaldo/{id}/tolak", server.RequireAdmin(server.AdminPenarikanTolak)).Methods("POST")

	// =======================
	//      PESANAN
	// =======================
	server.Router.HandleFunc("/pesanan", server.RequireLogin(server.Checkout)).Methods("POST")
	server.Router.HandleFunc("/pesanan", server.RequireLogin(server.PesananIndex)).Methods("GET")
	server.Router.HandleFunc("/pesanan/{id}", server.RequireLogin(server.ShowPesanan)).Methods("GET")
	server.Router.HandleFunc("/pesanan/{id}/bayar", server.RequireLogin(server.BayarPesanan)).Methods("POST")
	server.Router.HandleFunc("/pesanan/{id}/status", server.RequireAdmin(server.AdminUpdateStatus)).Methods("PUT")
	server.Router.HandleFunc("/pesanan/{id}/refund", server.RequireAdmin(server.AdminRefund)).Methods("POST")

	server.Router.HandleFunc("/penggunaanInventaris", server.RequireLogin(server.PenggunaanInventarisCreate)).Methods("POST")

	// UPLOADS (bukti transfer penarikan)
	uploadHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(server.AppConfig.UploadDir)))
	server.Router.PathPrefix("/uploads/").Handler(uploadHandler).Methods("GET")
}

func (server *Server) Health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := server.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		server.fail(w, r, http.StatusServiceUnavailable, "Database tidak tersedia", err)
		return
	}

	server.respond(w, http.StatusOK, "ok", map[string]string{
		"app": server.AppConfig.AppName,
		"env": server.AppConfig.AppEnv,
	})
}

// ownedByCurrentUser mengisi userId dengan user yang login. Non-admin selalu dipaksa ke dirinya sendiri.
func ownedByCurrentUser[T any](field func(*T) *string) func(*http.Request, *T) error {
	return func(r *http.Request, item *T) error {
		user := CurrentUser(r)
		if user == nil {
			return nil
		}

		userID := field(item)
		if *userID == "" || !user.IsAdmin() {
			*userID = user.ID
		}
		return nil
	}
}

func ownerField[T any](field func(*T) *string) func(*gorm.DB, *T) (string, error) {
	return func(_ *gorm.DB, item *T) (string, error) {
		return *field(item), nil
	}
}
