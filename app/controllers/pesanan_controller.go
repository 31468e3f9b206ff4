package controllers

import (
	"net/http"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/alirogz/smartfarm/app/services"
	"github.com/gorilla/mux"
)

type bayarRequest struct {
	Metode    string `json:"metode"`
	Referensi string `json:"referensi"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=diterima selesai ditolak expired"`
}

func (server *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	var input services.CheckoutInput
	if err := decodeJSON(r, &input); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format pesanan tidak valid", err)
		return
	}
	if err := models.Validate(input); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Item pesanan tidak valid", err)
		return
	}

	pesanan, err := server.pesanan.Checkout(r.Context(), CurrentUser(r).ID, input)
	if err != nil {
		server.failService(w, r, "Gagal membuat pesanan", err)
		return
	}

	server.respond(w, http.StatusCreated, "Pesanan berhasil dibuat", pesanan)
}

// PesananIndex pembeli melihat pesanannya sendiri, admin melihat semua.
func (server *Server) PesananIndex(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	userID := user.ID
	if user.IsAdmin() {
		userID = r.URL.Query().Get("userId")
	}

	pesanan, err := server.pesanan.List(r.Context(), userID)
	if err != nil {
		server.failService(w, r, "Gagal mengambil data pesanan", err)
		return
	}

	server.respond(w, http.StatusOK, "Berhasil mengambil data pesanan", pesanan)
}

func (server *Server) ShowPesanan(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	pesanan, err := server.pesanan.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		server.failService(w, r, "Gagal mengambil data pesanan", err)
		return
	}

	penjual := pesanan.Toko != nil && pesanan.Toko.UserID == user.ID
	if pesanan.UserID != user.ID && !penjual && !user.IsAdmin() {
		server.fail(w, r, http.StatusForbidden, "Pesanan bukan milik Anda", services.ErrBukanPemilik)
		return
	}

	server.respond(w, http.StatusOK, "Berhasil mengambil data pesanan", map[string]interface{}{
		"pesanan":     pesanan,
		"statusLabel": pesanan.StatusLabel(),
	})
}

func (server *Server) BayarPesanan(w http.ResponseWriter, r *http.Request) {
	var req bayarRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			server.fail(w, r, http.StatusBadRequest, "Format pembayaran tidak valid", err)
			return
		}
	}

	pembayaran, err := server.pesanan.Pay(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID, req.Metode, req.Referensi)
	if err != nil {
		server.failService(w, r, "Gagal membayar pesanan", err)
		return
	}

	server.respond(w, http.StatusCreated, "Pembayaran berhasil dicatat", pembayaran)
}

func (server *Server) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format status tidak valid", err)
		return
	}
	if err := models.Validate(req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Status tidak valid", err)
		return
	}

	pesanan, err := server.pesanan.UpdateStatus(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID, req.Status)
	if err != nil {
		server.failService(w, r, "Gagal mengubah status pesanan", err)
		return
	}

	server.respond(w, http.StatusCreated, "Status pesanan berhasil diperbarui", pesanan)
}

func (server *Server) AdminRefund(w http.ResponseWriter, r *http.Request) {
	pesanan, err := server.pesanan.Refund(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID)
	if err != nil {
		server.failService(w, r, "Gagal refund pesanan", err)
		return
	}

	server.respond(w, http.StatusCreated, "Refund pesanan berhasil", pesanan)
}
