package controllers

import (
	"net/http"
)

func (server *Server) SaldoShow(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	saldo, err := server.saldo.GetSaldo(r.Context(), user.ID)
	if err != nil {
		server.failService(w, r, "Gagal mengambil saldo", err)
		return
	}

	server.respond(w, http.StatusOK, "Berhasil mengambil saldo", saldo)
}

func (server *Server) SaldoMutasi(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	page, perPage := pageParams(r)

	mutasi, total, err := server.saldo.ListMutasi(r.Context(), user.ID, perPage, page)
	if err != nil {
		server.failService(w, r, "Gagal mengambil mutasi saldo", err)
		return
	}

	pagination := GetPaginationLinks(server.AppConfig, PaginationParams{
		Path:        "saldo/mutasi",
		TotalRows:   total,
		PerPage:     perPage,
		CurrentPage: page,
	})

	server.respondPage(w, "Berhasil mengambil mutasi saldo", mutasi, pagination)
}

// SaldoReconcile admin boleh cek user lain lewat ?userId=
func (server *Server) SaldoReconcile(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	userID := user.ID
	if other := r.URL.Query().Get("userId"); other != "" && other != user.ID {
		if !user.IsAdmin() {
			server.fail(w, r, http.StatusForbidden, "Akses khusus penanggung jawab", nil)
			return
		}
		userID = other
	}

	rekonsiliasi, err := server.saldo.Reconcile(r.Context(), userID)
	if err != nil {
		server.failService(w, r, "Gagal rekonsiliasi saldo", err)
		return
	}
	if !rekonsiliasi.Konsisten {
		server.Log.Warn("saldo tidak konsisten",
			"userId", userID,
			"selisih", rekonsiliasi.Selisih.String())
	}

	server.respond(w, http.StatusOK, "Rekonsiliasi saldo selesai", rekonsiliasi)
}
