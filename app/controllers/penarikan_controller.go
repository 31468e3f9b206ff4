package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type penarikanRequest struct {
	RekeningBankID string          `json:"rekeningBankId" validate:"required"`
	JumlahDiminta  decimal.Decimal `json:"jumlahDiminta"`
}

type catatanRequest struct {
	Catatan string `json:"catatan"`
}

const maxUploadBukti = 10 << 20

func (server *Server) PenarikanIndex(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)

	userID := user.ID
	if user.IsAdmin() && r.URL.Query().Get("semua") == "1" {
		userID = ""
	}

	penarikan, err := server.penarikan.List(r.Context(), userID)
	if err != nil {
		server.failService(w, r, "Gagal mengambil data penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusOK, "Berhasil mengambil data penarikan saldo", penarikan)
}

func (server *Server) PenarikanCreate(w http.ResponseWriter, r *http.Request) {
	var req penarikanRequest
	if err := decodeJSON(r, &req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format penarikan tidak valid", err)
		return
	}
	if err := models.Validate(req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Rekening bank wajib diisi", err)
		return
	}

	penarikan, err := server.penarikan.Request(r.Context(), CurrentUser(r).ID, req.RekeningBankID, req.JumlahDiminta)
	if err != nil {
		server.failService(w, r, "Gagal mengajukan penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusCreated, "Penarikan saldo diajukan", penarikan)
}

func (server *Server) PenarikanCancel(w http.ResponseWriter, r *http.Request) {
	penarikan, err := server.penarikan.Cancel(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID)
	if err != nil {
		server.failService(w, r, "Gagal membatalkan penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusCreated, "Penarikan saldo dibatalkan", penarikan)
}

func (server *Server) AdminPenarikanProses(w http.ResponseWriter, r *http.Request) {
	catatan, err := readCatatan(r)
	if err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format catatan tidak valid", err)
		return
	}

	penarikan, err := server.penarikan.Proses(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID, catatan)
	if err != nil {
		server.failService(w, r, "Gagal memproses penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusCreated, "Penarikan saldo diproses", penarikan)
}

// AdminPenarikanSelesai menerima JSON {catatan} atau multipart dengan file "bukti".
func (server *Server) AdminPenarikanSelesai(w http.ResponseWriter, r *http.Request) {
	var catatan string
	var bukti io.Reader

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBukti); err != nil {
			server.fail(w, r, http.StatusBadRequest, "Gagal membaca form bukti transfer", err)
			return
		}
		catatan = r.FormValue("catatan")

		file, _, err := r.FormFile("bukti")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			server.fail(w, r, http.StatusBadRequest, "Gagal membaca file bukti transfer", err)
			return
		}
		if file != nil {
			defer file.Close()
			bukti = file
		}
	} else {
		var err error
		if catatan, err = readCatatan(r); err != nil {
			server.fail(w, r, http.StatusBadRequest, "Format catatan tidak valid", err)
			return
		}
	}

	penarikan, err := server.penarikan.Complete(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID, catatan, bukti)
	if err != nil {
		server.failService(w, r, "Gagal menyelesaikan penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusCreated, "Penarikan saldo selesai", penarikan)
}

func (server *Server) AdminPenarikanTolak(w http.ResponseWriter, r *http.Request) {
	catatan, err := readCatatan(r)
	if err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format catatan tidak valid", err)
		return
	}

	penarikan, err := server.penarikan.Reject(r.Context(), mux.Vars(r)["id"], CurrentUser(r).ID, catatan)
	if err != nil {
		server.failService(w, r, "Gagal menolak penarikan saldo", err)
		return
	}

	server.respond(w, http.StatusCreated, "Penarikan saldo ditolak", penarikan)
}

// readCatatan body kosong dianggap tanpa catatan.
func readCatatan(r *http.Request) (string, error) {
	var req catatanRequest
	if r.Body == nil || r.ContentLength == 0 {
		return "", nil
	}

	if err := decodeJSON(r, &req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}

	return req.Catatan, nil
}
