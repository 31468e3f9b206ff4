package controllers

import (
	"errors"
	"net/http"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

func (server *Server) produkResource() resource[models.Produk] {
	return resource[models.Produk]{
		server: server,
		label:  "produk",
		table:  "produk",
		write:  server.RequireLogin,
		owner:  pemilikProduk,
	}
}

// pemilikProduk pemilik produk adalah pemilik tokonya.
func pemilikProduk(db *gorm.DB, produk *models.Produk) (string, error) {
	var toko models.Toko

	err := db.Where("id = ? AND is_deleted = ?", produk.TokoID, false).First(&toko).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return toko.UserID, nil
}

// Produk GET /produk dengan pagination ?page=&perPage=
func (server *Server) Produk(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	produkModel := models.Produk{}
	produk, totalRows, err := produkModel.GetProduk(server.DB.WithContext(r.Context()), perPage, page)
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal mengambil data produk", err)
		return
	}

	pagination := GetPaginationLinks(server.AppConfig, PaginationParams{
		Path:        "produk",
		TotalRows:   totalRows,
		PerPage:     perPage,
		CurrentPage: page,
	})

	server.respondPage(w, "Berhasil mengambil data produk", produk, pagination)
}

func (server *Server) GetProdukBySlug(w http.ResponseWriter, r *http.Request) {
	slugStr := mux.Vars(r)["slug"]

	produkModel := models.Produk{}
	produk, err := produkModel.FindBySlug(server.DB.WithContext(r.Context()), slugStr)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		server.fail(w, r, http.StatusNotFound, "Produk tidak ditemukan", err)
		return
	}
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal mengambil data produk", err)
		return
	}

	server.respond(w, http.StatusOK, "Berhasil mengambil data produk", produk)
}
