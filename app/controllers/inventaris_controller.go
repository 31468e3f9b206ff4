package controllers

import (
	"net/http"

	"github.com/alirogz/smartfarm/app/models"
	"github.com/alirogz/smartfarm/app/services"
)

func (server *Server) PenggunaanInventarisCreate(w http.ResponseWriter, r *http.Request) {
	var input services.PemakaianInput
	if err := decodeJSON(r, &input); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format penggunaan inventaris tidak valid", err)
		return
	}
	if err := models.Validate(input); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Inventaris wajib diisi", err)
		return
	}

	penggunaan, err := server.inventaris.Use(r.Context(), CurrentUser(r).ID, input)
	if err != nil {
		server.failService(w, r, "Gagal mencatat penggunaan inventaris", err)
		return
	}

	server.cache.Delete("inventaris")
	server.respond(w, http.StatusCreated, "Penggunaan inventaris dicatat", penggunaan)
}
