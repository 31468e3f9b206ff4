package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/alirogz/smartfarm/app/logger"
	"github.com/alirogz/smartfarm/app/services"
	chirender "github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Result struct {
	Message    string           `json:"message"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *PaginationLinks `json:"pagination,omitempty"`
}

type ErrorResult struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

type PaginationLinks struct {
	CurrentPage string `json:"currentPage"`
	NextPage    string `json:"nextPage"`
	PrevPage    string `json:"prevPage"`
	TotalRows   int64  `json:"totalRows"`
	TotalPages  int64  `json:"totalPages"`
}

type PaginationParams struct {
	Path        string
	TotalRows   int64
	PerPage     int
	CurrentPage int
}

func (server *Server) respond(w http.ResponseWriter, status int, message string, data interface{}) {
	_ = server.render.JSON(w, status, Result{Message: message, Data: data})
}

func (server *Server) respondPage(w http.ResponseWriter, message string, data interface{}, links PaginationLinks) {
	_ = server.render.JSON(w, http.StatusOK, Result{Message: message, Data: data, Pagination: &links})
}

// fail menulis envelope error. Error 5xx ikut dicatat ke log.
func (server *Server) fail(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	if status >= http.StatusInternalServerError {
		server.Log.Error(message, logger.Err(err), "path", r.URL.Path)
	}

	_ = server.render.JSON(w, status, ErrorResult{Message: message, Detail: detail})
}

// failService memetakan error sentinel service ke status HTTP.
func (server *Server) failService(w http.ResponseWriter, r *http.Request, message string, err error) {
	server.fail(w, r, statusFor(err), message, err)
}

func statusFor(err error) int {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrTidakDitemukan):
		return http.StatusNotFound
	case errors.Is(err, services.ErrBukanPemilik):
		return http.StatusForbidden
	case errors.Is(err, services.ErrMutasiDuplikat),
		errors.Is(err, services.ErrTransisiTidakValid),
		errors.Is(err, services.ErrSudahDibayar),
		errors.Is(err, services.ErrSudahDirefund),
		errors.Is(err, services.ErrBelumDibayar),
		errors.Is(err, services.ErrMutasiImmutable):
		return http.StatusConflict
	case errors.Is(err, services.ErrSaldoTidakCukup),
		errors.Is(err, services.ErrStokTidakCukup),
		errors.Is(err, services.ErrJumlahTidakValid),
		errors.Is(err, services.ErrDiBawahMinimum),
		errors.Is(err, services.ErrPesananKosong),
		errors.Is(err, services.ErrTokoBerbeda),
		errors.Is(err, services.ErrTipeMutasiTidakValid),
		errors.As(err, &validationErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := chirender.DecodeJSON(r.Body, v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// pageParams membaca ?page dan ?perPage, default 1 dan 20.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))
	if perPage <= 0 || perPage > 100 {
		perPage = 20
	}

	return page, perPage
}

func GetPaginationLinks(config *AppConfig, params PaginationParams) PaginationLinks {
	totalPages := int64(math.Ceil(float64(params.TotalRows) / float64(params.PerPage)))
	current := int64(params.CurrentPage)

	prevPage := int64(1)
	nextPage := totalPages
	if nextPage < 1 {
		nextPage = 1
	}

	if current > 2 {
		prevPage = current - 1
	}
	if current < totalPages {
		nextPage = current + 1
	}

	link := func(page int64) string {
		return fmt.Sprintf("%s/%s?page=%d&perPage=%d", config.AppURL, params.Path, page, params.PerPage)
	}

	return PaginationLinks{
		CurrentPage: link(current),
		NextPage:    link(nextPage),
		PrevPage:    link(prevPage),
		TotalRows:   params.TotalRows,
		TotalPages:  totalPages,
	}
}
