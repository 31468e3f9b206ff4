package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/alirogz/smartfarm/app/services"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// resource handler CRUD generik untuk satu tabel dengan soft delete lewat is_deleted.
type resource[T any] struct {
	server  *Server
	label   string
	table   string
	preload []string
	// cached: list disimpan di go-cache sampai ada perubahan
	cached bool
	// prepare dipanggil sebelum create/update, misal mengisi userId dari session
	prepare func(r *http.Request, item *T) error
	// view dipanggil sebelum item dikirim sebagai response
	view func(item *T)
	// read dan write membungkus handler, misal RequireLogin / RequireAdmin
	read  func(http.HandlerFunc) http.HandlerFunc
	write func(http.HandlerFunc) http.HandlerFunc
	// owner mengembalikan user pemilik item. Kalau diisi, hanya pemilik atau admin yang boleh mengubah.
	owner func(db *gorm.DB, item *T) (string, error)
	// scope kolom pemilik; kalau diisi, list dan get non-admin dibatasi ke milik sendiri
	scope string
}

// kolom yang tidak boleh diubah lewat body PUT
var protectedFields = []string{"id", "createdAt", "updatedAt", "isDeleted"}

func (res resource[T]) register(router *mux.Router, path string) {
	res.registerReadOnly(router, path)
	router.HandleFunc(path, wrap(res.write, res.create)).Methods("POST")
	router.HandleFunc(path+"/{id}", wrap(res.write, res.update)).Methods("PUT")
	router.HandleFunc(path+"/{id}", wrap(res.write, res.remove)).Methods("DELETE")
}

// registerReadOnly hanya GET list dan GET by id.
func (res resource[T]) registerReadOnly(router *mux.Router, path string) {
	router.HandleFunc(path, wrap(res.read, res.list)).Methods("GET")
	router.HandleFunc(path+"/{id}", wrap(res.read, res.get)).Methods("GET")
}

func wrap(guard func(http.HandlerFunc) http.HandlerFunc, h http.HandlerFunc) http.HandlerFunc {
	if guard == nil {
		return h
	}
	return guard(h)
}

// authorize mengecek user yang login adalah pemilik item. Admin boleh semua.
func (res resource[T]) authorize(r *http.Request, item *T) (int, error) {
	if res.owner == nil {
		return 0, nil
	}

	user := CurrentUser(r)
	if user == nil {
		return http.StatusUnauthorized, errTokenInvalid
	}
	if user.IsAdmin() {
		return 0, nil
	}

	ownerID, err := res.owner(res.server.DB.WithContext(r.Context()), item)
	if err != nil {
		return http.StatusInternalServerError, err
	}
	if ownerID != user.ID {
		return http.StatusForbidden, services.ErrBukanPemilik
	}

	return 0, nil
}

func (res resource[T]) deny(w http.ResponseWriter, r *http.Request, status int, err error) {
	message := "Data " + res.label + " bukan milik Anda"
	if status == http.StatusUnauthorized {
		message = "Silakan login terlebih dahulu"
	}
	if status == http.StatusInternalServerError {
		message = "Gagal memeriksa pemilik data " + res.label
	}
	res.server.fail(w, r, status, message, err)
}

func (res resource[T]) query() *gorm.DB {
	q := res.server.DB.Model(new(T))
	for _, p := range res.preload {
		q = q.Preload(p)
	}
	return q
}

func (res resource[T]) list(w http.ResponseWriter, r *http.Request) {
	if res.cached {
		if items, found := res.server.cache.Get(res.table); found {
			res.server.respond(w, http.StatusOK, "Berhasil mengambil data "+res.label, items)
			return
		}
	}

	q := res.query().WithContext(r.Context()).Where("is_deleted = ?", false)
	if user := CurrentUser(r); res.scope != "" && (user == nil || !user.IsAdmin()) {
		userID := ""
		if user != nil {
			userID = user.ID
		}
		q = q.Where(res.scope+" = ?", userID)
	}

	items := []T{}
	err := q.Order("created_at desc").Find(&items).Error
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal mengambil data "+res.label, err)
		return
	}

	if res.view != nil {
		for i := range items {
			res.view(&items[i])
		}
	}

	if res.cached {
		res.server.cache.SetDefault(res.table, items)
	}

	res.server.respond(w, http.StatusOK, "Berhasil mengambil data "+res.label, items)
}

func (res resource[T]) find(r *http.Request) (*T, error) {
	var item T

	err := res.query().WithContext(r.Context()).
		Where("id = ? AND is_deleted = ?", mux.Vars(r)["id"], false).
		First(&item).Error
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (res resource[T]) get(w http.ResponseWriter, r *http.Request) {
	item, err := res.find(r)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		res.server.fail(w, r, http.StatusNotFound, "Data "+res.label+" tidak ditemukan", err)
		return
	}
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal mengambil data "+res.label, err)
		return
	}
	if res.scope != "" {
		if status, err := res.authorize(r, item); err != nil {
			res.deny(w, r, status, err)
			return
		}
	}

	res.present(item)
	res.server.respond(w, http.StatusOK, "Berhasil mengambil data "+res.label, item)
}

func (res resource[T]) present(item *T) {
	if res.view != nil {
		res.view(item)
	}
}

func (res resource[T]) create(w http.ResponseWriter, r *http.Request) {
	item := new(T)
	if err := decodeJSON(r, item); err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal menambahkan data "+res.label, err)
		return
	}

	if res.prepare != nil {
		if err := res.prepare(r, item); err != nil {
			res.server.fail(w, r, http.StatusInternalServerError, "Gagal menambahkan data "+res.label, err)
			return
		}
	}
	if status, err := res.authorize(r, item); err != nil {
		res.deny(w, r, status, err)
		return
	}

	err := res.server.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return models.CreateLog(tx, res.server.currentUserID(r), res.table, consts.LogCreate, idOf(item), "")
	})
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal menambahkan data "+res.label, err)
		return
	}

	res.server.cache.Delete(res.table)
	res.present(item)
	res.server.respond(w, http.StatusCreated, "Berhasil menambahkan data "+res.label, item)
}

func (res resource[T]) update(w http.ResponseWriter, r *http.Request) {
	item, err := res.find(r)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		res.server.fail(w, r, http.StatusNotFound, "Data "+res.label+" tidak ditemukan", err)
		return
	}
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal memperbarui data "+res.label, err)
		return
	}
	if status, err := res.authorize(r, item); err != nil {
		res.deny(w, r, status, err)
		return
	}

	if err = mergeJSON(r, item); err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal memperbarui data "+res.label, err)
		return
	}

	if res.prepare != nil {
		if err = res.prepare(r, item); err != nil {
			res.server.fail(w, r, http.StatusInternalServerError, "Gagal memperbarui data "+res.label, err)
			return
		}
	}

	// pemilik tidak boleh memindahkan data ke user lain
	if status, err := res.authorize(r, item); err != nil {
		res.deny(w, r, status, err)
		return
	}

	if err = models.Validate(item); err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal memperbarui data "+res.label, err)
		return
	}

	err = res.server.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(res.preload...).Save(item).Error; err != nil {
			return err
		}
		return models.CreateLog(tx, res.server.currentUserID(r), res.table, consts.LogUpdate, idOf(item), "")
	})
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal memperbarui data "+res.label, err)
		return
	}

	res.server.cache.Delete(res.table)
	res.present(item)
	res.server.respond(w, http.StatusCreated, "Berhasil memperbarui data "+res.label, item)
}

func (res resource[T]) remove(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if res.owner != nil {
		item, err := res.find(r)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			res.server.fail(w, r, http.StatusNotFound, "Data "+res.label+" tidak ditemukan", err)
			return
		}
		if err != nil {
			res.server.fail(w, r, http.StatusInternalServerError, "Gagal menghapus data "+res.label, err)
			return
		}
		if status, err := res.authorize(r, item); err != nil {
			res.deny(w, r, status, err)
			return
		}
	}

	var affected int64
	err := res.server.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(new(T)).Where("id = ? AND is_deleted = ?", id, false).Update("is_deleted", true)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return models.CreateLog(tx, res.server.currentUserID(r), res.table, consts.LogDelete, id, "")
	})
	if err != nil {
		res.server.fail(w, r, http.StatusInternalServerError, "Gagal menghapus data "+res.label, err)
		return
	}
	if affected == 0 {
		res.server.fail(w, r, http.StatusNotFound, "Data "+res.label+" tidak ditemukan", gorm.ErrRecordNotFound)
		return
	}

	res.server.cache.Delete(res.table)
	res.server.respond(w, http.StatusOK, "Berhasil menghapus data "+res.label, nil)
}

// mergeJSON menimpa field item dengan isi body, kecuali kolom yang dilindungi.
func mergeJSON(r *http.Request, item interface{}) error {
	body := map[string]json.RawMessage{}
	if err := decodeJSON(r, &body); err != nil {
		return err
	}
	for _, key := range protectedFields {
		delete(body, key)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, item)
}

func idOf(item interface{}) string {
	v := reflect.Indirect(reflect.ValueOf(item))
	if v.Kind() != reflect.Struct {
		return ""
	}

	f := v.FieldByName("ID")
	if !f.IsValid() || f.Kind() != reflect.String {
		return ""
	}

	return f.String()
}
