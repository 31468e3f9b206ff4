package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alirogz/smartfarm/app/consts"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

type ctxKey string

const ctxUser ctxKey = "user"

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// registerRequest pendaftaran mandiri hanya untuk pembeli dan penjual.
type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role" validate:"omitempty,oneof=pembeli penjual"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

var errTokenInvalid = errors.New("token tidak valid")

func (server *Server) jwtSecret() []byte {
	secret := server.AppConfig.JWTSecret
	if secret == "" {
		secret = "dev-jwt-secret-change-me"
	}
	return []byte(secret)
}

func (server *Server) issueToken(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(server.AppConfig.JWTTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  time.Now().Unix(),
		"exp":  expiresAt.Unix(),
	})

	signed, err := token.SignedString(server.jwtSecret())
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (server *Server) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return server.jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errTokenInvalid
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errTokenInvalid
	}

	return sub, nil
}

// authenticate mencari user dari header Bearer, kalau tidak ada dari cookie session.
func (server *Server) authenticate(r *http.Request) (*models.User, error) {
	var userID string

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		id, err := server.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return nil, err
		}
		userID = id
	} else {
		session, _ := server.store.Get(r, sessionUser)
		id, ok := session.Values["id"].(string)
		if !ok || id == "" {
			return nil, errTokenInvalid
		}
		userID = id
	}

	user, err := (&models.User{}).FindByID(server.DB.WithContext(r.Context()), userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("user tidak aktif")
	}

	return user, nil
}

func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(ctxUser).(*models.User)
	return user
}

// currentUserID untuk audit log. Route publik boleh tanpa login.
func (server *Server) currentUserID(r *http.Request) string {
	if user := CurrentUser(r); user != nil {
		return user.ID
	}
	if user, err := server.authenticate(r); err == nil {
		return user.ID
	}
	return ""
}

func (server *Server) RequireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := server.authenticate(r)
		if err != nil {
			server.fail(w, r, http.StatusUnauthorized, "Silakan login terlebih dahulu", err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), ctxUser, user)))
	}
}

// RequireAdmin hanya untuk role penanggung jawab.
func (server *Server) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return server.RequireLogin(func(w http.ResponseWriter, r *http.Request) {
		if !CurrentUser(r).IsAdmin() {
			server.fail(w, r, http.StatusForbidden, "Akses khusus penanggung jawab", nil)
			return
		}
		next(w, r)
	})
}

func (server *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format login tidak valid", err)
		return
	}
	if err := models.Validate(req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Email dan password wajib diisi", err)
		return
	}

	user, err := (&models.User{}).FindByEmail(server.DB.WithContext(r.Context()), req.Email)
	if err != nil || !ComparePassword(req.Password, user.Password) {
		server.fail(w, r, http.StatusUnauthorized, "Email atau password salah", nil)
		return
	}
	if !user.IsActive {
		server.fail(w, r, http.StatusForbidden, "Akun tidak aktif", nil)
		return
	}

	token, expiresAt, err := server.issueToken(user)
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal membuat token", err)
		return
	}

	session, _ := server.store.Get(r, sessionUser)
	session.Values["id"] = user.ID
	if err = session.Save(r, w); err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal menyimpan session", err)
		return
	}

	server.respond(w, http.StatusOK, "Login berhasil", loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Sanitize(),
	})
}

func (server *Server) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := server.store.Get(r, sessionUser)

	session.Values["id"] = nil
	session.Options.MaxAge = -1
	_ = session.Save(r, w)

	server.respond(w, http.StatusOK, "Logout berhasil", nil)
}

func (server *Server) Me(w http.ResponseWriter, r *http.Request) {
	server.respond(w, http.StatusOK, "Berhasil mengambil data user", CurrentUser(r).Sanitize())
}

func (server *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Format pendaftaran tidak valid", err)
		return
	}
	if err := models.Validate(req); err != nil {
		server.fail(w, r, http.StatusBadRequest, "Data pendaftaran tidak valid", err)
		return
	}
	if req.Role == "" {
		req.Role = consts.RolePembeli
	}

	hashed, err := MakePassword(req.Password)
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal mendaftarkan user", err)
		return
	}

	var user *models.User
	err = server.DB.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = (&models.User{}).CreateUser(tx, &models.User{
			Name:     req.Name,
			Email:    req.Email,
			Password: hashed,
			Phone:    req.Phone,
			Role:     req.Role,
		})
		if err != nil {
			return err
		}
		return models.CreateLog(tx, user.ID, "users", consts.LogCreate, user.ID, "register")
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		server.fail(w, r, http.StatusConflict, "Email sudah terdaftar", err)
		return
	}
	if err != nil {
		server.fail(w, r, http.StatusInternalServerError, "Gagal mendaftarkan user", err)
		return
	}

	server.respond(w, http.StatusCreated, "Pendaftaran berhasil", user.Sanitize())
}
