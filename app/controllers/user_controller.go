package controllers

import (
	"net/http"

	"github.com/alirogz/smartfarm/app/models"
	"golang.org/x/crypto/bcrypt"
)

func (server *Server) userResource() resource[models.User] {
	return resource[models.User]{
		server:  server,
		label:   "user",
		table:   "users",
		prepare: hashUserPassword,
		// role dan isActive hanya boleh diatur penanggung jawab, pendaftaran publik lewat /auth/register
		read:  server.RequireAdmin,
		write: server.RequireAdmin,
		view: func(u *models.User) {
			u.Sanitize()
		},
	}
}

// hashUserPassword meng-hash password yang masih plain text. Hash lama dibiarkan.
func hashUserPassword(r *http.Request, u *models.User) error {
	if u.Password == "" {
		return nil
	}
	if _, err := bcrypt.Cost([]byte(u.Password)); err == nil {
		return nil
	}

	hashed, err := MakePassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed

	return nil
}
