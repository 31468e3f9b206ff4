package controllers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alirogz/smartfarm/app/logger"
	"github.com/alirogz/smartfarm/app/models"
	"github.com/alirogz/smartfarm/app/services"
	"github.com/alirogz/smartfarm/database/seeders"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
	"github.com/urfave/cli"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Server struct {
	DB        *gorm.DB
	Router    *mux.Router
	AppConfig *AppConfig
	Log       *slog.Logger

	render *render.Render
	cache  *cache.Cache
	store  *sessions.CookieStore

	saldo      *services.SaldoService
	penarikan  *services.PenarikanService
	pesanan    *services.PesananService
	inventaris *services.InventarisService
}

type AppConfig struct {
	AppName    string
	AppEnv     string
	AppPort    string
	AppURL     string
	SessionKey string
	JWTSecret  string
	JWTTTL     time.Duration
	UploadDir  string
}

type DBConfig struct {
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBDriver        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LedgerConfig struct {
	AdminFee      decimal.Decimal
	MinWithdrawal decimal.Decimal
	OrderExpiry   time.Duration
}

const sessionUser = "user-session"

func (server *Server) initSessionStore() {
	key := server.AppConfig.SessionKey
	if key == "" {
		// fallback dev; untuk production WAJIB isi SESSION_KEY di .env
		key = "dev-secret-change-me"
	}
	server.store = sessions.NewCookieStore([]byte(key))
	server.store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 hari
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   server.AppConfig.AppEnv == "production",
	}
}

func (server *Server) Initialize(appConfig AppConfig, dbConfig DBConfig, ledgerConfig LedgerConfig) error {
	server.initializeAppConfig(appConfig)
	server.Log.Info("welcome to "+appConfig.AppName, slog.String("env", appConfig.AppEnv))

	if err := server.checkSecrets(); err != nil {
		return err
	}
	if err := server.initializeDB(dbConfig); err != nil {
		return err
	}
	server.Setup(ledgerConfig)

	return nil
}

// checkSecrets SESSION_KEY dan JWT_SECRET wajib di production. Di env lain cukup peringatan
// karena nilai development yang dipakai.
func (server *Server) checkSecrets() error {
	var kosong []string
	if server.AppConfig.SessionKey == "" {
		kosong = append(kosong, "SESSION_KEY")
	}
	if server.AppConfig.JWTSecret == "" {
		kosong = append(kosong, "JWT_SECRET")
	}
	if len(kosong) == 0 {
		return nil
	}

	if server.AppConfig.AppEnv == "production" {
		return fmt.Errorf("%s wajib diisi di production", strings.Join(kosong, ", "))
	}

	server.Log.Warn("secret kosong, memakai nilai development", slog.Any("keys", kosong))

	return nil
}

// Setup memasang service, session, cache dan router di atas server.DB yang sudah terbuka.
func (server *Server) Setup(ledgerConfig LedgerConfig) {
	if server.AppConfig == nil {
		server.initializeAppConfig(AppConfig{})
	}
	if server.Log == nil {
		server.Log = slog.Default()
	}

	server.render = render.New(render.Options{
		IndentJSON: server.AppConfig.AppEnv != "production",
	})
	server.cache = cache.New(5*time.Minute, 10*time.Minute)

	server.saldo = services.NewSaldoService(server.DB)
	server.penarikan = services.NewPenarikanService(server.DB, server.saldo, services.PenarikanConfig{
		BiayaAdmin:   ledgerConfig.AdminFee,
		MinPenarikan: ledgerConfig.MinWithdrawal,
		UploadDir:    server.AppConfig.UploadDir,
	})
	server.pesanan = services.NewPesananService(server.DB, server.saldo, ledgerConfig.OrderExpiry)
	server.inventaris = services.NewInventarisService(server.DB)

	server.initSessionStore()
	server.initializeRoutes()
}

// Run menjalankan http server sampai SIGINT/SIGTERM lalu shutdown dengan rapi.
func (server *Server) Run(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.Log.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	server.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	if sqlDB, err := server.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	return nil
}

func (server *Server) initializeDB(dbConfig DBConfig) error {
	var err error

	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
	if server.AppConfig.AppEnv == "development" || server.AppConfig.AppEnv == "local" {
		gormConfig.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	switch dbConfig.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local", dbConfig.DBUser, dbConfig.DBPassword, dbConfig.DBHost, dbConfig.DBPort, dbConfig.DBName)
		server.DB, err = gorm.Open(mysql.Open(dsn), gormConfig)
	case "sqlite":
		server.DB, err = gorm.Open(sqlite.Open(dbConfig.DBName), gormConfig)
	default:
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta", dbConfig.DBHost, dbConfig.DBUser, dbConfig.DBPassword, dbConfig.DBName, dbConfig.DBPort)

		var sqlDB *sql.DB
		sqlDB, err = sql.Open("pgx", dsn)
		if err != nil {
			return fmt.Errorf("open pgx: %w", err)
		}
		server.DB, err = gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
	}
	if err != nil {
		return fmt.Errorf("failed on connecting to the database server: %w", err)
	}

	sqlDB, err := server.DB.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	if dbConfig.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(dbConfig.MaxOpenConns)
	}
	if dbConfig.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConns)
	}
	if dbConfig.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(dbConfig.ConnMaxLifetime)
	}

	return nil
}

func (server *Server) initializeAppConfig(appConfig AppConfig) {
	if appConfig.UploadDir == "" {
		appConfig.UploadDir = "public/uploads"
	}
	if appConfig.JWTTTL <= 0 {
		appConfig.JWTTTL = 24 * time.Hour
	}
	server.AppConfig = &appConfig
}

func (server *Server) dbMigrate() error {
	for _, model := range models.RegisterModels() {
		err := server.DB.AutoMigrate(model.Model)
		if err != nil {
			return fmt.Errorf("migrate %T: %w", model.Model, err)
		}
	}

	server.Log.Info("database migrated successfully")

	return nil
}

// dbReset drop semua tabel dari yang paling bergantung, lalu migrate dan seed ulang.
func (server *Server) dbReset() error {
	registered := models.RegisterModels()
	for i := len(registered) - 1; i >= 0; i-- {
		if err := server.DB.Migrator().DropTable(registered[i].Model); err != nil {
			return fmt.Errorf("drop %T: %w", registered[i].Model, err)
		}
	}

	if err := server.dbMigrate(); err != nil {
		return err
	}

	return seeders.DBSeed(server.DB)
}

func (server *Server) InitCommands(appConfig AppConfig, dbConfig DBConfig, ledgerConfig LedgerConfig) error {
	server.initializeAppConfig(appConfig)

	if err := server.initializeDB(dbConfig); err != nil {
		return err
	}
	server.pesanan = services.NewPesananService(server.DB, services.NewSaldoService(server.DB), ledgerConfig.OrderExpiry)

	cmdApp := cli.NewApp()
	cmdApp.Name = appConfig.AppName
	cmdApp.Usage = "perintah pemeliharaan database"
	cmdApp.Commands = []cli.Command{
		{
			Name:  "db:migrate",
			Usage: "buat / update semua tabel",
			Action: func(c *cli.Context) error {
				return server.dbMigrate()
			},
		},
		{
			Name:  "db:seed",
			Usage: "isi master data dan data contoh",
			Action: func(c *cli.Context) error {
				if err := seeders.DBSeed(server.DB); err != nil {
					return err
				}
				server.Log.Info("database seeded successfully")
				return nil
			},
		},
		{
			Name:  "db:reset",
			Usage: "drop semua tabel lalu migrate dan seed ulang",
			Action: func(c *cli.Context) error {
				return server.dbReset()
			},
		},
		{
			Name:  "pesanan:expire",
			Usage: "ubah pesanan menunggu yang melewati batas waktu menjadi expired",
			Action: func(c *cli.Context) error {
				n, err := server.pesanan.ExpireStale(context.Background(), time.Now())
				if err != nil {
					return err
				}
				server.Log.Info("pesanan expired", slog.Int("jumlah", n))
				return nil
			},
		},
	}

	if err := cmdApp.Run(os.Args); err != nil {
		server.Log.Error("command failed", logger.Err(err))
		return err
	}

	return nil
}

func ComparePassword(password string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

func MakePassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(hashedPassword), err
}
