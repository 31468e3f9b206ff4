package app

import (
	"flag"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/alirogz/smartfarm/app/controllers"
	"github.com/alirogz/smartfarm/app/logger"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvDecimal(key string, fallback int64) decimal.Decimal {
	value, err := decimal.NewFromString(getEnv(key, ""))
	if err != nil {
		return decimal.NewFromInt(fallback)
	}
	return value
}

// Run tanpa argumen menjalankan http server, dengan argumen menjalankan perintah CLI.
func Run() {
	var server = controllers.Server{}
	var appConfig = controllers.AppConfig{}
	var dbConfig = controllers.DBConfig{}
	var ledgerConfig = controllers.LedgerConfig{}

	envErr := godotenv.Load()

	appConfig.AppName = getEnv("APP_NAME", "SmartFarm")
	appConfig.AppEnv = getEnv("APP_ENV", getEnv("NODE_ENV", "development"))
	appConfig.AppPort = getEnv("APP_PORT", "9000")
	appConfig.AppURL = getEnv("APP_URL", "http://localhost:9000")
	appConfig.SessionKey = getEnv("SESSION_KEY", "")
	appConfig.JWTSecret = getEnv("JWT_SECRET", "")
	appConfig.JWTTTL = getEnvDuration("JWT_TTL", 24*time.Hour)
	appConfig.UploadDir = getEnv("UPLOAD_DIR", "public/uploads")

	server.Log = logger.Setup(appConfig.AppEnv)
	if envErr != nil {
		server.Log.Warn("file .env tidak ditemukan, memakai environment sistem", logger.Err(envErr))
	}

	dbConfig.DBHost = getEnv("DB_HOST", "localhost")
	dbConfig.DBUser = getEnv("DB_USERNAME", "postgres")
	dbConfig.DBPassword = getEnv("DB_PASSWORD", "postgres")
	dbConfig.DBName = getEnv("DB_NAME", "smartfarm")
	dbConfig.DBPort = getEnv("DB_PORT", "5432")
	dbConfig.DBDriver = getEnv("DB_DRIVER", "postgres")
	dbConfig.MaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	dbConfig.MaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	dbConfig.ConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute)

	ledgerConfig.AdminFee = getEnvDecimal("ADMIN_FEE", 2500)
	ledgerConfig.MinWithdrawal = getEnvDecimal("MIN_WITHDRAWAL", 10000)
	ledgerConfig.OrderExpiry = getEnvDuration("ORDER_EXPIRY", 24*time.Hour)

	flag.Parse()
	arg := flag.Arg(0)

	if arg != "" {
		if err := server.InitCommands(appConfig, dbConfig, ledgerConfig); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := server.Initialize(appConfig, dbConfig, ledgerConfig); err != nil {
		server.Log.Error("failed to initialize server", logger.Err(err))
		os.Exit(1)
	}

	if err := server.Run(":" + appConfig.AppPort); err != nil {
		server.Log.Error("server stopped", logger.Err(err), slog.String("port", appConfig.AppPort))
		os.Exit(1)
	}
}
