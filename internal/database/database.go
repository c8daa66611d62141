package database

import (
	"log"
	"net/url"
	"sync"
	"time"

	"tutsin-digital/configs"
	"tutsin-digital/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DBManager struct {
	DB *gorm.DB
}

var (
	instance *DBManager
	once     sync.Once
)

func GetDBManager() *DBManager {
	once.Do(func() {
		instance = &DBManager{}
		instance.initialize()
	})
	return instance
}

func (m *DBManager) initialize() {
	dsn := configs.AppConfig.DatabaseURL
	if dsn == "" {
		log.Fatal("DATABASE_URL is required when STORAGE_BACKEND=sql")
	}

	var dialector gorm.Dialector
	switch configs.AppConfig.DatabaseDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		dialector = postgres.Open(applyPostgresOverrides(dsn))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	m.DB = db

	err = m.DB.AutoMigrate(
		&models.Client{},
		&models.ClientSession{},
		&models.Admin{},
		&models.AdminRole{},
		&models.AdminSession{},
		&models.BlogPost{},
		&models.ContactSubmission{},
		&models.Project{},
		&models.ProjectMilestone{},
		&models.ProjectTask{},
		&models.ProjectComment{},
		&models.WebsiteMetrics{},
		&models.Notification{},
		&models.FileUpload{},
	)
	if err != nil {
		log.Fatal("Failed to auto-migrate database:", err)
	}

	sqlDB, err := m.DB.DB()
	if err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	log.Println("Database connection established successfully")
}

// applyPostgresOverrides rewrites the host and sslmode of a postgres URL when
// DB_HOST / DB_SSL_MODE are set. Deployments behind connection poolers point
// DB_HOST at the pooler without editing the full connection string.
func applyPostgresOverrides(dsn string) string {
	host := configs.AppConfig.DBHost
	sslMode := configs.AppConfig.DBSSLMode
	if host == "" && sslMode == "" {
		return dsn
	}

	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return dsn
	}
	if host != "" {
		u.Host = host
	}
	if sslMode != "" {
		q := u.Query()
		q.Set("sslmode", sslMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}
