package database

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// PostgresConfig holds connection settings for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the keyword/value connection string used by the GORM driver.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// DatabaseURL returns the URL form used by golang-migrate. Credentials are escaped.
func (c PostgresConfig) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

var (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

// Connect opens a GORM connection and waits until the database answers a ping.
func Connect(cfg PostgresConfig, log *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := open(cfg, gormCfg)
		if err == nil {
			log.Info("connected to database",
				zap.String("host", cfg.Host),
				zap.String("database", cfg.DBName),
			)
			return db, nil
		}

		lastErr = err
		log.Warn("database not ready, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < connectAttempts {
			time.Sleep(connectDelay)
		}
	}
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", connectAttempts, lastErr)
}

// open returns a pinged pool, closing it again when the ping fails.
func open(cfg PostgresConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// gorm.Open hands back the pool even when its own ping fails.
func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
