package database

import (
	"fmt"
	"net"
	"strconv"

	"github.com/Baaaki/planogram-backoffice/internal/config"
	"github.com/go-sql-driver/mysql"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQLDSN builds the driver DSN for the configured database.
func MySQLDSN(cfg config.DatabaseConfig) string {
	dsn := mysql.NewConfig()
	dsn.User = cfg.Username
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	dsn.Timeout = cfg.ConnectTimeout
	dsn.Params = map[string]string{"charset": "utf8mb4"}
	return dsn.FormatDSN()
}

// MySQLOpener returns an Opener that dials the configured MySQL server.
func MySQLOpener(cfg config.DatabaseConfig) Opener {
	dsn := MySQLDSN(cfg)
	return func() (*gorm.DB, error) {
		db, err := gorm.Open(gormmysql.New(gormmysql.Config{DSN: dsn}), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("open mysql %s: %w", cfg.Database, err)
		}
		return db, nil
	}
}

// PoolConfigFrom extracts the pool settings from the database config.
func PoolConfigFrom(cfg config.DatabaseConfig) PoolConfig {
	return PoolConfig{
		ConnectionLimit: cfg.ConnectionLimit,
		QueueLimit:      cfg.QueueLimit,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}
}
