package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"

	// LowerFunc is a Unicode-aware LOWER registered on every SQLite
	// connection. The builtin LOWER only folds ASCII.
	LowerFunc = "unihub_lower"

	sqliteDriver = "sqlite3_unihub"
)

var registerSQLite sync.Once

func sqliteDriverName() string {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(LowerFunc, strings.ToLower, true)
			},
		})
	})
	return sqliteDriver
}

// FoldExpr wraps a column in the lowercase function that matches
// strings.ToLower for the given driver.
func FoldExpr(driver, col string) string {
	if driver == DriverSQLite {
		return LowerFunc + "(" + col + ")"
	}
	return "LOWER(" + col + ")"
}

type Config struct {
	Driver string `mapstructure:"driver"`
	// Path is the SQLite file, used when Driver is sqlite3.
	Path string `mapstructure:"path"`
	// DSN is the MySQL data source name. It must carry parseTime=true.
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func DefaultConfig() Config {
	// local default: ~/.unihub/catalog.db
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		Driver:          DriverSQLite,
		Path:            filepath.Join(home, ".unihub", "catalog.db"),
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

// Open connects to the catalog store and verifies the connection.
func Open(cfg Config) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	switch cfg.Driver {
	case "", DriverSQLite:
		if err := EnsureDataDir(cfg); err != nil {
			return nil, fmt.Errorf("ensure data dir: %w", err)
		}
		// pragmas go in the DSN so every pooled connection gets them
		dsn := cfg.Path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
		raw, err := sql.Open(sqliteDriverName(), dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// keep the stock name so Rebind and driver checks still see sqlite3
		db = sqlx.NewDb(raw, DriverSQLite)
	case DriverMySQL:
		if cfg.DSN == "" {
			return nil, fmt.Errorf("open mysql: empty dsn")
		}
		db, err = sqlx.Open(DriverMySQL, cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", db.DriverName(), err)
	}

	return db, nil
}

func MustOpen(cfg Config) *sqlx.DB {
	db, err := Open(cfg)
	if err != nil {
		zap.L().Fatal("failed to open db", zap.Error(err))
	}
	return db
}
