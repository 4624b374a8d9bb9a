package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rentals-api/domain"
)

// OpenDatabase connects GORM to the configured driver.
func OpenDatabase(driver, dsn string, logger *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = gormmysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqliteDialector(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(logger),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Connected to database", zap.String("driver", driver))
	return db, nil
}

// sqliteDriverName is mattn's driver with LOWER and UPPER replaced by
// Unicode-aware versions. SQLite's built-ins fold ASCII letters only.
const sqliteDriverName = "sqlite3_unicode"

var registerSQLite sync.Once

func sqliteDialector(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				if err := conn.RegisterFunc("lower", foldWith(strings.ToLower), true); err != nil {
					return err
				}
				return conn.RegisterFunc("upper", foldWith(strings.ToUpper), true)
			},
		})
	})
	return sqlite.New(sqlite.Config{DriverName: sqliteDriverName, DSN: dsn})
}

// foldWith adapts a string mapping to a SQL function: NULL stays NULL and
// non-text values pass through.
func foldWith(fold func(string) string) func(v interface{}) interface{} {
	return func(v interface{}) interface{} {
		switch s := v.(type) {
		case string:
			return fold(s)
		case []byte:
			return fold(string(s))
		default:
			return v
		}
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// translateError maps driver errors onto the domain taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if isDuplicateKey(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
