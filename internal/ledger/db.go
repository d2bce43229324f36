package ledger

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/idkit/internal/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB owns the ledger connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (creating if needed) the ledger at path and applies pending
// migrations. When an existing ledger is behind the embedded schema it is
// copied to path+".bak" before migrating.
func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)"
	log.Debug(log.CatDB, "Opening ledger", "path", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatDB, "Failed to open ledger", err, "path", path)
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Failed to ping ledger", err, "path", path)
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	if err := runMigrations(conn, path); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatDB, "Ledger migration failed", err, "path", path)
		return nil, err
	}

	log.Info(log.CatDB, "Ledger ready", "path", path)
	return &DB{conn: conn, path: path}, nil
}

func runMigrations(conn *sql.DB, path string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	defer func() { _ = src.Close() }()

	latest, err := latestVersion(src)
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	drv, err := sqlite.WithInstance(conn, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	// m.Close would close conn through the driver, so it is not called.
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	current, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		// Fresh ledger, nothing to preserve.
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	case dirty:
		return fmt.Errorf("ledger schema version %d is dirty; restore %s.bak", current, path)
	case current < latest:
		if err := backup(conn, path); err != nil {
			return fmt.Errorf("backing up ledger: %w", err)
		}
		log.Info(log.CatDB, "Backed up ledger before migrating", "from", current, "to", latest)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Debug(log.CatDB, "Ledger schema", "version", latest)
	return nil
}

// latestVersion walks src to its highest migration version.
func latestVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, err
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, err
		}
		v = next
	}
}

// backup writes a consistent copy of the open ledger to path+".bak",
// replacing any earlier backup.
func backup(conn *sql.DB, path string) error {
	dst := path + ".bak"
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_, err := conn.Exec("VACUUM INTO ?", dst)
	return err
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Connection returns the underlying *sql.DB.
func (db *DB) Connection() *sql.DB { return db.conn }

// Repository returns a mint repository backed by this database.
func (db *DB) Repository() *Repository { return NewRepository(db.conn) }

// Close closes the connection.
func (db *DB) Close() error { return db.conn.Close() }
