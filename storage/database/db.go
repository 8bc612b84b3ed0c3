package database

import (
	"context"
	"embed"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/trezcool/presence/core"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationTable = "schema_migrations"

func postgresDSN(conf *core.Config) string {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.Database.Address(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func sqliteDSN(path string) (string, error) {
	path = core.CleanString(path)
	if path == "" {
		return "", errors.New("storage path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, "creating storage directory")
	}
	return path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", nil
}

// Open connects to the sqlite file or postgres database selected by conf.Storage.Engine
// and applies the pending migrations.
func Open(conf *core.Config) (*sqlx.DB, error) {
	var (
		driver, dsn string
		attempts    = 1
		err         error
	)
	switch conf.Storage.Engine {
	case core.EngineSQLite:
		driver = "sqlite"
		if dsn, err = sqliteDSN(conf.Storage.Path); err != nil {
			return nil, err
		}
	case core.EnginePostgres:
		driver, dsn, attempts = "postgres", postgresDSN(conf), 30
	default:
		return nil, errors.Errorf("unsupported database engine %q", conf.Storage.Engine)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db, attempts); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB, maxAttempts int) error {
	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempts < maxAttempts {
			time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate runs every embedded migration not recorded in schema_migrations yet, in file name order.
func Migrate(db *sqlx.DB) error {
	ctx := context.Background()
	createSQL := `CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
)`
	if _, err := db.ExecContext(ctx, createSQL); err != nil {
		return errors.Wrap(err, "creating migration table")
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return errors.Wrap(err, "reading migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)
		var applied int
		q := db.Rebind(`SELECT COUNT(*) FROM ` + migrationTable + ` WHERE name = ?`)
		if err = db.GetContext(ctx, &applied, q, name); err != nil {
			return errors.Wrapf(err, "checking migration %s", name)
		}
		if applied > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "reading migration %s", name)
		}
		if err = applyMigration(ctx, db, name, upMigration(string(content))); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, name, upSQL string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrapf(err, "beginning migration %s", name)
	}
	defer func() { _ = tx.Rollback() }()

	if strings.TrimSpace(upSQL) != "" {
		if _, err = tx.ExecContext(ctx, upSQL); err != nil {
			return errors.Wrapf(err, "running migration %s", name)
		}
	}
	q := tx.Rebind(`INSERT INTO ` + migrationTable + ` (name, applied_at) VALUES (?, ?)`)
	if _, err = tx.ExecContext(ctx, q, name, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "recording migration %s", name)
	}
	return errors.Wrapf(tx.Commit(), "committing migration %s", name)
}

// upMigration returns the SQL of the `-- +migrate Up` section, or all of content without markers.
func upMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	start := strings.Index(content, up)
	if start < 0 {
		return content
	}
	content = content[start+len(up):]
	if end := strings.Index(content, down); end >= 0 {
		content = content[:end]
	}
	return content
}
