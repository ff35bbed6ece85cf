package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// Store caches company resolutions and profiles. It works on Postgres or a local SQLite file.
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

// Open connects to dsn. postgres:// and postgresql:// DSNs use Postgres, anything else is a SQLite path.
func Open(dsn string) (*Store, error) {
	driver, source := driverSQLite, sqliteDSN(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, source = driverPostgres, dsn
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if driver == driverSQLite {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db, driver: driver, now: time.Now}, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Driver() string {
	return s.driver
}

// Migrate creates the cache tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	return nil
}

// PruneStale deletes cache rows older than olderThan and reports how many went.
func (s *Store) PruneStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := stamp(s.now().Add(-olderThan))

	var total int64
	for _, q := range []string{
		`DELETE FROM company_slugs WHERE checked_at < ?`,
		`DELETE FROM company_profiles WHERE fetched_at < ?`,
	} {
		res, err := s.db.ExecContext(ctx, s.rebind(q), cutoff)
		if err != nil {
			return total, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// Counts returns the number of cached slugs and profiles.
func (s *Store) Counts(ctx context.Context) (slugs, profiles int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM company_slugs`).Scan(&slugs); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM company_profiles`).Scan(&profiles); err != nil {
		return 0, 0, err
	}
	return slugs, profiles, nil
}

// rebind rewrites ? placeholders into $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.driver != driverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func stamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseStamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
