// Package store persists stay records. Stores return sentinel errors; the
// service translates them into domain errors.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"sojourn/internal/platform/migrate"
	"sojourn/internal/stay/datewindow"
	"sojourn/internal/stay/models"
	id "sojourn/pkg/domain"
	"sojourn/pkg/platform/sentinel"
	txcontext "sojourn/pkg/platform/tx"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// SQLStore persists stay records in PostgreSQL or SQLite. Queries are written
// with $n placeholders and rebound for SQLite.
type SQLStore struct {
	db     *sql.DB
	driver migrate.Driver
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, driver: migrate.Postgres}
}

// NewSQLite constructs a SQLite-backed record store.
func NewSQLite(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, driver: migrate.SQLite}
}

// Migrate applies the schema for the store's driver.
func (s *SQLStore) Migrate() error {
	return migrate.Up(s.db, s.driver, migrationsFS, "migrations/"+string(s.driver))
}

// DB exposes the pool for transaction runners.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Driver reports which SQL flavour backs the store.
func (s *SQLStore) Driver() migrate.Driver {
	return s.driver
}

func (s *SQLStore) Create(ctx context.Context, record *models.StayRecord) error {
	if record == nil {
		return fmt.Errorf("stay record is required")
	}
	query := `
		INSERT INTO stay_records (id, traveler_id, jurisdiction_code, entry_date, exit_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.conn(ctx).ExecContext(ctx, s.rebind(query),
		record.ID.String(),
		record.TravelerID.String(),
		string(record.JurisdictionCode),
		s.dateArg(record.EntryDate),
		s.nullDateArg(record.ExitDate),
		s.timestampArg(record.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert stay record: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByID(ctx context.Context, travelerID id.TravelerID, recordID id.RecordID) (*models.StayRecord, error) {
	query := `
		SELECT id, traveler_id, jurisdiction_code, entry_date, exit_date, created_at
		FROM stay_records
		WHERE traveler_id = $1 AND id = $2
	`
	row := s.conn(ctx).QueryRowContext(ctx, s.rebind(query), travelerID.String(), recordID.String())
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find stay record by id: %w", err)
	}
	return record, nil
}

func (s *SQLStore) ListByTraveler(ctx context.Context, travelerID id.TravelerID) ([]models.StayRecord, error) {
	query := `
		SELECT id, traveler_id, jurisdiction_code, entry_date, exit_date, created_at
		FROM stay_records
		WHERE traveler_id = $1
		ORDER BY entry_date, id
	`
	rows, err := s.conn(ctx).QueryContext(ctx, s.rebind(query), travelerID.String())
	if err != nil {
		return nil, fmt.Errorf("list stay records: %w", err)
	}
	defer rows.Close()

	var out []models.StayRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stay record: %w", err)
		}
		out = append(out, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stay records: %w", err)
	}
	return out, nil
}

// UpdateExit sets exit_date on an open stay. Exits are written once; a
// closed stay returns sentinel.ErrInvalidState.
func (s *SQLStore) UpdateExit(ctx context.Context, travelerID id.TravelerID, recordID id.RecordID, exit time.Time) error {
	query := `
		UPDATE stay_records
		SET exit_date = $1
		WHERE traveler_id = $2 AND id = $3 AND exit_date IS NULL
	`
	res, err := s.conn(ctx).ExecContext(ctx, s.rebind(query),
		s.dateArg(exit), travelerID.String(), recordID.String())
	if err != nil {
		return fmt.Errorf("update stay exit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stay exit: %w", err)
	}
	if n == 1 {
		return nil
	}
	if _, err := s.FindByID(ctx, travelerID, recordID); err != nil {
		return err
	}
	return sentinel.ErrInvalidState
}

// LockTraveler serialises writers for one traveler inside the transaction
// carried by ctx. SQLite already serialises writers and needs no lock.
func (s *SQLStore) LockTraveler(ctx context.Context, travelerID id.TravelerID) error {
	if s.driver != migrate.Postgres {
		return nil
	}
	if _, ok := txcontext.From(ctx); !ok {
		return fmt.Errorf("lock traveler: no transaction in context")
	}
	_, err := s.conn(ctx).ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, travelerID.String())
	if err != nil {
		return fmt.Errorf("lock traveler: %w", err)
	}
	return nil
}

func (s *SQLStore) conn(ctx context.Context) txcontext.Querier {
	return txcontext.QuerierFrom(ctx, s.db)
}

// rebind turns $1..$n into ? for SQLite. Every query binds each placeholder
// once and in order.
func (s *SQLStore) rebind(query string) string {
	if s.driver != migrate.SQLite {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] != '$' {
			b.WriteByte(query[i])
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte('$')
			continue
		}
		b.WriteByte('?')
		i = j - 1
	}
	return b.String()
}

func (s *SQLStore) dateArg(t time.Time) any {
	d := datewindow.Truncate(t)
	if s.driver == migrate.SQLite {
		return d.Format(time.DateOnly)
	}
	return d
}

func (s *SQLStore) nullDateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return s.dateArg(*t)
}

func (s *SQLStore) timestampArg(t time.Time) any {
	if s.driver == migrate.SQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.StayRecord, error) {
	var (
		recordID, travelerID, code string
		entry, exit, created       timeValue
	)
	if err := row.Scan(&recordID, &travelerID, &code, &entry, &exit, &created); err != nil {
		return nil, err
	}
	rid, err := uuid.Parse(recordID)
	if err != nil {
		return nil, fmt.Errorf("parse record id %q: %w", recordID, err)
	}
	tid, err := uuid.Parse(travelerID)
	if err != nil {
		return nil, fmt.Errorf("parse traveler id %q: %w", travelerID, err)
	}
	if !entry.valid {
		return nil, fmt.Errorf("record %s has no entry date", recordID)
	}
	record := &models.StayRecord{
		ID:               id.RecordID(rid),
		TravelerID:       id.TravelerID(tid),
		JurisdictionCode: id.JurisdictionCode(code),
		EntryDate:        datewindow.Truncate(entry.t),
		CreatedAt:        created.t,
	}
	if exit.valid {
		d := datewindow.Truncate(exit.t)
		record.ExitDate = &d
	}
	return record, nil
}

// timeValue scans DATE and TIMESTAMPTZ columns from lib/pq (time.Time) and
// the TEXT columns used for SQLite.
type timeValue struct {
	t     time.Time
	valid bool
}

func (v *timeValue) Scan(src any) error {
	switch x := src.(type) {
	case nil:
		v.valid = false
		return nil
	case time.Time:
		v.t, v.valid = x, true
		return nil
	case []byte:
		return v.parse(string(x))
	case string:
		return v.parse(x)
	default:
		return fmt.Errorf("unsupported time column type %T", src)
	}
}

func (v *timeValue) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			v.t, v.valid = t, true
			return nil
		}
	}
	return fmt.Errorf("unparseable time value %q", s)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
