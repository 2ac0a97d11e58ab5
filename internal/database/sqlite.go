package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leca/dt-valet/internal/model"
	_ "modernc.org/sqlite"
)

// DateLayout is the on-the-wire and on-disk date format of observations.
const DateLayout = "2006-01-02"

// ErrNotFound is returned when a series does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteDB implements Database backed by SQLite.
type SQLiteDB struct {
	db *sql.DB
}

// Compile-time check that SQLiteDB implements Database.
var _ Database = (*SQLiteDB)(nil)

// NewSQLiteDB opens (or creates) an SQLite database at dsn and runs migrations.
// For in-memory use pass "file::memory:?cache=shared".
func NewSQLiteDB(dsn string) (*SQLiteDB, error) {
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	} else if !strings.Contains(dsn, "_journal_mode") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// ---------------------------------------------------------------------------
// Series
// ---------------------------------------------------------------------------

func (s *SQLiteDB) CreateSeries(sr *model.Series) error {
	_, err := s.db.Exec(`
		INSERT INTO series (name, label, description, dimension_key, dimension_name, base_rate)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			label = excluded.label,
			description = excluded.description,
			dimension_key = excluded.dimension_key,
			dimension_name = excluded.dimension_name,
			base_rate = excluded.base_rate`,
		sr.Name, sr.Label, sr.Description, sr.Dimension.Key, sr.Dimension.Name, sr.BaseRate,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	return nil
}

func (s *SQLiteDB) GetSeries(name string) (*model.Series, error) {
	row := s.db.QueryRow(`
		SELECT name, label, description, dimension_key, dimension_name, base_rate
		FROM series WHERE name = ?`,
		name,
	)
	sr, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get series %q: %w", name, ErrNotFound)
	}
	return sr, err
}

func (s *SQLiteDB) ListSeries() ([]*model.Series, error) {
	rows, err := s.db.Query(`
		SELECT name, label, description, dimension_key, dimension_name, base_rate
		FROM series ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var out []*model.Series
	for rows.Next() {
		sr, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sr)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Observations
// ---------------------------------------------------------------------------

// InsertObservations writes obs in a single transaction, replacing any
// existing value for the same series and date.
func (s *SQLiteDB) InsertObservations(obs []model.Observation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Warn("InsertObservations: rollback failed", "error", err)
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO observations (series, date, value) VALUES (?, ?, ?)
		ON CONFLICT (series, date) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range obs {
		if _, err := stmt.Exec(o.Series, o.Date, o.Value); err != nil {
			return fmt.Errorf("insert observation %s/%s: %w", o.Series, o.Date, err)
		}
	}
	return tx.Commit()
}

// ListObservations returns the observations of series matching q, ordered by
// date (ascending unless q.Descending).
func (s *SQLiteDB) ListObservations(series string, q model.ObservationQuery) ([]model.Observation, error) {
	var (
		where = []string{"series = ?"}
		args  = []any{series}
	)

	if q.StartDate != "" {
		where = append(where, "date >= ?")
		args = append(args, q.StartDate)
	}
	if q.EndDate != "" {
		where = append(where, "date <= ?")
		args = append(args, q.EndDate)
	}

	cutoff, err := s.recentCutoff(series, q)
	if err != nil {
		return nil, err
	}
	if cutoff != "" {
		where = append(where, "date > ?")
		args = append(args, cutoff)
	}

	query := `SELECT series, date, value FROM observations WHERE ` + strings.Join(where, " AND ")
	if q.Recent > 0 {
		// Take the newest N, then restore the requested order below.
		query += ` ORDER BY date DESC LIMIT ?`
		args = append(args, q.Recent)
	} else if q.Descending {
		query += ` ORDER BY date DESC`
	} else {
		query += ` ORDER BY date ASC`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	var out []model.Observation
	for rows.Next() {
		var o model.Observation
		if err := rows.Scan(&o.Series, &o.Date, &o.Value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if q.Recent > 0 && !q.Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

// LatestDate returns the newest observation date of series, or "" when the
// series has no observations.
func (s *SQLiteDB) LatestDate(series string) (string, error) {
	var latest sql.NullString
	err := s.db.QueryRow(`SELECT MAX(date) FROM observations WHERE series = ?`, series).Scan(&latest)
	if err != nil {
		return "", fmt.Errorf("latest date: %w", err)
	}
	return latest.String, nil
}

// CountObservations returns how many observations series has.
func (s *SQLiteDB) CountObservations(series string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM observations WHERE series = ?`, series).Scan(&count)
	return count, err
}

// recentCutoff resolves recent_days/weeks/months/years into an exclusive
// lower date bound, measured back from the newest observation of the series.
func (s *SQLiteDB) recentCutoff(series string, q model.ObservationQuery) (string, error) {
	var years, months, days int
	switch {
	case q.RecentDays > 0:
		days = q.RecentDays
	case q.RecentWeeks > 0:
		days = 7 * q.RecentWeeks
	case q.RecentMonths > 0:
		months = q.RecentMonths
	case q.RecentYears > 0:
		years = q.RecentYears
	default:
		return "", nil
	}

	latest, err := s.LatestDate(series)
	if err != nil || latest == "" {
		return "", err
	}
	t, err := time.Parse(DateLayout, latest)
	if err != nil {
		return "", fmt.Errorf("parse latest date %q: %w", latest, err)
	}
	return t.AddDate(-years, -months, -days).Format(DateLayout), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanSeries(row scannable) (*model.Series, error) {
	sr := &model.Series{}
	err := row.Scan(&sr.Name, &sr.Label, &sr.Description, &sr.Dimension.Key, &sr.Dimension.Name, &sr.BaseRate)
	if err != nil {
		return nil, fmt.Errorf("scan series: %w", err)
	}
	return sr, nil
}
