package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"MarketDigest/internal/logger"
	"MarketDigest/internal/model"
)

// SQLiteRecorder persists digest runs to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS digest_runs (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			kind        TEXT NOT NULL,
			status      TEXT NOT NULL,
			anchor      TEXT,
			error       TEXT,
			instruments INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_kind_ts ON digest_runs(kind, timestamp)`,

		`CREATE TABLE IF NOT EXISTS instrument_changes (
			run_id     TEXT NOT NULL REFERENCES digest_runs(id),
			instrument TEXT NOT NULL,
			current    REAL NOT NULL,
			change_24h REAL,
			change_7d  REAL,
			change_30d REAL,
			PRIMARY KEY (run_id, instrument)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_changes_instrument ON instrument_changes(instrument)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(changes map[string]float64, label string) sql.NullFloat64 {
	v, ok := changes[label]
	return sql.NullFloat64{Float64: v, Valid: ok}
}

// RecordResult stores res and its per-instrument records in one transaction
// and returns the new run ID.
func (r *SQLiteRecorder) RecordResult(kind string, res *model.Result) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	tx, err := r.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO digest_runs
		(id, timestamp, kind, status, anchor, error, instruments)
		VALUES (?,?,?,?,?,?,?)`,
		id, r.now().Unix(), kind, res.Status, res.Anchor, res.Error, len(res.Records),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	keys := make([]string, 0, len(res.Records))
	for k := range res.Records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rec := res.Records[k]
		if _, err := tx.Exec(`INSERT INTO instrument_changes
			(run_id, instrument, current, change_24h, change_7d, change_30d)
			VALUES (?,?,?,?,?,?)`,
			id, k, rec.Current,
			nullable(rec.Changes, model.Window24h),
			nullable(rec.Changes, model.Window7d),
			nullable(rec.Changes, model.Window30d),
		); err != nil {
			return "", fmt.Errorf("insert change %s: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// RecentRuns returns up to limit runs of kind, newest first. An empty kind
// matches every kind.
func (r *SQLiteRecorder) RecentRuns(kind string, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, kind, status, anchor, error, instruments
		FROM digest_runs
		WHERE ? = '' OR kind = ?
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?`, kind, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var (
			run RunSummary
			ts  int64
		)
		if err := rows.Scan(&run.ID, &ts, &run.Kind, &run.Status, &run.Anchor, &run.Error, &run.Instruments); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Timestamp = time.Unix(ts, 0)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}
