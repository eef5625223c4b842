package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"hourlog/worklog"
)

type SQLiteStore struct {
	db    *sql.DB
	newID func() string
	now   func() time.Time
}

var ErrRecordNotFound = errors.New("worklog record not found")

// StoredRecord is a persisted record with its storage metadata.
type StoredRecord struct {
	ID      int64  `json:"id"`
	BatchID string `json:"batch_id"`
	worklog.Record
	HoursLogged float64   `json:"hours_logged"`
	CreatedAt   time.Time `json:"created_at"`
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{
		db:    db,
		newID: func() string { return ulid.Make().String() },
		now:   time.Now,
	}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS worklogs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id TEXT NOT NULL,
	employee TEXT NOT NULL,
	work_date TEXT NOT NULL,
	time_range TEXT NOT NULL,
	start_time TEXT NOT NULL DEFAULT '',
	end_time TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	subtask TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT '',
	hours_logged REAL NOT NULL DEFAULT 0 CHECK(hours_logged >= 0),
	created_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_worklogs_batch ON worklogs(batch_id);`); err != nil {
		return fmt.Errorf("create batch index: %w", err)
	}
	return nil
}

// InsertRecords stores records in one transaction under a fresh batch ID.
// Records without a canonical time range are stored with zero hours.
func (s *SQLiteStore) InsertRecords(records []worklog.Record) (string, int, error) {
	if len(records) == 0 {
		return "", 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", 0, fmt.Errorf("begin transaction: %w", err)
	}

	const insertStmt = `
INSERT INTO worklogs (
	batch_id,
	employee,
	work_date,
	time_range,
	start_time,
	end_time,
	description,
	subtask,
	status,
	hours_logged,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`

	stmt, err := tx.Prepare(insertStmt)
	if err != nil {
		_ = tx.Rollback()
		return "", 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	batchID := s.newID()
	createdAt := s.now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, record := range records {
		hours, _ := record.Hours()
		if _, err := stmt.Exec(
			batchID,
			record.Employee,
			record.Date,
			record.Time,
			record.StartTime,
			record.EndTime,
			record.Description,
			record.Subtask,
			record.Status,
			hours,
			createdAt,
		); err != nil {
			_ = tx.Rollback()
			return "", 0, fmt.Errorf("insert worklog record: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return "", 0, fmt.Errorf("commit transaction: %w", err)
	}

	return batchID, inserted, nil
}

const selectColumns = `
SELECT
	id,
	batch_id,
	employee,
	work_date,
	time_range,
	start_time,
	end_time,
	description,
	subtask,
	status,
	hours_logged,
	created_at
FROM worklogs`

// ListRecords returns every stored record in insertion order.
func (s *SQLiteStore) ListRecords() ([]StoredRecord, error) {
	return s.queryRecords(selectColumns + ` ORDER BY id;`)
}

// ListBatch returns the records stored under one batch ID.
func (s *SQLiteStore) ListBatch(batchID string) ([]StoredRecord, error) {
	return s.queryRecords(selectColumns+` WHERE batch_id = ? ORDER BY id;`, batchID)
}

func (s *SQLiteStore) queryRecords(query string, args ...any) ([]StoredRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query worklog records: %w", err)
	}
	defer rows.Close()

	records := make([]StoredRecord, 0, 64)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate worklog records: %w", err)
	}

	return records, nil
}

// GetRecordByID returns one record or ErrRecordNotFound.
func (s *SQLiteStore) GetRecordByID(id int64) (StoredRecord, error) {
	if id <= 0 {
		return StoredRecord{}, fmt.Errorf("worklog record id must be > 0")
	}

	record, err := scanRecord(s.db.QueryRow(selectColumns+` WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredRecord{}, ErrRecordNotFound
		}
		return StoredRecord{}, fmt.Errorf("query worklog record %d: %w", id, err)
	}
	return record, nil
}

// DeleteRecord removes the row with the given ID.
func (s *SQLiteStore) DeleteRecord(id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("worklog record id must be > 0")
	}

	res, err := s.db.Exec(`DELETE FROM worklogs WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete worklog record %d: %w", id, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted row count: %w", err)
	}
	return rowsAffected > 0, nil
}

// DeleteBatch removes every record of one batch and reports how many went.
func (s *SQLiteStore) DeleteBatch(batchID string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM worklogs WHERE batch_id = ?;`, batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch %s: %w", batchID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

func (s *SQLiteStore) DeleteAllRecords() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM worklogs;`)
	if err != nil {
		return 0, fmt.Errorf("delete worklog records: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (StoredRecord, error) {
	var (
		record     StoredRecord
		createdRaw string
	)
	if err := row.Scan(
		&record.ID,
		&record.BatchID,
		&record.Employee,
		&record.Date,
		&record.Time,
		&record.StartTime,
		&record.EndTime,
		&record.Description,
		&record.Subtask,
		&record.Status,
		&record.HoursLogged,
		&createdRaw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredRecord{}, err
		}
		return StoredRecord{}, fmt.Errorf("scan worklog record: %w", err)
	}

	createdAt, err := time.Parse(time.RFC3339, createdRaw)
	if err != nil {
		return StoredRecord{}, fmt.Errorf("parse created_at %q: %w", createdRaw, err)
	}
	record.CreatedAt = createdAt
	return record, nil
}

// Records strips storage metadata.
func Records(stored []StoredRecord) []worklog.Record {
	records := make([]worklog.Record, 0, len(stored))
	for _, record := range stored {
		records = append(records, record.Record)
	}
	return records
}
