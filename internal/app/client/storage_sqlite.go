package client

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finmap/internal/domain/mapping"
	"finmap/internal/domain/pinelabs"
)

// SQLiteStorage is the local read cache: a snapshot of the server's
// mappings and detail rows for offline listing and fast table rendering.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache tables: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) initTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS mappings (
			id INTEGER PRIMARY KEY,
			store_name TEXT NOT NULL,
			brand TEXT NOT NULL,
			financier TEXT NOT NULL DEFAULT '',
			store_code TEXT NOT NULL DEFAULT '',
			mid TEXT NOT NULL DEFAULT '',
			requester TEXT NOT NULL DEFAULT '',
			cached_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pinelabs_details (
			id INTEGER PRIMARY KEY,
			mapping_id INTEGER NOT NULL,
			store_name TEXT NOT NULL DEFAULT '',
			brand TEXT NOT NULL DEFAULT '',
			pos_id TEXT NOT NULL DEFAULT '',
			tid TEXT NOT NULL DEFAULT '',
			serial_no TEXT NOT NULL DEFAULT '',
			store_id TEXT NOT NULL DEFAULT '',
			cached_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_details_mapping ON pinelabs_details(mapping_id);
	`)

	return err
}

// ReplaceMappings swaps the cached mapping set for a fresh server
// snapshot inside one transaction.
func (s *SQLiteStorage) ReplaceMappings(items []mapping.Item) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache refresh: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM mappings"); err != nil {
		return fmt.Errorf("clear mapping cache: %w", err)
	}

	now := time.Now()
	for _, m := range items {
		_, err := tx.Exec(`
			INSERT INTO mappings (id, store_name, brand, financier, store_code, mid, requester, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, m.ID, m.StoreName, m.Brand, m.Financier, m.StoreCode, m.MID, m.Requester, now)
		if err != nil {
			return fmt.Errorf("cache mapping %d: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStorage) ListMappings() ([]mapping.Item, error) {
	rows, err := s.db.Query(`
		SELECT id, store_name, brand, financier, store_code, mid, requester
		FROM mappings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list cached mappings: %w", err)
	}
	defer rows.Close()

	var items []mapping.Item
	for rows.Next() {
		var m mapping.Item
		if err := rows.Scan(&m.ID, &m.StoreName, &m.Brand, &m.Financier, &m.StoreCode, &m.MID, &m.Requester); err != nil {
			return nil, fmt.Errorf("scan cached mapping: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (s *SQLiteStorage) GetMapping(id int) (*mapping.Item, error) {
	var m mapping.Item
	err := s.db.QueryRow(`
		SELECT id, store_name, brand, financier, store_code, mid, requester
		FROM mappings
		WHERE id = ?
	`, id).Scan(&m.ID, &m.StoreName, &m.Brand, &m.Financier, &m.StoreCode, &m.MID, &m.Requester)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mapping not cached: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get cached mapping: %w", err)
	}
	return &m, nil
}

// ReplaceDetails swaps the cached detail rows for a fresh server
// snapshot.
func (s *SQLiteStorage) ReplaceDetails(rows []pinelabs.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin cache refresh: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pinelabs_details"); err != nil {
		return fmt.Errorf("clear detail cache: %w", err)
	}

	now := time.Now()
	for _, r := range rows {
		_, err := tx.Exec(`
			INSERT INTO pinelabs_details (id, mapping_id, store_name, brand, pos_id, tid, serial_no, store_id, cached_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.MappingID, r.StoreName, r.Brand, r.PosID, r.TID, r.SerialNo, r.StoreID, now)
		if err != nil {
			return fmt.Errorf("cache detail %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// ListDetails returns cached detail rows, optionally filtered by mapping
// id or a case-insensitive term over every text column.
func (s *SQLiteStorage) ListDetails(mappingID int, term string) ([]pinelabs.Row, error) {
	query := `
		SELECT id, mapping_id, store_name, brand, pos_id, tid, serial_no, store_id
		FROM pinelabs_details
		WHERE 1=1`
	args := []interface{}{}

	if mappingID > 0 {
		query += " AND mapping_id = ?"
		args = append(args, mappingID)
	}

	if term != "" {
		query += ` AND (
			lower(store_name) LIKE ? OR lower(brand) LIKE ? OR
			lower(pos_id) LIKE ? OR lower(tid) LIKE ? OR
			lower(serial_no) LIKE ? OR lower(store_id) LIKE ?
		)`
		like := "%" + strings.ToLower(term) + "%"
		for i := 0; i < 6; i++ {
			args = append(args, like)
		}
	}

	query += " ORDER BY id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cached details: %w", err)
	}
	defer rows.Close()

	var out []pinelabs.Row
	for rows.Next() {
		var r pinelabs.Row
		if err := rows.Scan(&r.ID, &r.MappingID, &r.StoreName, &r.Brand, &r.PosID, &r.TID, &r.SerialNo, &r.StoreID); err != nil {
			return nil, fmt.Errorf("scan cached detail: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStorage) CountMappings() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM mappings").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cached mappings: %w", err)
	}
	return count, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
