package livehub

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/nemflow/nemflow/internal/model"
)

// SnapshotStore persists the hub's per-region last-known price map in a
// local sqlite file so a restarted hub can serve INITIAL frames immediately.
type SnapshotStore struct {
	db *sqlx.DB
}

// OpenSnapshotStore opens (and initialises) the sqlite file at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hub snapshot store: %w", err)
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS last_prices (
		region TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise hub snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SnapshotStore) Close() error { return s.db.Close() }

// Save upserts the given price rows into the last-known table.
func (s *SnapshotStore) Save(prices []model.DispatchPrice) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot save: %w", err)
	}
	defer tx.Rollback()

	for _, dp := range prices {
		payload, err := json.Marshal(dp)
		if err != nil {
			return fmt.Errorf("failed to marshal snapshot row: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO last_prices (region, payload, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(region) DO UPDATE SET payload = excluded.payload,
				updated_at = excluded.updated_at`,
			dp.Region, string(payload), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to save snapshot row: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the persisted last-known map, empty when the table is.
func (s *SnapshotStore) Load() (map[string]model.DispatchPrice, error) {
	rows, err := s.db.Queryx(`SELECT region, payload FROM last_prices`)
	if err != nil {
		return nil, fmt.Errorf("failed to load hub snapshot: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.DispatchPrice)
	for rows.Next() {
		var region, payload string
		if err := rows.Scan(&region, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var dp model.DispatchPrice
		if err := json.Unmarshal([]byte(payload), &dp); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot row for %s: %w", region, err)
		}
		out[region] = dp
	}
	return out, rows.Err()
}
