package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"divicards/internal/sample"
	"divicards/pkg/core"
	"divicards/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a sample id does not exist.
var ErrNotFound = errors.New("sample not found")

type DB struct {
	db  *sql.DB
	log core.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS samples (
    id TEXT PRIMARY KEY,
    league TEXT NOT NULL,
    price_league TEXT NOT NULL DEFAULT '',
    price_error TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sample_cards (
    sample_id TEXT NOT NULL REFERENCES samples(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    amount INTEGER NOT NULL,
    price REAL NOT NULL,
    total REAL NOT NULL,
    PRIMARY KEY (sample_id, position)
);

CREATE INDEX IF NOT EXISTS idx_samples_created_at ON samples(created_at);
`

// Summary is a sample without its cards.
type Summary struct {
	ID          string    `json:"id"`
	League      string    `json:"league"`
	PriceLeague string    `json:"price_league,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	CardCount   int       `json:"card_count"`
	TotalChaos  float64   `json:"total_chaos"`
}

// New opens (and creates) the sample database at path.
func New(path string, log core.Logger) (*DB, error) {
	if log == nil {
		log = logger.Nop()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Create schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Debug("Sample database ready", "path", path)
	return &DB{db: db, log: log}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// SaveSample inserts s with its cards, replacing a sample with the same id.
func (d *DB) SaveSample(s sample.Sample) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM samples WHERE id = ?`, s.ID); err != nil {
		return fmt.Errorf("failed to replace sample: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO samples (id, league, price_league, price_error, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.League, s.PriceLeague, s.PriceError, s.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO sample_cards (sample_id, position, name, amount, price, total)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare card insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range s.Cards {
		if _, err := stmt.Exec(s.ID, i, c.Name, c.Amount, c.Price, c.Total); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit sample: %w", err)
	}
	d.log.Info("Sample saved", "id", s.ID, "league", s.League, "cards", len(s.Cards))
	return nil
}

// GetSample loads a sample with its cards in stored order.
func (d *DB) GetSample(id string) (sample.Sample, error) {
	var s sample.Sample
	err := d.db.QueryRow(`
		SELECT id, league, price_league, price_error, created_at
		FROM samples WHERE id = ?`, id).
		Scan(&s.ID, &s.League, &s.PriceLeague, &s.PriceError, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sample.Sample{}, ErrNotFound
	}
	if err != nil {
		return sample.Sample{}, fmt.Errorf("failed to query sample %s: %w", id, err)
	}

	rows, err := d.db.Query(`
		SELECT name, amount, price, total
		FROM sample_cards WHERE sample_id = ?
		ORDER BY position`, id)
	if err != nil {
		return sample.Sample{}, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	s.Cards = []sample.Card{}
	for rows.Next() {
		var c sample.Card
		if err := rows.Scan(&c.Name, &c.Amount, &c.Price, &c.Total); err != nil {
			return sample.Sample{}, fmt.Errorf("failed to scan card: %w", err)
		}
		s.Cards = append(s.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return sample.Sample{}, fmt.Errorf("failed to read cards: %w", err)
	}
	return s, nil
}

// ListSamples returns summaries, newest first.
func (d *DB) ListSamples() ([]Summary, error) {
	d.log.Debug("Retrieving samples from database")

	rows, err := d.db.Query(`
		SELECT s.id, s.league, s.price_league, s.created_at,
		       COALESCE(SUM(c.amount), 0), COALESCE(SUM(c.total), 0)
		FROM samples s
		LEFT JOIN sample_cards c ON c.sample_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`)
	if err != nil {
		d.log.Error("Failed to query samples", err)
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		if err := rows.Scan(&sum.ID, &sum.League, &sum.PriceLeague, &sum.CreatedAt, &sum.CardCount, &sum.TotalChaos); err != nil {
			d.log.Error("Failed to scan sample", err)
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}

	d.log.Debug("Total samples retrieved", "count", len(out))
	return out, nil
}

func (d *DB) DeleteSample(id string) error {
	res, err := d.db.Exec(`DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sample %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Cleanup removes samples older than olderThan and returns how many went.
func (d *DB) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := d.db.Exec("DELETE FROM samples WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old samples: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
