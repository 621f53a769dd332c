package topics

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

// SQLiteStore persists topic lists in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the store at path. ":memory:" gives a private
// in-memory database.
func Open(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database path.
func (s *SQLiteStore) Path() string { return s.path }

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		version = 0
	}
	if version >= schemaVersion {
		return nil
	}

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_topics_category ON topics(category);

		CREATE TABLE IF NOT EXISTS thumbnails (
			topic_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			url TEXT NOT NULL,
			width REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			PRIMARY KEY (topic_id, position),
			FOREIGN KEY (topic_id) REFERENCES topics(id) ON DELETE CASCADE
		);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`)
	return err
}

// Save replaces the stored list with topics, keeping their order.
func (s *SQLiteStore) Save(ctx context.Context, topics []Topic) error {
	if err := Validate(topics); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM topics"); err != nil {
		return err
	}

	topicStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO topics (id, title, category, position) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer topicStmt.Close()

	thumbStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO thumbnails (topic_id, position, url, width, height) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer thumbStmt.Close()

	for i, t := range topics {
		if _, err := topicStmt.ExecContext(ctx, t.ID, t.Title, t.Category, i); err != nil {
			return err
		}
		for j, th := range t.Thumbnails {
			if _, err := thumbStmt.ExecContext(ctx, t.ID, j, th.URL, th.Width, th.Height); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// List returns the stored topics in saved order. A non-empty category
// restricts the result to that category.
func (s *SQLiteStore) List(ctx context.Context, category string) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.category, th.url, th.width, th.height
		FROM topics t
		LEFT JOIN thumbnails th ON th.topic_id = t.id
		WHERE ? = '' OR t.category = ?
		ORDER BY t.position, th.position`, category, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []Topic
	for rows.Next() {
		var (
			t      Topic
			url    sql.NullString
			width  sql.NullFloat64
			height sql.NullFloat64
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Category, &url, &width, &height); err != nil {
			return nil, err
		}
		if n := len(topics); n == 0 || topics[n-1].ID != t.ID {
			topics = append(topics, t)
		}
		if url.Valid {
			last := &topics[len(topics)-1]
			last.Thumbnails = append(last.Thumbnails, Thumbnail{
				URL:    url.String,
				Width:  width.Float64,
				Height: height.Float64,
			})
		}
	}
	return topics, rows.Err()
}
