package storage

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/agora-bot/agora/models"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var ddl embed.FS

// SQLiteBackend stores each document as one row of the documents table
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %s", path)
	}
	// a single connection keeps writers from tripping over SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if err = migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db}, nil
}

func migrate(db *sql.DB) error {
	b, err := ddl.ReadFile("schema.sql")
	if err != nil {
		return errors.Wrap(err, "reading schema")
	}
	_, err = db.Exec(string(b))
	return errors.Wrap(err, "applying schema")
}

func (s *SQLiteBackend) Read(ctx context.Context, name models.DocumentName) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, string(name)).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading document %s", name)
	}
	return []byte(body), nil
}

func (s *SQLiteBackend) Write(ctx context.Context, name models.DocumentName, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
    `, string(name), string(data), time.Now().Unix())
	return errors.Wrapf(err, "writing document %s", name)
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
