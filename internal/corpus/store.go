// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus persists the reference documents that submissions are
// compared against. The store hands the analysis pipeline an ordered
// snapshot of every document per call.
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

const dbFile = "corpus.db"

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("document not found")

	// ErrInvalidDocument is returned when a document lacks a required field.
	ErrInvalidDocument = errors.New("invalid document")
)

// Store manages the corpus SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	log        *slog.Logger
	now        func() time.Time
	generation atomic.Uint64
}

// Open opens or creates dataDir/corpus.db and ensures the schema exists.
func Open(cfg types.CorpusConfig, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dataDir: cfg.DataDir, log: log, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.dataDir, dbFile)
}

// Generation increases on every successful mutation. Callers holding
// derived state can compare it to detect corpus changes.
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			source TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Documents returns every document in insertion order.
func (s *Store) Documents(ctx context.Context) ([]types.ReferenceDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, content, category, source, created_at
		 FROM documents ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.ReferenceDocument
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Get returns the document with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.ReferenceDocument, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, content, category, source, created_at FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ReferenceDocument{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return d, err
}

// Add stores doc. An empty ID is replaced by a new UUID and a zero
// CreatedAt by the current time. The stored document is returned.
func (s *Store) Add(ctx context.Context, doc types.ReferenceDocument) (types.ReferenceDocument, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.ReferenceDocument{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stored, err := s.insert(ctx, tx, doc)
	if err != nil {
		return types.ReferenceDocument{}, err
	}
	if err := tx.Commit(); err != nil {
		return types.ReferenceDocument{}, fmt.Errorf("committing document: %w", err)
	}
	s.generation.Add(1)
	s.log.Info("added reference document", slog.String("id", stored.ID), slog.String("category", stored.Category))
	return stored, nil
}

// Delete removes the document with the given id or returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.generation.Add(1)
	s.log.Info("deleted reference document", slog.String("id", id))
	return nil
}

// insertMany stores docs in one transaction and returns how many were
// written.
func (s *Store) insertMany(ctx context.Context, docs []types.ReferenceDocument) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, d := range docs {
		if _, err := s.insert(ctx, tx, d); err != nil {
			return 0, fmt.Errorf("document %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing documents: %w", err)
	}
	if len(docs) > 0 {
		s.generation.Add(1)
	}
	return len(docs), nil
}

func (s *Store) insert(ctx context.Context, tx *sql.Tx, doc types.ReferenceDocument) (types.ReferenceDocument, error) {
	if err := validate(doc); err != nil {
		return types.ReferenceDocument{}, err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	doc.CreatedAt = doc.CreatedAt.UTC()

	var source sql.NullString
	if doc.Source != "" {
		source = sql.NullString{String: doc.Source, Valid: true}
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, category, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Content, doc.Category, source, doc.CreatedAt.Format(timeLayout))
	if err != nil {
		return types.ReferenceDocument{}, fmt.Errorf("inserting document %s: %w", doc.ID, err)
	}
	return doc, nil
}

func validate(doc types.ReferenceDocument) error {
	var missing []string
	if strings.TrimSpace(doc.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(doc.Content) == "" {
		missing = append(missing, "content")
	}
	if strings.TrimSpace(doc.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidDocument, strings.Join(missing, ", "))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (types.ReferenceDocument, error) {
	var (
		d       types.ReferenceDocument
		source  sql.NullString
		created string
	)
	if err := row.Scan(&d.ID, &d.Title, &d.Content, &d.Category, &source, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, err
		}
		return d, fmt.Errorf("scanning document: %w", err)
	}
	d.Source = source.String
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return d, fmt.Errorf("parsing created_at for %s: %w", d.ID, err)
	}
	d.CreatedAt = t
	return d, nil
}
