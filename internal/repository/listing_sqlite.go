package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"auctiondesk-api/internal/model"
	"auctiondesk-api/pkg/uid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteListingRepository implements ListingRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteListingRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteListingRepository creates a new SQLite listing repository.
// dbPath is the path to the SQLite database file (e.g., "./data/listings.db")
func NewSQLiteListingRepository(dbPath string) (*SQLiteListingRepository, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createListingTable(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteListingRepository] Initialized with database: %s", dbPath)
	return &SQLiteListingRepository{db: db}, nil
}

func createListingTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS auction_listings (
		document_id TEXT PRIMARY KEY,
		display_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		source_url TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		image2 TEXT NOT NULL DEFAULT '',
		remark TEXT NOT NULL DEFAULT '',
		barcode TEXT NOT NULL DEFAULT '',
		note TEXT NOT NULL DEFAULT '',
		sold INTEGER NOT NULL DEFAULT 0,
		paid INTEGER NOT NULL DEFAULT 0,
		finished INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_listing_created ON auction_listings(created_at);
	`
	_, err := db.Exec(query)
	return err
}

// ListAll returns every listing ordered by creation time.
func (r *SQLiteListingRepository) ListAll(ctx context.Context) ([]*model.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `SELECT document_id, display_id, title, source_url, image, image2,
		remark, barcode, note, sold, paid, finished, created_at
		FROM auction_listings ORDER BY created_at ASC, document_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}
	defer rows.Close()

	var out []*model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(&l.DocumentID, &l.DisplayID, &l.Title, &l.SourceURL,
			&l.Image, &l.Image2, &l.Remark, &l.Barcode, &l.Note,
			&l.Sold, &l.Paid, &l.Finished, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// Create persists a new listing and returns the assigned document id.
func (r *SQLiteListingRepository) Create(ctx context.Context, l *model.Listing) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := l.DocumentID
	if id == "" {
		id = uid.New()
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `INSERT INTO auction_listings
		(document_id, display_id, title, source_url, image, image2, remark, barcode, note, sold, paid, finished, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, id, l.DisplayID, l.Title, l.SourceURL,
		l.Image, l.Image2, l.Remark, l.Barcode, l.Note, l.Sold, l.Paid, l.Finished, createdAt)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

// Patch updates exactly the given fields of one document.
func (r *SQLiteListingRepository) Patch(ctx context.Context, documentID string, fields map[string]interface{}) error {
	query, args, err := buildPatchQuery("auction_listings", documentID, fields, questionPlaceholder)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to patch listing %s: %w", documentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one document.
func (r *SQLiteListingRepository) Delete(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.ExecContext(ctx, `DELETE FROM auction_listings WHERE document_id = ?`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete listing %s: %w", documentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the database connection.
func (r *SQLiteListingRepository) Close() error {
	return r.db.Close()
}

// placeholderFunc renders the bind placeholder for position i (1-based).
type placeholderFunc func(i int) string

func questionPlaceholder(int) string { return "?" }

// buildPatchQuery assembles an UPDATE touching only whitelisted
// columns, in a deterministic column order. The document id is the
// final bind argument.
func buildPatchQuery(table, documentID string, fields map[string]interface{}, ph placeholderFunc) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, fmt.Errorf("patch of %s with no fields", documentID)
	}

	cols := make([]string, 0, len(fields))
	for col := range fields {
		if !patchableColumns[col] {
			return "", nil, fmt.Errorf("field %q is not patchable", col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	query := "UPDATE " + table + " SET "
	args := make([]interface{}, 0, len(cols)+1)
	for i, col := range cols {
		if i > 0 {
			query += ", "
		}
		query += col + " = " + ph(i+1)
		args = append(args, fields[col])
	}
	query += " WHERE document_id = " + ph(len(cols)+1)
	args = append(args, documentID)
	return query, args, nil
}

// Ensure SQLiteListingRepository implements ListingRepository
var _ ListingRepository = (*SQLiteListingRepository)(nil)
