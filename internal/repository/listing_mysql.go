package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"auctiondesk-api/internal/model"
	"auctiondesk-api/pkg/uid"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLListingRepository implements ListingRepository using MySQL.
type MySQLListingRepository struct {
	db *sql.DB
}

// NewMySQLListingRepository creates a new MySQL listing repository.
// dsn format: "user:pass@tcp(host:port)/dbname?parseTime=true"
func NewMySQLListingRepository(dsn string) (*MySQLListingRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	// Image columns hold base64 data URLs, which outgrow TEXT fast.
	query := `
	CREATE TABLE IF NOT EXISTS auction_listings (
		document_id VARCHAR(64) PRIMARY KEY,
		display_id VARCHAR(16) NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		source_url TEXT NOT NULL,
		image LONGTEXT NOT NULL,
		image2 LONGTEXT NOT NULL,
		remark TEXT NOT NULL,
		barcode VARCHAR(128) NOT NULL DEFAULT '',
		note TEXT NOT NULL,
		sold TINYINT(1) NOT NULL DEFAULT 0,
		paid TINYINT(1) NOT NULL DEFAULT 0,
		finished TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		INDEX idx_listing_created (created_at)
	)`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("[MySQLListingRepository] Initialized")
	return &MySQLListingRepository{db: db}, nil
}

// ListAll returns every listing ordered by creation time.
func (r *MySQLListingRepository) ListAll(ctx context.Context) ([]*model.Listing, error) {
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
func (r *MySQLListingRepository) Create(ctx context.Context, l *model.Listing) (string, error) {
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
func (r *MySQLListingRepository) Patch(ctx context.Context, documentID string, fields map[string]interface{}) error {
	query, args, err := buildPatchQuery("auction_listings", documentID, fields, questionPlaceholder)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to patch listing %s: %w", documentID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero for a no-op update of an existing
		// row; distinguish before reporting a missing document.
		var exists int
		row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM auction_listings WHERE document_id = ?`, documentID)
		if scanErr := row.Scan(&exists); scanErr == nil && exists == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Delete removes one document.
func (r *MySQLListingRepository) Delete(ctx context.Context, documentID string) error {
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
func (r *MySQLListingRepository) Close() error {
	return r.db.Close()
}

// Ensure MySQLListingRepository implements ListingRepository
var _ ListingRepository = (*MySQLListingRepository)(nil)
