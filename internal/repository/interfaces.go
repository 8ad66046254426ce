package repository

import (
	"context"
	"errors"

	"auctiondesk-api/internal/model"
)

// ErrNotFound is returned when the targeted document does not exist
// in the remote collection.
var ErrNotFound = errors.New("listing not found")

// ListingRepository is the remote document collection holding auction
// listings. Per-document atomicity of Patch is assumed from the
// backing store; no cross-document transactions are required.
type ListingRepository interface {
	// ListAll returns every listing, oldest first.
	ListAll(ctx context.Context) ([]*model.Listing, error)

	// Create persists a new listing and returns its store-assigned
	// document id.
	Create(ctx context.Context, l *model.Listing) (string, error)

	// Patch updates exactly the given fields of one document. Field
	// names outside the patchable set are rejected.
	Patch(ctx context.Context, documentID string, fields map[string]interface{}) error

	// Delete removes one document.
	Delete(ctx context.Context, documentID string) error

	// Close closes the repository connection.
	Close() error
}

// patchableColumns is the write-through whitelist. Title and source
// URL are immutable once ingested; document ids never change.
var patchableColumns = map[string]bool{
	string(model.FieldDisplayID): true,
	string(model.FieldImage):     true,
	string(model.FieldImage2):    true,
	string(model.FieldRemark):    true,
	string(model.FieldBarcode):   true,
	string(model.FieldNote):      true,
	"sold":                       true,
	"paid":                       true,
	"finished":                   true,
}
