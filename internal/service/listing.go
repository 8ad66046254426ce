package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"auctiondesk-api/internal/mirror"
	"auctiondesk-api/internal/model"
	"auctiondesk-api/internal/repository"
	"auctiondesk-api/pkg/displayid"
)

// ErrFieldNotEditable is returned when a write targets a field
// outside the annotation set.
var ErrFieldNotEditable = errors.New("field is not editable")

// ListingService owns the local mirror and the write-through path to
// the remote listing collection. Edits land in the mirror first
// (optimistic) and are then persisted field-by-field; a failed patch
// is reported to the caller but never rolls the mirror back - the
// divergence heals on the next snapshot reload.
type ListingService struct {
	repo   repository.ListingRepository
	mirror *mirror.Mirror
}

// NewListingService creates a new listing service.
// Returns nil if repo is nil (required dependency).
func NewListingService(repo repository.ListingRepository) *ListingService {
	if repo == nil {
		return nil
	}
	return &ListingService{
		repo:   repo,
		mirror: mirror.New(),
	}
}

// Snapshot replaces the mirror with the remote collection's current
// contents, backfilling display ids for documents that lack one.
// Returns the number of mirrored listings.
func (s *ListingService) Snapshot(ctx context.Context) (int, error) {
	listings, err := s.repo.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot failed: %w", err)
	}

	taken := make(map[string]bool, len(listings))
	for _, l := range listings {
		if l.DisplayID != "" {
			taken[l.DisplayID] = true
		}
	}

	for _, l := range listings {
		if l.DisplayID != "" {
			continue
		}
		code := s.allocateDisplayID(taken)
		l.DisplayID = code
		// The code is durable only once patched back; on failure it
		// still serves this session and is regenerated on next load.
		if err := s.repo.Patch(ctx, l.DocumentID, map[string]interface{}{
			string(model.FieldDisplayID): code,
		}); err != nil {
			log.Printf("[ListingService] display id backfill failed for %s: %v", l.DocumentID, err)
		}
	}

	s.mirror.Load(listings)
	return len(listings), nil
}

// allocateDisplayID draws a fresh code and claims it in taken. A
// collision with the working set is only logged; the draw is still
// used, matching the accepted negligible-collision stance.
func (s *ListingService) allocateDisplayID(taken map[string]bool) string {
	code := displayid.New()
	if taken[code] {
		log.Printf("[ListingService] display id collision in working set: %s", code)
	}
	taken[code] = true
	return code
}

// MirroredCount returns the number of entries currently mirrored.
func (s *ListingService) MirroredCount() int {
	return s.mirror.Len()
}

// List projects the mirror through the free-text and status-tab
// filters. It never touches the remote store.
func (s *ListingService) List(query string, tab model.Tab) []mirror.Entry {
	return mirror.Project(s.mirror.All(), query, tab)
}

// Get returns one mirrored entry.
func (s *ListingService) Get(documentID string) (mirror.Entry, bool) {
	return s.mirror.Get(documentID)
}

// WriteField applies one field edit: mirror first, then a remote
// patch of exactly that field.
func (s *ListingService) WriteField(ctx context.Context, documentID string, field model.Field, value string) error {
	if !field.Editable() {
		return fmt.Errorf("%w: %s", ErrFieldNotEditable, field)
	}
	if err := s.mirror.Set(documentID, field, value); err != nil {
		return err
	}

	if err := s.repo.Patch(ctx, documentID, map[string]interface{}{string(field): value}); err != nil {
		log.Printf("[ListingService] auto-save failed for %s.%s: %v", documentID, field, err)
		return fmt.Errorf("auto-save failed: %w", err)
	}
	return nil
}

// CycleStatus advances the listing one step along the status cycle
// and persists all three flags as a single patch. The new status is
// returned even when the remote write fails.
func (s *ListingService) CycleStatus(ctx context.Context, documentID string) (model.Status, error) {
	entry, ok := s.mirror.Get(documentID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", mirror.ErrUnknownDocument, documentID)
	}

	next := entry.Status.Advance()
	if err := s.mirror.SetStatus(documentID, next); err != nil {
		return 0, err
	}

	sold, paid, finished := next.Flags()
	if err := s.repo.Patch(ctx, documentID, map[string]interface{}{
		"sold":     sold,
		"paid":     paid,
		"finished": finished,
	}); err != nil {
		log.Printf("[ListingService] status save failed for %s: %v", documentID, err)
		return next, fmt.Errorf("status save failed: %w", err)
	}
	return next, nil
}

// Delete removes the remote document first; the mirror entry goes
// only after the store confirms, so a failed delete stays visible
// and can be retried.
func (s *ListingService) Delete(ctx context.Context, documentID string) error {
	if err := s.repo.Delete(ctx, documentID); err != nil {
		log.Printf("[ListingService] delete failed for %s: %v", documentID, err)
		return err
	}
	s.mirror.Remove(documentID)
	return nil
}
