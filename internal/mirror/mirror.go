// Package mirror holds the in-memory, field-editable copy of the
// remote listing collection. All reads during normal operation are
// served from here; the remote store is only touched by the
// write-through path and by snapshot reloads.
package mirror

import (
	"errors"
	"fmt"
	"sync"

	"auctiondesk-api/internal/model"
)

// ErrUnknownDocument is returned when an operation targets a
// document id the mirror has never seen.
var ErrUnknownDocument = errors.New("unknown document")

// Entry is the editable in-memory counterpart of one remote listing.
// It carries the tagged status rather than the stored boolean flags.
type Entry struct {
	DocumentID string       `json:"document_id"`
	DisplayID  string       `json:"display_id"`
	Title      string       `json:"title"`
	SourceURL  string       `json:"source_url"`
	Image      string       `json:"image"`
	Image2     string       `json:"image2"`
	Remark     string       `json:"remark"`
	Barcode    string       `json:"barcode"`
	Note       string       `json:"note"`
	Status     model.Status `json:"status"`
}

// EntryFromListing builds the mirror entry for a stored listing.
func EntryFromListing(l *model.Listing) *Entry {
	return &Entry{
		DocumentID: l.DocumentID,
		DisplayID:  l.DisplayID,
		Title:      l.Title,
		SourceURL:  l.SourceURL,
		Image:      l.Image,
		Image2:     l.Image2,
		Remark:     l.Remark,
		Barcode:    l.Barcode,
		Note:       l.Note,
		Status:     l.Status(),
	}
}

// Mirror is an ordered table of entries keyed by document id. It
// reflects what the operator last set locally; reconciliation with
// the remote store is the writer's job, never the mirror's. All
// operations are synchronous in-memory mutations.
type Mirror struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []string
}

// New creates an empty mirror.
func New() *Mirror {
	return &Mirror{entries: make(map[string]*Entry)}
}

// Load replaces the entire mirror content with the given snapshot,
// preserving input order.
func (m *Mirror) Load(snapshot []*model.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*Entry, len(snapshot))
	m.order = m.order[:0]
	for _, l := range snapshot {
		if _, dup := m.entries[l.DocumentID]; dup {
			continue
		}
		m.entries[l.DocumentID] = EntryFromListing(l)
		m.order = append(m.order, l.DocumentID)
	}
}

// Get returns a copy of the entry, or false if absent.
func (m *Mirror) Get(documentID string) (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[documentID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Set mutates a single field of one entry. Unknown documents and
// fields without an entry slot are rejected; the caller decides
// whether that is worth surfacing.
func (m *Mirror) Set(documentID string, field model.Field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[documentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, documentID)
	}

	switch field {
	case model.FieldDisplayID:
		e.DisplayID = value
	case model.FieldImage:
		e.Image = value
	case model.FieldImage2:
		e.Image2 = value
	case model.FieldRemark:
		e.Remark = value
	case model.FieldBarcode:
		e.Barcode = value
	case model.FieldNote:
		e.Note = value
	default:
		return fmt.Errorf("mirror: field %q has no entry slot", field)
	}
	return nil
}

// SetStatus replaces the workflow stage of one entry.
func (m *Mirror) SetStatus(documentID string, s model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[documentID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, documentID)
	}
	e.Status = s
	return nil
}

// Insert appends an entry for a freshly created listing. A duplicate
// document id overwrites in place without disturbing order.
func (m *Mirror) Insert(e *Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *e
	if _, ok := m.entries[e.DocumentID]; !ok {
		m.order = append(m.order, e.DocumentID)
	}
	m.entries[e.DocumentID] = &cp
}

// Remove drops an entry. Removing an absent id is a no-op.
func (m *Mirror) Remove(documentID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[documentID]; !ok {
		return
	}
	delete(m.entries, documentID)
	for i, id := range m.order {
		if id == documentID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// All returns copies of every entry in insertion order.
func (m *Mirror) All() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.entries[id])
	}
	return out
}

// Len returns the number of entries.
func (m *Mirror) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
