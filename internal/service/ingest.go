package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"auctiondesk-api/internal/fetch"
	"auctiondesk-api/internal/mirror"
	"auctiondesk-api/internal/model"
	"auctiondesk-api/internal/scrape"
)

// IngestService turns pasted auction URLs into stored listings: each
// URL is fetched through the relay fetcher, its metadata extracted,
// the document created remotely and the mirror entry inserted.
type IngestService struct {
	listings   *ListingService
	fetcher    *fetch.Fetcher
	hostFilter string
}

// NewIngestService creates a new ingest service. hostFilter keeps
// only URLs whose host contains the given fragment; empty accepts
// every host.
func NewIngestService(listings *ListingService, fetcher *fetch.Fetcher, hostFilter string) *IngestService {
	if listings == nil || fetcher == nil {
		return nil
	}
	return &IngestService{
		listings:   listings,
		fetcher:    fetcher,
		hostFilter: hostFilter,
	}
}

// IngestFailure records one URL that produced no listing.
type IngestFailure struct {
	URL    string `json:"url"`
	Reason string `json:"reason"`
}

// IngestResult reports what a pasted blob produced.
type IngestResult struct {
	Created []mirror.Entry  `json:"created"`
	Failed  []IngestFailure `json:"failed"`
	Skipped int             `json:"skipped"`
}

// Ingest processes a pasted blob of auction URLs. A URL that cannot
// be retrieved fails alone; the rest of the blob still goes through.
func (s *IngestService) Ingest(ctx context.Context, raw string) IngestResult {
	var result IngestResult

	for _, target := range SplitURLs(raw) {
		if !s.hostAllowed(target) {
			result.Skipped++
			continue
		}

		status, body, err := s.fetcher.Fetch(ctx, target)
		if err != nil {
			result.Failed = append(result.Failed, IngestFailure{URL: target, Reason: err.Error()})
			continue
		}
		if status != http.StatusOK {
			result.Failed = append(result.Failed, IngestFailure{
				URL:    target,
				Reason: fmt.Sprintf("source returned status %d", status),
			})
			continue
		}

		meta := scrape.Extract(body, target)
		entry, err := s.listings.Create(ctx, meta)
		if err != nil {
			result.Failed = append(result.Failed, IngestFailure{URL: target, Reason: err.Error()})
			continue
		}
		log.Printf("[IngestService] created listing %s (%s) from %s", entry.DocumentID, entry.DisplayID, meta.RawID)
		result.Created = append(result.Created, entry)
	}

	return result
}

func (s *IngestService) hostAllowed(target string) bool {
	if s.hostFilter == "" {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return strings.Contains(u.Host, s.hostFilter)
}

var urlScheme = regexp.MustCompile(`https?://`)

// SplitURLs breaks a pasted blob into individual URLs. Input often
// arrives as one run-together string, so splitting happens on the
// scheme itself rather than on whitespace alone.
func SplitURLs(raw string) []string {
	locs := urlScheme.FindAllStringIndex(raw, -1)
	var out []string
	for i, loc := range locs {
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		u := strings.TrimSpace(raw[loc[0]:end])
		if u == "" || u == "http://" || u == "https://" {
			continue
		}
		out = append(out, u)
	}
	return out
}

// Create persists a listing built from extracted metadata and
// inserts its mirror entry. The display id is assigned here, before
// the create, so it persists with the document.
func (s *ListingService) Create(ctx context.Context, meta scrape.Metadata) (mirror.Entry, error) {
	taken := make(map[string]bool)
	for _, e := range s.mirror.All() {
		if e.DisplayID != "" {
			taken[e.DisplayID] = true
		}
	}

	l := &model.Listing{
		DisplayID: s.allocateDisplayID(taken),
		Title:     meta.Title,
		SourceURL: meta.SourceURL,
		Image:     meta.Image,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.repo.Create(ctx, l)
	if err != nil {
		return mirror.Entry{}, fmt.Errorf("create failed: %w", err)
	}
	l.DocumentID = id

	entry := mirror.EntryFromListing(l)
	s.mirror.Insert(entry)
	return *entry, nil
}
