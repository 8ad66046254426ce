package mirror

import (
	"sort"
	"strings"

	"auctiondesk-api/internal/model"
)

// Project derives the display view of a set of entries: a free-text
// predicate ANDed with a status-tab predicate, then a stable sort
// that pushes finished entries behind everything still in progress.
// It never touches the remote store.
func Project(entries []Entry, query string, tab model.Tab) []Entry {
	keyword := strings.ToLower(strings.TrimSpace(query))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !matchesKeyword(&e, keyword) {
			continue
		}
		if !tab.Matches(e.Status) {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status != model.StatusFinished && out[j].Status == model.StatusFinished
	})
	return out
}

// matchesKeyword checks the lower-cased keyword against title,
// remark, barcode and display id. An empty keyword matches.
func matchesKeyword(e *Entry, keyword string) bool {
	if keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Title), keyword) ||
		strings.Contains(strings.ToLower(e.Remark), keyword) ||
		strings.Contains(strings.ToLower(e.Barcode), keyword) ||
		strings.Contains(strings.ToLower(e.DisplayID), keyword)
}
