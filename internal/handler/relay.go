package handler

import (
	"net/http"

	"auctiondesk-api/internal/fetch"
	"auctiondesk-api/pkg/apierror"
	"auctiondesk-api/pkg/response"
)

// RelayHandler serves source-page markup to browser clients that the
// page's own origin policy would otherwise block from fetching it.
type RelayHandler struct {
	fetcher *fetch.Fetcher
}

// NewRelayHandler creates a new relay handler.
func NewRelayHandler(fetcher *fetch.Fetcher) *RelayHandler {
	return &RelayHandler{fetcher: fetcher}
}

// Fetch handles GET /api/v1/fetch?url=
// The target page's markup is passed through verbatim with its
// upstream status; network failures map to 502.
func (h *RelayHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		response.Error(w, apierror.BadRequest("url is required"))
		return
	}

	status, body, err := h.fetcher.Fetch(r.Context(), target)
	if err != nil {
		response.Error(w, apierror.BadGateway("failed to fetch target URL"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
