package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"auctiondesk-api/internal/mirror"
	"auctiondesk-api/internal/model"
	"auctiondesk-api/internal/repository"
	"auctiondesk-api/internal/service"
	"auctiondesk-api/pkg/apierror"
	"auctiondesk-api/pkg/datauri"
	"auctiondesk-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// maxImageBytes bounds a single uploaded image file.
const maxImageBytes = 16 << 20

// ListingHandler handles listing-related HTTP requests.
type ListingHandler struct {
	listings *service.ListingService
	ingest   *service.IngestService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listings *service.ListingService, ingest *service.IngestService) *ListingHandler {
	return &ListingHandler{
		listings: listings,
		ingest:   ingest,
	}
}

// List handles GET /api/v1/listings?q=&tab=
func (h *ListingHandler) List(w http.ResponseWriter, r *http.Request) {
	tab, err := model.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		response.Error(w, apierror.BadRequest(err.Error()))
		return
	}

	entries := h.listings.List(r.URL.Query().Get("q"), tab)
	response.JSONWithTotal(w, http.StatusOK, entries, len(entries))
}

// ingestRequest carries a pasted blob of auction URLs.
type ingestRequest struct {
	URLs string `json:"urls"`
}

// Ingest handles POST /api/v1/listings
func (h *ListingHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	defer r.Body.Close()

	if req.URLs == "" {
		response.Error(w, apierror.BadRequest("urls is required"))
		return
	}

	result := h.ingest.Ingest(r.Context(), req.URLs)
	if len(result.Created) > 0 {
		response.Created(w, result)
		return
	}
	response.OK(w, result)
}

// Reload handles POST /api/v1/listings/reload
func (h *ListingHandler) Reload(w http.ResponseWriter, r *http.Request) {
	count, err := h.listings.Snapshot(r.Context())
	if err != nil {
		response.Error(w, apierror.ServiceUnavailable("failed to reload from store"))
		return
	}
	response.OK(w, map[string]interface{}{"reloaded": count})
}

// Get handles GET /api/v1/listings/{document_id}
func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")
	entry, ok := h.listings.Get(documentID)
	if !ok {
		response.Error(w, apierror.NotFound("listing not found"))
		return
	}
	response.OK(w, entry)
}

// PatchFields handles PATCH /api/v1/listings/{document_id}.
// The body is a flat object of annotation fields; each is written
// through individually, mirror first.
func (h *ListingHandler) PatchFields(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	defer r.Body.Close()

	if len(fields) == 0 {
		response.Error(w, apierror.BadRequest("no fields to update"))
		return
	}

	for name, value := range fields {
		if err := h.listings.WriteField(r.Context(), documentID, model.Field(name), value); err != nil {
			response.Error(w, writeError(err, name))
			return
		}
	}

	entry, _ := h.listings.Get(documentID)
	response.OK(w, entry)
}

// CycleStatus handles POST /api/v1/listings/{document_id}/status/cycle
func (h *ListingHandler) CycleStatus(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")

	next, err := h.listings.CycleStatus(r.Context(), documentID)
	if err != nil {
		if errors.Is(err, mirror.ErrUnknownDocument) {
			response.Error(w, apierror.NotFound("listing not found"))
			return
		}
		// The mirror already advanced; the remote write is what failed.
		response.Error(w, apierror.ServiceUnavailable("status saved locally but not persisted"))
		return
	}

	response.OK(w, map[string]interface{}{
		"document_id": documentID,
		"status":      next.String(),
	})
}

// UploadImage handles POST /api/v1/listings/{document_id}/images/{slot}
// with a multipart "file" part. slot is "primary" or "secondary".
func (h *ListingHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")

	var field model.Field
	switch chi.URLParam(r, "slot") {
	case "primary":
		field = model.FieldImage
	case "secondary":
		field = model.FieldImage2
	default:
		response.Error(w, apierror.BadRequest("slot must be primary or secondary"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		response.Error(w, apierror.BadRequest("file is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read file"))
		return
	}

	if err := h.listings.WriteField(r.Context(), documentID, field, datauri.Encode(data)); err != nil {
		response.Error(w, writeError(err, string(field)))
		return
	}

	entry, _ := h.listings.Get(documentID)
	response.OK(w, entry)
}

// Delete handles DELETE /api/v1/listings/{document_id}
func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "document_id")

	if err := h.listings.Delete(r.Context(), documentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, apierror.NotFound("listing not found"))
			return
		}
		// The entry stays in the mirror so the delete can be retried.
		response.Error(w, apierror.ServiceUnavailable("delete failed; listing kept"))
		return
	}

	response.NoContent(w)
}

// writeError maps a write-through failure onto an API error.
func writeError(err error, field string) *apierror.Error {
	switch {
	case errors.Is(err, mirror.ErrUnknownDocument):
		return apierror.NotFound("listing not found")
	case errors.Is(err, service.ErrFieldNotEditable):
		return apierror.ValidationError("field cannot be edited",
			apierror.FieldError{Field: field, Message: "not an annotation field"})
	default:
		return apierror.ServiceUnavailable("change saved locally but not persisted")
	}
}
