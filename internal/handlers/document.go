package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"meetingnotes/internal/service"
)

// DocumentResponse describes one catalogued meeting.
type DocumentResponse struct {
	ID        string   `json:"id"`
	Year      int      `json:"year"`
	Date      string   `json:"date"`
	Path      string   `json:"path"`
	FileName  string   `json:"file_name"`
	Title     string   `json:"title"`
	Topics    []string `json:"topics"`
	Hash      string   `json:"hash"`
	UpdatedAt string   `json:"updated_at"`
}

// DocumentHandler serves a single meeting looked up by date.
type DocumentHandler struct {
	catalog service.CatalogService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(catalog service.CatalogService) *DocumentHandler {
	return &DocumentHandler{catalog: catalog}
}

// ServeHTTP handles GET /api/documents/{date}.
func (h *DocumentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, err := h.catalog.Document(ctx, chi.URLParam(r, "date"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to get document")
		return
	}

	topics := doc.Topics
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, ctx, http.StatusOK, DocumentResponse{
		ID:        doc.ID,
		Year:      doc.Year,
		Date:      doc.MeetingDate.Format(time.DateOnly),
		Path:      doc.RelPath,
		FileName:  doc.FileName,
		Title:     doc.Title,
		Topics:    topics,
		Hash:      doc.Hash,
		UpdatedAt: doc.UpdatedAt.UTC().Format(time.RFC3339),
	})
}
