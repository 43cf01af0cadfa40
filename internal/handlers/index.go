package handlers

import (
	"context"
	"net/http"

	"meetingnotes/internal/contextutil"
	"meetingnotes/internal/service"
)

// IndexHandler handles HTTP requests for triggering re-indexing.
type IndexHandler struct {
	catalog service.CatalogService
	done    func()
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(catalog service.CatalogService) *IndexHandler {
	return &IndexHandler{catalog: catalog}
}

// IndexResponse represents the response from the index endpoint.
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/index.
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	force := r.URL.Query().Get("force") == "true"
	if force {
		logger.InfoContext(ctx, "force re-indexing triggered via API")
	} else {
		logger.InfoContext(ctx, "re-indexing triggered via API")
	}

	// Indexing outlives the request, so it runs on a fresh context carrying the request logger.
	go func() {
		if h.done != nil {
			defer h.done()
		}
		indexCtx := contextutil.WithLogger(context.Background(), logger)
		results, err := h.catalog.Reindex(indexCtx, force)
		if err != nil {
			logger.ErrorContext(indexCtx, "re-indexing completed with errors", "error", err)
			return
		}
		written := 0
		for _, res := range results {
			if res.Written {
				written++
			}
		}
		logger.InfoContext(indexCtx, "re-indexing completed successfully", "years", len(results), "indexes_written", written)
	}()

	message := "Indexing started. Check server logs for progress."
	if force {
		message = "Force re-indexing started (catalog cleared). Check server logs for progress."
	}
	writeJSON(w, ctx, http.StatusAccepted, IndexResponse{
		Message: message,
		Status:  "accepted",
	})
}
