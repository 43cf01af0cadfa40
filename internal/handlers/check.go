package handlers

import (
	"net/http"

	"meetingnotes/internal/service"
)

// BrokenLink is one unresolved index reference.
type BrokenLink struct {
	Year   int    `json:"year"`
	Target string `json:"target"`
}

// CheckResponse is the result of a cross-reference check.
type CheckResponse struct {
	Status         string       `json:"status"`
	YearsChecked   int          `json:"years_checked"`
	BrokenLinks    []BrokenLink `json:"broken_links,omitempty"`
	MissingIndexes []int        `json:"missing_indexes,omitempty"`
}

// CheckHandler runs the cross-reference check over every year index.
// Returns 200 when every link resolves and 422 otherwise.
type CheckHandler struct {
	catalog service.CatalogService
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(catalog service.CatalogService) *CheckHandler {
	return &CheckHandler{catalog: catalog}
}

// ServeHTTP handles GET /api/check.
func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.catalog.Check(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to check indexes")
		return
	}

	resp := CheckResponse{
		Status:         "ok",
		YearsChecked:   report.YearsChecked,
		MissingIndexes: report.MissingIndexes,
	}
	for _, b := range report.Broken {
		resp.BrokenLinks = append(resp.BrokenLinks, BrokenLink{Year: b.Year, Target: b.Target})
	}

	status := http.StatusOK
	if !report.OK() {
		resp.Status = "broken"
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, ctx, status, resp)
}
