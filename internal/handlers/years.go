package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"meetingnotes/internal/contextutil"
	"meetingnotes/internal/index"
	"meetingnotes/internal/service"
)

// YearSummary is one entry of the years listing.
type YearSummary struct {
	Year      int `json:"year"`
	Documents int `json:"documents"`
}

// YearsResponse lists every catalogued year.
type YearsResponse struct {
	Years []YearSummary `json:"years"`
}

// EntryResponse is one meeting of a year listing.
type EntryResponse struct {
	Date     string   `json:"date"`
	FileName string   `json:"file_name"`
	Title    string   `json:"title"`
	Topics   []string `json:"topics"`
}

// YearIndexResponse is the JSON form of a year listing.
type YearIndexResponse struct {
	Year    int             `json:"year"`
	Entries []EntryResponse `json:"entries"`
}

// YearsHandler serves the list of years.
type YearsHandler struct {
	catalog service.CatalogService
}

// NewYearsHandler creates a new YearsHandler.
func NewYearsHandler(catalog service.CatalogService) *YearsHandler {
	return &YearsHandler{catalog: catalog}
}

// ServeHTTP handles GET /api/years.
func (h *YearsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	years, err := h.catalog.Years(ctx)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list years")
		return
	}

	resp := YearsResponse{Years: make([]YearSummary, 0, len(years))}
	for _, y := range years {
		resp.Years = append(resp.Years, YearSummary{Year: y.Year, Documents: y.Documents})
	}
	writeJSON(w, ctx, http.StatusOK, resp)
}

// YearIndexHandler serves one year's listing, either as JSON or as rendered markdown.
type YearIndexHandler struct {
	catalog  service.CatalogService
	markdown bool
}

// NewYearIndexHandler creates a handler returning the listing as JSON.
func NewYearIndexHandler(catalog service.CatalogService) *YearIndexHandler {
	return &YearIndexHandler{catalog: catalog}
}

// NewYearMarkdownHandler creates a handler returning the listing as markdown.
func NewYearMarkdownHandler(catalog service.CatalogService) *YearIndexHandler {
	return &YearIndexHandler{catalog: catalog, markdown: true}
}

// ServeHTTP handles GET /api/years/{year} and GET /api/years/{year}/index.md.
func (h *YearIndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rawYear := chi.URLParam(r, "year")
	year, err := strconv.Atoi(rawYear)
	if err != nil {
		logger.WarnContext(ctx, "invalid year parameter", "year", rawYear)
		writeError(w, http.StatusBadRequest, "Invalid year")
		return
	}

	if h.markdown {
		content, err := h.catalog.RenderYear(ctx, year)
		if err != nil {
			handleServiceError(w, ctx, err, "Failed to render year index")
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
		return
	}

	idx, err := h.catalog.YearIndex(ctx, year)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to build year index")
		return
	}
	writeJSON(w, ctx, http.StatusOK, toYearIndexResponse(idx))
}

func toYearIndexResponse(idx index.YearIndex) YearIndexResponse {
	resp := YearIndexResponse{
		Year:    idx.Year,
		Entries: make([]EntryResponse, 0, len(idx.Entries)),
	}
	for _, e := range idx.Entries {
		topics := e.Topics
		if topics == nil {
			topics = []string{}
		}
		resp.Entries = append(resp.Entries, EntryResponse{
			Date:     e.Date.Format(time.DateOnly),
			FileName: e.FileName,
			Title:    e.Title,
			Topics:   topics,
		})
	}
	return resp
}
