package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"meetingnotes/internal/index"
	"meetingnotes/internal/indexer"
	"meetingnotes/internal/service/mocks"
	"meetingnotes/internal/storage"
)

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{CatalogService: mocks.NewMockCatalogService(ctrl)})
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		mockSetup  func(*mocks.MockCatalogService)
		wantStatus int
	}{
		{
			name:   "GET /api/health",
			method: http.MethodGet,
			path:   "/api/health",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().Health(gomock.Any()).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/years",
			method: http.MethodGet,
			path:   "/api/years",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().Years(gomock.Any()).Return([]storage.YearCount{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/years/{year}",
			method: http.MethodGet,
			path:   "/api/years/2018",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().YearIndex(gomock.Any(), 2018).Return(index.YearIndex{Year: 2018}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/years/{year}/index.md",
			method: http.MethodGet,
			path:   "/api/years/2018/index.md",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().RenderYear(gomock.Any(), 2018).Return([]byte("# Meeting notes for 2018\n"), nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/documents/{date}",
			method: http.MethodGet,
			path:   "/api/documents/2018-01-03",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().Document(gomock.Any(), "2018-01-03").Return(&storage.DocumentRecord{FileName: "LDM-2018-01-03.md"}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/check",
			method: http.MethodGet,
			path:   "/api/check",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().Check(gomock.Any()).Return(indexer.CheckReport{YearsChecked: 1}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "GET /api/stats",
			method: http.MethodGet,
			path:   "/api/stats",
			mockSetup: func(m *mocks.MockCatalogService) {
				m.EXPECT().Stats(gomock.Any()).Return(&indexer.CatalogStats{}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/index not allowed",
			method:     http.MethodGet,
			path:       "/api/index",
			mockSetup:  func(m *mocks.MockCatalogService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/api/chat",
			mockSetup:  func(m *mocks.MockCatalogService) {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "OPTIONS preflight",
			method:     http.MethodOptions,
			path:       "/api/years",
			mockSetup:  func(m *mocks.MockCatalogService) {},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockCatalog := mocks.NewMockCatalogService(ctrl)
			tt.mockSetup(mockCatalog)
			router := NewRouter(&Deps{CatalogService: mockCatalog})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
