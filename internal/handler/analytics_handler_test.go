package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gamassss/linkdash/internal/domain"
	"github.com/gamassss/linkdash/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAnalyticsRouter() (*gin.Engine, *mocks.MockAnalyticsService) {
	svc := new(mocks.MockAnalyticsService)
	h := NewAnalyticsHandler(svc)
	router := setupTestRouter()
	router.GET("/api/analytics/overview", h.Overview)
	router.GET("/api/links/:id/clicks", h.LinkClicks)
	return router, svc
}

func TestOverview_Success(t *testing.T) {
	router, svc := newAnalyticsRouter()

	svc.On("Overview", mock.Anything, testUser).Return(&domain.Overview{
		Summary: domain.OverviewSummary{TotalLinks: 3, TotalClicks: 42},
	}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/analytics/overview", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	summary := decode(t, w)["data"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.EqualValues(t, 42, summary["total_clicks"])
}

func TestOverview_Failure(t *testing.T) {
	router, svc := newAnalyticsRouter()

	svc.On("Overview", mock.Anything, testUser).Return(nil, errors.New("failed to load analytics: timeout")).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/analytics/overview", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to load analytics", decode(t, w)["error"])
}

func TestLinkClicks_Paging(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, defaultPageSize},
		{"explicit", "?page=3&page_size=50", 3, 50},
		{"clamped", "?page=0&page_size=1000", 1, maxPageSize},
		{"garbage", "?page=abc&page_size=-4", 1, defaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newAnalyticsRouter()
			svc.On("LinkClicks", mock.Anything, testUser, "l1", tt.wantPage, tt.wantPageSize).
				Return(&domain.ClickHistory{Page: tt.wantPage, PageSize: tt.wantPageSize}, nil).Once()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/links/l1/clicks"+tt.query, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestLinkClicks_NotOwned(t *testing.T) {
	router, svc := newAnalyticsRouter()

	svc.On("LinkClicks", mock.Anything, testUser, "l1", 1, defaultPageSize).Return(nil, domain.ErrLinkNotFound).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/links/l1/clicks", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
