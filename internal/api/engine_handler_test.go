package api

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Onimix/SVIRTUAL/internal/interfaces"
	"github.com/Onimix/SVIRTUAL/internal/repository"
	"github.com/Onimix/SVIRTUAL/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubFeed 不开真实连接的推送源桩
type stubFeed struct {
	handlers  interfaces.FeedHandlers
	connected bool
}

func (s *stubFeed) Connect() error {
	s.connected = true
	return nil
}
func (s *stubFeed) Disconnect() { s.connected = false }
func (s *stubFeed) Status() interfaces.FeedStatus {
	return interfaces.FeedStatus{Connected: s.connected, Platform: "sportybet"}
}
func (s *stubFeed) SetHandlers(h interfaces.FeedHandlers) { s.handlers = h }

func newEngineRouter(t *testing.T, db *gorm.DB) (*gin.Engine, *stubFeed) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	matchRepo := repository.NewMatchRepository(db)
	predRepo := repository.NewPredictionRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	generator := service.NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(3)))
	grading := service.NewGradingService(matchRepo, predRepo, statsRepo, testLogger())

	feed := &stubFeed{}
	engine := service.NewEngine(feed, generator, grading, matchRepo, predRepo, statsRepo, "sportybet", testLogger())
	sample := service.NewSampleService(matchRepo, predRepo, statsRepo, generator, "sportybet", testLogger())

	h := NewEngineHandler(engine, sample, testLogger())
	r := gin.New()
	r.POST("/api/predictions/start-engine", h.StartEngine)
	r.GET("/api/predictions/engine-status", h.EngineStatus)
	r.POST("/api/predictions/generate-sample", h.GenerateSample)
	return r, feed
}

func TestStartEngineAndStatus(t *testing.T) {
	db := newTestDB(t)
	r, feed := newEngineRouter(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/predictions/start-engine", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, feed.connected)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/predictions/engine-status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status struct {
		Connected bool   `json:"connected"`
		Platform  string `json:"platform"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Connected)
	assert.Equal(t, "sportybet", status.Platform)
}

func TestGenerateSampleEndpoint(t *testing.T) {
	db := newTestDB(t)
	r, _ := newEngineRouter(t, db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/predictions/generate-sample", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message          string `json:"message"`
		PredictionsCount int    `json:"predictions_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 16, resp.PredictionsCount)
	assert.NotEmpty(t, resp.Message)
}
