package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Onimix/SVIRTUAL/internal/config"
	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformCheckerCheckAll(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer broken.Close()

	db := newTestDB(t)
	statsRepo := repository.NewStatsRepository(db)

	platforms := map[string]config.PlatformConfig{
		"sportybet": {BaseURL: ok.URL, Timeout: 2, Enabled: true},
		"bet365":    {BaseURL: broken.URL, Timeout: 2, Enabled: true},
		"1xbet":     {BaseURL: "http://127.0.0.1:1", Timeout: 1, Enabled: true},
		"disabled":  {BaseURL: ok.URL, Enabled: false},
	}

	checker := NewPlatformChecker(platforms, statsRepo, testLogger())
	checker.CheckAll(context.Background())

	rows, err := statsRepo.ListPlatformStatus(context.Background())
	require.NoError(t, err)
	byName := make(map[string]*model.PlatformStatus, len(rows))
	for _, r := range rows {
		byName[r.Platform] = r
	}

	require.Contains(t, byName, "sportybet")
	assert.Equal(t, model.PlatformOnline, byName["sportybet"].Status)
	assert.Equal(t, model.APIConnected, byName["sportybet"].APIStatus)

	// 5xx 视为维护中
	require.Contains(t, byName, "bet365")
	assert.Equal(t, model.PlatformMaintenance, byName["bet365"].Status)
	assert.Equal(t, model.APIError, byName["bet365"].APIStatus)

	// 连不上视为离线
	require.Contains(t, byName, "1xbet")
	assert.Equal(t, model.PlatformOffline, byName["1xbet"].Status)

	// 未启用的平台不巡检
	assert.NotContains(t, byName, "disabled")
}
