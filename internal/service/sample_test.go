package service

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSample(t *testing.T) {
	db := newTestDB(t)
	matchRepo := repository.NewMatchRepository(db)
	predRepo := repository.NewPredictionRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	generator := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(11)))

	svc := NewSampleService(matchRepo, predRepo, statsRepo, generator, "sportybet", testLogger())

	m, count, err := svc.GenerateSample(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 16, count)
	assert.True(t, strings.HasPrefix(m.MatchID, "sample_"))
	assert.Equal(t, model.MatchScheduled, m.Status)
	assert.NotEmpty(t, m.HomeTeam)
	assert.NotEmpty(t, m.AwayTeam)

	var predictions int64
	require.NoError(t, db.Model(&model.Prediction{}).Where("match_id = ?", m.ID).Count(&predictions).Error)
	assert.Equal(t, int64(16), predictions)

	var logs int64
	require.NoError(t, db.Model(&model.ActivityLog{}).
		Where("type = ?", model.ActivitySampleGenerated).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)

	// 多次调用生成互不冲突的比赛ID
	m2, _, err := svc.GenerateSample(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, m.MatchID, m2.MatchID)
}
