package service

import (
	"context"
	"math/rand"
	"testing"

	"github.com/Onimix/SVIRTUAL/internal/interfaces"
	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubFeed 测试桩：记录注册的回调与连接状态，不开真实连接
type stubFeed struct {
	handlers    interfaces.FeedHandlers
	connected   bool
	connects    int
	disconnects int
}

func (s *stubFeed) Connect() error {
	s.connects++
	s.connected = true
	if s.handlers.OnConnect != nil {
		s.handlers.OnConnect()
	}
	return nil
}

func (s *stubFeed) Disconnect() {
	s.disconnects++
	s.connected = false
	if s.handlers.OnDisconnect != nil {
		s.handlers.OnDisconnect()
	}
}

func (s *stubFeed) Status() interfaces.FeedStatus {
	return interfaces.FeedStatus{Connected: s.connected, Platform: "sportybet"}
}

func (s *stubFeed) SetHandlers(h interfaces.FeedHandlers) { s.handlers = h }

func newTestEngine(t *testing.T, db *gorm.DB) (*Engine, *stubFeed) {
	t.Helper()
	matchRepo := repository.NewMatchRepository(db)
	predRepo := repository.NewPredictionRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	generator := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(7)))
	grading := NewGradingService(matchRepo, predRepo, statsRepo, testLogger())

	feed := &stubFeed{}
	engine := NewEngine(feed, generator, grading, matchRepo, predRepo, statsRepo, "sportybet", testLogger())
	return engine, feed
}

func TestEngineStartStop(t *testing.T) {
	db := newTestDB(t)
	engine, feed := newTestEngine(t, db)

	require.NoError(t, engine.Start())
	assert.Equal(t, 1, feed.connects)
	assert.True(t, engine.Status().Connected)

	// 连接建立时平台状态被刷成在线
	var status model.PlatformStatus
	require.NoError(t, db.Where("platform = ?", "sportybet").First(&status).Error)
	assert.Equal(t, model.PlatformOnline, status.Status)
	assert.Equal(t, model.APIConnected, status.APIStatus)

	engine.Stop()
	assert.Equal(t, 1, feed.disconnects)
	assert.False(t, engine.Status().Connected)

	require.NoError(t, db.Where("platform = ?", "sportybet").First(&status).Error)
	assert.Equal(t, model.PlatformOffline, status.Status)
}

func TestEngineMatchAnnounced(t *testing.T) {
	db := newTestDB(t)
	_, feed := newTestEngine(t, db)

	feed.handlers.OnMatchAnnounced(&model.MatchAnnouncedPayload{
		MatchID:       "vpl_100",
		League:        "Virtual Premier League",
		HomeTeam:      "Lagos VFC",
		AwayTeam:      "Abuja United",
		ScheduledTime: "2026-08-31T12:00:00Z",
	})

	var m model.Match
	require.NoError(t, db.Where("match_id = ?", "vpl_100").First(&m).Error)
	assert.Equal(t, model.MatchScheduled, m.Status)

	var predictions int64
	require.NoError(t, db.Model(&model.Prediction{}).Where("match_id = ?", m.ID).Count(&predictions).Error)
	assert.Equal(t, int64(16), predictions)

	var logs int64
	require.NoError(t, db.Model(&model.ActivityLog{}).
		Where("type = ?", model.ActivityPredictionGenerated).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestEngineMatchAnnouncedDefaults(t *testing.T) {
	db := newTestDB(t)
	_, feed := newTestEngine(t, db)

	// 空载荷：全部字段走兜底值，事件不丢弃
	feed.handlers.OnMatchAnnounced(&model.MatchAnnouncedPayload{})

	var m model.Match
	require.NoError(t, db.First(&m).Error)
	assert.NotEmpty(t, m.MatchID)
	assert.Equal(t, "Virtual Premier League", m.League)
	assert.Equal(t, "Home Team", m.HomeTeam)
	assert.Equal(t, "Away Team", m.AwayTeam)
}

func TestEngineMatchLifecycle(t *testing.T) {
	db := newTestDB(t)
	_, feed := newTestEngine(t, db)
	ctx := context.Background()

	feed.handlers.OnMatchAnnounced(&model.MatchAnnouncedPayload{MatchID: "vpl_200"})

	feed.handlers.OnMatchLive(&model.MatchLivePayload{MatchID: "vpl_200"})
	m, err := repository.NewMatchRepository(db).GetByExternalID(ctx, "vpl_200")
	require.NoError(t, err)
	assert.Equal(t, model.MatchLive, m.Status)

	// 未知比赛的开赛事件静默忽略
	feed.handlers.OnMatchLive(&model.MatchLivePayload{MatchID: "no_such"})

	feed.handlers.OnMatchResult(&model.MatchResultPayload{MatchID: "vpl_200", Score: "1-1"})
	m, err = repository.NewMatchRepository(db).GetByExternalID(ctx, "vpl_200")
	require.NoError(t, err)
	assert.Equal(t, model.MatchFinished, m.Status)
	require.NotNil(t, m.HomeScore)
	assert.Equal(t, 1, *m.HomeScore)

	// 比分无法解析的事件直接丢弃，不触发结算
	feed.handlers.OnMatchResult(&model.MatchResultPayload{MatchID: "vpl_200", Score: "abandoned"})
	m, _ = repository.NewMatchRepository(db).GetByExternalID(ctx, "vpl_200")
	assert.Equal(t, 1, *m.HomeScore)
}
