package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/interfaces"
	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// 新比赛公告缺字段时的兜底值
const (
	defaultLeague       = "Virtual Premier League"
	defaultKickoffDelay = 5 * time.Minute
)

// Engine 预测引擎：组合推送源客户端、预测生成器与结算引擎。
// 显式构造、显式 Start/Stop，由进程组装根持有（不做包级单例）
type Engine struct {
	feed      interfaces.FeedClient
	generator *PredictionGenerator
	grading   *GradingService
	matchRepo repository.MatchRepository
	predRepo  repository.PredictionRepository
	statsRepo repository.StatsRepository
	platform  string
	logger    *logrus.Logger
}

// NewEngine 创建预测引擎并注册推送源回调
func NewEngine(
	feed interfaces.FeedClient,
	generator *PredictionGenerator,
	grading *GradingService,
	matchRepo repository.MatchRepository,
	predRepo repository.PredictionRepository,
	statsRepo repository.StatsRepository,
	platform string,
	logger *logrus.Logger,
) *Engine {
	e := &Engine{
		feed:      feed,
		generator: generator,
		grading:   grading,
		matchRepo: matchRepo,
		predRepo:  predRepo,
		statsRepo: statsRepo,
		platform:  platform,
		logger:    logger,
	}
	feed.SetHandlers(interfaces.FeedHandlers{
		OnMatchAnnounced: e.handleMatchAnnounced,
		OnMatchResult:    e.handleMatchResult,
		OnMatchLive:      e.handleMatchLive,
		OnConnect:        e.handleConnect,
		OnDisconnect:     e.handleDisconnect,
	})
	return e
}

// Start 启动引擎（连接推送源）。已连接时幂等
func (e *Engine) Start() error {
	return e.feed.Connect()
}

// Stop 停止引擎（断开推送源并停止自动重连）
func (e *Engine) Stop() {
	e.feed.Disconnect()
}

// Status 引擎连接状态
func (e *Engine) Status() interfaces.FeedStatus {
	return e.feed.Status()
}

// handleMatchAnnounced 新比赛公告：建比赛记录，批量生成并落库预测，追加活动日志。
// 任一步失败仅记录日志，事件内后续步骤跳过，不影响其它事件
func (e *Engine) handleMatchAnnounced(p *model.MatchAnnouncedPayload) {
	ctx := context.Background()

	m := &model.Match{
		MatchID:       p.MatchID,
		Platform:      e.platform,
		League:        p.League,
		HomeTeam:      p.HomeTeam,
		AwayTeam:      p.AwayTeam,
		ScheduledTime: parseScheduledTime(p.ScheduledTime),
		Status:        model.MatchScheduled,
		Metadata:      datatypes.JSON(`{"source":"websocket"}`),
	}
	if m.MatchID == "" {
		m.MatchID = "vf_" + uuid.NewString()
	}
	if m.League == "" {
		m.League = defaultLeague
	}
	if m.HomeTeam == "" {
		m.HomeTeam = "Home Team"
	}
	if m.AwayTeam == "" {
		m.AwayTeam = "Away Team"
	}

	if err := e.matchRepo.CreateMatch(ctx, m); err != nil {
		e.logger.WithError(err).WithField("match_id", m.MatchID).Error("创建比赛记录失败")
		return
	}

	predictions := e.generator.Generate(m)
	if err := e.predRepo.SaveBatch(ctx, predictions); err != nil {
		e.logger.WithError(err).WithField("match_id", m.MatchID).Error("保存预测批次失败")
		return
	}

	if err := e.statsRepo.CreateActivityLog(ctx, &model.ActivityLog{
		Type:        model.ActivityPredictionGenerated,
		Description: fmt.Sprintf("Predictions generated for %s vs %s", m.HomeTeam, m.AwayTeam),
		Metadata:    datatypes.JSON(fmt.Sprintf(`{"match_id":%d,"predictions_count":%d}`, m.ID, len(predictions))),
	}); err != nil {
		e.logger.WithError(err).Warn("写入活动日志失败")
	}

	e.logger.Infof("已为比赛 %s vs %s 生成 %d 条预测", m.HomeTeam, m.AwayTeam, len(predictions))
}

// handleMatchResult 完赛结果：解析比分后交给结算引擎
func (e *Engine) handleMatchResult(p *model.MatchResultPayload) {
	home, away, err := p.FinalScores()
	if err != nil {
		e.logger.WithError(err).WithField("match_id", p.MatchID).Warn("完赛比分解析失败，事件丢弃")
		return
	}
	if err := e.grading.Grade(context.Background(), p.MatchID, home, away); err != nil {
		e.logger.WithError(err).WithField("match_id", p.MatchID).Error("比赛结算失败")
	}
}

// handleMatchLive 比赛开赛：scheduled 比赛置为 live（仅展示用，不影响结算）
func (e *Engine) handleMatchLive(p *model.MatchLivePayload) {
	ctx := context.Background()
	m, err := e.matchRepo.GetByExternalID(ctx, p.MatchID)
	if err != nil {
		e.logger.WithField("match_id", p.MatchID).Debug("开赛事件：比赛不存在，忽略")
		return
	}
	if m.Status != model.MatchScheduled {
		return
	}
	if err := e.matchRepo.MarkLive(ctx, m.ID, time.Now()); err != nil {
		e.logger.WithError(err).WithField("match_id", p.MatchID).Warn("更新比赛为live失败")
	}
}

// handleConnect 连接建立时刷新平台在线状态
func (e *Engine) handleConnect() {
	if err := e.statsRepo.UpdateConnectivity(context.Background(),
		e.platform, model.PlatformOnline, model.APIConnected); err != nil {
		e.logger.WithError(err).Warn("更新平台状态失败")
	}
}

// handleDisconnect 连接断开时刷新平台离线状态
func (e *Engine) handleDisconnect() {
	if err := e.statsRepo.UpdateConnectivity(context.Background(),
		e.platform, model.PlatformOffline, model.APIDisconnected); err != nil {
		e.logger.WithError(err).Warn("更新平台状态失败")
	}
}

// parseScheduledTime 解析排期时间字符串，解析失败时兜底为5分钟后
func parseScheduledTime(s string) time.Time {
	if s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Now().Add(defaultKickoffDelay)
}
