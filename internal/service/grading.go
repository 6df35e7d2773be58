package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GradingService 结算引擎：完赛后评估该场全部预测并重算各模型当日表现快照
type GradingService struct {
	matchRepo repository.MatchRepository
	predRepo  repository.PredictionRepository
	statsRepo repository.StatsRepository
	logger    *logrus.Logger
}

// NewGradingService 创建结算引擎
func NewGradingService(
	matchRepo repository.MatchRepository,
	predRepo repository.PredictionRepository,
	statsRepo repository.StatsRepository,
	logger *logrus.Logger,
) *GradingService {
	return &GradingService{
		matchRepo: matchRepo,
		predRepo:  predRepo,
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// Grade 按平台侧比赛ID结算最终比分。
// 未知比赛：记录日志后跳过（事件不重投）；已终态比赛：幂等跳过，避免快照重复追加
func (s *GradingService) Grade(ctx context.Context, externalMatchID string, homeScore, awayScore int) error {
	m, err := s.matchRepo.GetByExternalID(ctx, externalMatchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.WithField("match_id", externalMatchID).Warn("结算跳过：未知比赛")
			return nil
		}
		return fmt.Errorf("查询比赛失败: %w", err)
	}
	if m.Status.IsTerminal() {
		s.logger.WithField("match_id", externalMatchID).Info("结算跳过：比赛已是终态")
		return nil
	}

	if err := s.matchRepo.FinishMatch(ctx, m.ID, homeScore, awayScore); err != nil {
		return fmt.Errorf("写入完赛状态失败: %w", err)
	}

	predictions, err := s.predRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("查询比赛预测失败: %w", err)
	}

	gradedModels := make(map[model.ModelName]bool)
	for _, p := range predictions {
		if p.IsCorrect != nil {
			continue // 已结算过，不重复写
		}
		correct, result := evaluateMarket(p.PredictionType, p.Prediction, homeScore, awayScore)
		if err := s.predRepo.SetResult(ctx, p.ID, correct, result); err != nil {
			s.logger.WithError(err).WithField("prediction_id", p.ID).Warn("写入预测结算结果失败")
			continue
		}
		gradedModels[p.MLModel] = true
	}

	s.reaggregate(ctx, gradedModels)
	s.updatePlatformStatus(ctx, m.Platform)

	if err := s.statsRepo.CreateActivityLog(ctx, &model.ActivityLog{
		Type: model.ActivityMatchCompleted,
		Description: fmt.Sprintf("Match completed: %s %d-%d %s",
			m.HomeTeam, homeScore, awayScore, m.AwayTeam),
		Metadata: datatypes.JSON(fmt.Sprintf(`{"match_id":%d,"home_score":%d,"away_score":%d}`,
			m.ID, homeScore, awayScore)),
	}); err != nil {
		s.logger.WithError(err).Warn("写入活动日志失败")
	}

	s.logger.Infof("比赛结算完成: %s %d-%d %s，预测 %d 条",
		m.HomeTeam, homeScore, awayScore, m.AwayTeam, len(predictions))
	return nil
}

// evaluateMarket 按市场类型评估单条预测。
// under/over 类市场按实际总进球判定；btts 与胜平负按预测值与实际结果比对
func evaluateMarket(market model.MarketType, predicted string, homeScore, awayScore int) (correct bool, result string) {
	totalGoals := float64(homeScore + awayScore)

	switch market {
	case model.MarketUnder25:
		if totalGoals < 2.5 {
			return true, "Under 2.5"
		}
		return false, "Over 2.5"
	case model.MarketOver05:
		if totalGoals > 0.5 {
			return true, "Over 0.5"
		}
		return false, "Under 0.5"
	case model.MarketBTTS:
		result = "No"
		if homeScore > 0 && awayScore > 0 {
			result = "Yes"
		}
		return predicted == result, result
	case model.MarketHomeWin:
		switch {
		case homeScore > awayScore:
			result = "Home"
		case awayScore > homeScore:
			result = "Away"
		default:
			result = "Draw"
		}
		return predicted == result, result
	}
	return false, "Unknown"
}

// reaggregate 对当日有结算记录的模型做全量重算并追加快照行。
// 每次全量重算而非增量更新：O(当日预测数)，当前量级可接受
func (s *GradingService) reaggregate(ctx context.Context, gradedModels map[model.ModelName]bool) {
	today := startOfToday()

	for _, name := range AllModels() {
		if !gradedModels[name] {
			continue
		}
		graded, err := s.predRepo.ListGradedSince(ctx, name, today)
		if err != nil {
			s.logger.WithError(err).WithField("model", name).Warn("查询当日结算预测失败")
			continue
		}
		if len(graded) == 0 {
			continue
		}

		correct := 0
		confSum := 0.0
		for _, p := range graded {
			if p.IsCorrect != nil && *p.IsCorrect {
				correct++
			}
			confSum += p.Confidence
		}

		snapshot := &model.ModelPerformance{
			ModelName:          name,
			Date:               today,
			TotalPredictions:   len(graded),
			CorrectPredictions: correct,
			Accuracy:           round2(float64(correct) / float64(len(graded)) * 100),
			AverageConfidence:  round2(confSum / float64(len(graded))),
			Metadata:           datatypes.JSON(fmt.Sprintf(`{"evaluated_at":%q}`, time.Now().Format(time.RFC3339))),
		}
		if err := s.statsRepo.AppendModelPerformance(ctx, snapshot); err != nil {
			s.logger.WithError(err).WithField("model", name).Warn("追加模型表现快照失败")
		}
	}
}

// updatePlatformStatus 刷新平台当日预测计数与命中率（跨模型口径）
func (s *GradingService) updatePlatformStatus(ctx context.Context, platform string) {
	today := startOfToday()

	dailyCount, err := s.predRepo.CountCreatedSince(ctx, today)
	if err != nil {
		s.logger.WithError(err).Warn("统计当日预测数失败")
		return
	}

	total, correct := 0, 0
	for _, name := range AllModels() {
		graded, err := s.predRepo.ListGradedSince(ctx, name, today)
		if err != nil {
			continue
		}
		for _, p := range graded {
			total++
			if p.IsCorrect != nil && *p.IsCorrect {
				correct++
			}
		}
	}

	status := &model.PlatformStatus{
		Platform:         platform,
		Status:           model.PlatformOnline,
		APIStatus:        model.APIConnected,
		DailyPredictions: int(dailyCount),
	}
	if total > 0 {
		rate := round2(float64(correct) / float64(total) * 100)
		status.SuccessRate = &rate
	}
	if err := s.statsRepo.UpsertPlatformStatus(ctx, status); err != nil {
		s.logger.WithError(err).Warn("更新平台状态失败")
	}
}

// startOfToday 当日零点（本地时区）
func startOfToday() time.Time {
	now := time.Now()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
