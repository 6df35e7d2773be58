package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// SampleService 演示数据生成：造一场排期中的样例比赛并生成其预测批次
type SampleService struct {
	matchRepo repository.MatchRepository
	predRepo  repository.PredictionRepository
	statsRepo repository.StatsRepository
	generator *PredictionGenerator
	platform  string
	logger    *logrus.Logger
}

// NewSampleService 创建演示数据服务
func NewSampleService(
	matchRepo repository.MatchRepository,
	predRepo repository.PredictionRepository,
	statsRepo repository.StatsRepository,
	generator *PredictionGenerator,
	platform string,
	logger *logrus.Logger,
) *SampleService {
	return &SampleService{
		matchRepo: matchRepo,
		predRepo:  predRepo,
		statsRepo: statsRepo,
		generator: generator,
		platform:  platform,
		logger:    logger,
	}
}

// teamSuffixes 虚拟球队名后缀
var teamSuffixes = []string{"VFC", "United", "City", "Rovers", "Athletic"}

// GenerateSample 创建样例比赛 + 预测批次，返回比赛与预测条数
func (s *SampleService) GenerateSample(ctx context.Context) (*model.Match, int, error) {
	m := &model.Match{
		MatchID:       "sample_" + uuid.NewString()[:8],
		Platform:      s.platform,
		League:        defaultLeague,
		HomeTeam:      fakeTeamName(),
		AwayTeam:      fakeTeamName(),
		ScheduledTime: time.Now().Add(defaultKickoffDelay),
		Status:        model.MatchScheduled,
		Metadata:      datatypes.JSON(`{"source":"sample_generation"}`),
	}

	if err := s.matchRepo.CreateMatch(ctx, m); err != nil {
		return nil, 0, fmt.Errorf("创建样例比赛失败: %w", err)
	}

	predictions := s.generator.Generate(m)
	if err := s.predRepo.SaveBatch(ctx, predictions); err != nil {
		return nil, 0, fmt.Errorf("保存样例预测失败: %w", err)
	}

	if err := s.statsRepo.CreateActivityLog(ctx, &model.ActivityLog{
		Type:        model.ActivitySampleGenerated,
		Description: fmt.Sprintf("Sample match created: %s vs %s", m.HomeTeam, m.AwayTeam),
		Metadata:    datatypes.JSON(fmt.Sprintf(`{"match_id":%d,"predictions_count":%d}`, m.ID, len(predictions))),
	}); err != nil {
		s.logger.WithError(err).Warn("写入活动日志失败")
	}

	s.logger.Infof("样例比赛已创建: %s vs %s（%d 条预测）", m.HomeTeam, m.AwayTeam, len(predictions))
	return m, len(predictions), nil
}

// fakeTeamName 随机生成一个虚拟球队名，如 "Liverpool VFC"
func fakeTeamName() string {
	return gofakeit.City() + " " + gofakeit.RandString(teamSuffixes)
}
