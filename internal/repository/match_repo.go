package repository

import (
	"context"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"gorm.io/gorm"
)

// MatchRepository 比赛仓储接口
type MatchRepository interface {
	// CreateMatch 新建比赛记录
	CreateMatch(ctx context.Context, m *model.Match) error
	// GetByExternalID 按平台侧比赛ID查询
	GetByExternalID(ctx context.Context, matchID string) (*model.Match, error)
	// GetByID 按主键查询
	GetByID(ctx context.Context, id uint64) (*model.Match, error)
	// ListMatches 按排期时间倒序分页查询
	ListMatches(ctx context.Context, limit int) ([]*model.Match, error)
	// ListUpcoming 查询未开赛的比赛（status=scheduled 且排期时间未到）
	ListUpcoming(ctx context.Context, limit int) ([]*model.Match, error)
	// MarkLive 将 scheduled 比赛置为 live 并记录实际开赛时间
	MarkLive(ctx context.Context, id uint64, startTime time.Time) error
	// FinishMatch 写入最终比分并置为 finished（仅展示用的终态写入，一场比赛只执行一次）
	FinishMatch(ctx context.Context, id uint64, homeScore, awayScore int) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository 创建 MatchRepository 实例
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) CreateMatch(ctx context.Context, m *model.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *matchRepository) GetByExternalID(ctx context.Context, matchID string) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("match_id = ?", matchID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uint64) (*model.Match, error) {
	var m model.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepository) ListMatches(ctx context.Context, limit int) ([]*model.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var matches []*model.Match
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Order("scheduled_time DESC").
		Limit(limit).Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) ListUpcoming(ctx context.Context, limit int) ([]*model.Match, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var matches []*model.Match
	if err := r.db.WithContext(ctx).Model(&model.Match{}).
		Where("status = ? AND scheduled_time >= ?", model.MatchScheduled, time.Now()).
		Order("scheduled_time ASC").
		Limit(limit).Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepository) MarkLive(ctx context.Context, id uint64, startTime time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ? AND status = ?", id, model.MatchScheduled).
		Updates(map[string]interface{}{
			"status":            model.MatchLive,
			"actual_start_time": startTime,
		}).Error
}

func (r *matchRepository) FinishMatch(ctx context.Context, id uint64, homeScore, awayScore int) error {
	return r.db.WithContext(ctx).Model(&model.Match{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.MatchFinished,
			"home_score": homeScore,
			"away_score": awayScore,
		}).Error
}
