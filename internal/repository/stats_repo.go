package repository

import (
	"context"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DashboardStats 仪表盘汇总数据
type DashboardStats struct {
	TotalPredictions   int64   `json:"total_predictions"`
	CorrectPredictions int64   `json:"correct_predictions"`
	Accuracy           float64 `json:"accuracy"`
	ActiveUsers        int64   `json:"active_users"`
	DailyPredictions   int64   `json:"daily_predictions"`
	Revenue            float64 `json:"revenue"`
}

// StatsRepository 汇总/快照/日志仓储接口
type StatsRepository interface {
	// GetDashboardStats 计算仪表盘汇总数据
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	// AppendModelPerformance 追加一条模型表现快照（只增不改）
	AppendModelPerformance(ctx context.Context, p *model.ModelPerformance) error
	// ListModelPerformance 按统计日期倒序查询快照
	ListModelPerformance(ctx context.Context, limit int) ([]*model.ModelPerformance, error)
	// UpsertPlatformStatus 按平台名 upsert 连通性快照，并刷新 last_checked
	UpsertPlatformStatus(ctx context.Context, s *model.PlatformStatus) error
	// UpdateConnectivity 仅更新平台连通性字段与 last_checked，不触碰当日计数
	UpdateConnectivity(ctx context.Context, platform, status, apiStatus string) error
	// ListPlatformStatus 查询全部平台连通性快照
	ListPlatformStatus(ctx context.Context) ([]*model.PlatformStatus, error)
	// CreateActivityLog 追加一条活动日志（只增不改）
	CreateActivityLog(ctx context.Context, l *model.ActivityLog) error
	// ListActivityLogs 按创建时间倒序查询活动日志
	ListActivityLogs(ctx context.Context, limit int) ([]*model.ActivityLog, error)
}

type statsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建 StatsRepository 实例
func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Prediction{}).Count(&stats.TotalPredictions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Prediction{}).
		Where("is_correct = ?", true).
		Count(&stats.CorrectPredictions).Error; err != nil {
		return nil, err
	}
	if stats.TotalPredictions > 0 {
		stats.Accuracy = float64(stats.CorrectPredictions) / float64(stats.TotalPredictions) * 100
	}

	// 活跃用户：近30天有活动日志的去重用户数
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&model.ActivityLog{}).
		Where("created_at >= ? AND user_id IS NOT NULL", thirtyDaysAgo).
		Distinct("user_id").
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	today := startOfDay(time.Now())
	if err := db.Model(&model.Prediction{}).
		Where("created_at >= ? AND created_at < ?", today, today.AddDate(0, 0, 1)).
		Count(&stats.DailyPredictions).Error; err != nil {
		return nil, err
	}

	// 简化的收入估算（真实口径应基于订阅数据）
	stats.Revenue = float64(stats.ActiveUsers) * 25

	return stats, nil
}

func (r *statsRepository) AppendModelPerformance(ctx context.Context, p *model.ModelPerformance) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *statsRepository) ListModelPerformance(ctx context.Context, limit int) ([]*model.ModelPerformance, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []*model.ModelPerformance
	if err := r.db.WithContext(ctx).Model(&model.ModelPerformance{}).
		Order("date DESC, id DESC").
		Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepository) UpsertPlatformStatus(ctx context.Context, s *model.PlatformStatus) error {
	s.LastChecked = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "api_status", "daily_predictions", "success_rate", "last_checked", "metadata",
		}),
	}).Create(s).Error
}

func (r *statsRepository) UpdateConnectivity(ctx context.Context, platform, status, apiStatus string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "api_status", "last_checked",
		}),
	}).Create(&model.PlatformStatus{
		Platform:    platform,
		Status:      status,
		APIStatus:   apiStatus,
		LastChecked: time.Now(),
	}).Error
}

func (r *statsRepository) ListPlatformStatus(ctx context.Context) ([]*model.PlatformStatus, error) {
	var rows []*model.PlatformStatus
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *statsRepository) CreateActivityLog(ctx context.Context, l *model.ActivityLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *statsRepository) ListActivityLogs(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []*model.ActivityLog
	if err := r.db.WithContext(ctx).Model(&model.ActivityLog{}).
		Order("created_at DESC").
		Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// startOfDay 取当日零点（本地时区）
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
