package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"gorm.io/gorm"
)

// PredictionRepository 预测仓储接口
type PredictionRepository interface {
	// SaveBatch 事务批量写入一场比赛的全部预测
	SaveBatch(ctx context.Context, predictions []*model.Prediction) error
	// ListByMatch 查询某场比赛的全部预测
	ListByMatch(ctx context.Context, matchID uint64) ([]*model.Prediction, error)
	// List 按创建时间倒序查询，matchID 为 0 时不过滤
	List(ctx context.Context, matchID uint64, limit int) ([]*model.Prediction, error)
	// SetResult 写入单条预测的结算结果（is_correct 与 result 一并写入）
	SetResult(ctx context.Context, id uint64, isCorrect bool, result string) error
	// ListGradedSince 查询某模型自 since 起已结算的预测（用于当日表现重算）
	ListGradedSince(ctx context.Context, modelName model.ModelName, since time.Time) ([]*model.Prediction, error)
	// CountCreatedSince 统计自 since 起创建的预测数（用于平台当日计数）
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository 创建 PredictionRepository 实例
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

// SaveBatch 开启事务逐条写入；任一条失败则整体回滚
func (r *predictionRepository) SaveBatch(ctx context.Context, predictions []*model.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	for i := range predictions {
		if err := tx.Create(predictions[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("保存预测失败: %w, match_id: %d", err, predictions[i].MatchID)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (r *predictionRepository) ListByMatch(ctx context.Context, matchID uint64) ([]*model.Prediction, error) {
	var predictions []*model.Prediction
	if err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) List(ctx context.Context, matchID uint64, limit int) ([]*model.Prediction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.db.WithContext(ctx).Model(&model.Prediction{})
	if matchID != 0 {
		db = db.Where("match_id = ?", matchID)
	}
	var predictions []*model.Prediction
	if err := db.Order("created_at DESC").Limit(limit).Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) SetResult(ctx context.Context, id uint64, isCorrect bool, result string) error {
	return r.db.WithContext(ctx).Model(&model.Prediction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_correct": isCorrect,
			"result":     result,
		}).Error
}

func (r *predictionRepository) ListGradedSince(ctx context.Context, modelName model.ModelName, since time.Time) ([]*model.Prediction, error) {
	var predictions []*model.Prediction
	if err := r.db.WithContext(ctx).
		Where("ml_model = ? AND is_correct IS NOT NULL AND created_at >= ?", modelName, since).
		Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Prediction{}).
		Where("created_at >= ?", since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
