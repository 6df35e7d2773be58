package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Onimix/SVIRTUAL/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DashboardHandler 仪表盘只读接口（前端轮询用）
type DashboardHandler struct {
	matchRepo repository.MatchRepository
	predRepo  repository.PredictionRepository
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
	logger    *logrus.Logger
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(db *gorm.DB, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{
		matchRepo: repository.NewMatchRepository(db),
		predRepo:  repository.NewPredictionRepository(db),
		statsRepo: repository.NewStatsRepository(db),
		userRepo:  repository.NewUserRepository(db),
		logger:    logger,
	}
}

// GetStats 仪表盘汇总数据
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.statsRepo.GetDashboardStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("GetDashboardStats failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListPredictions 预测列表
// GET /api/predictions?match_id=1&limit=50
func (h *DashboardHandler) ListPredictions(c *gin.Context) {
	matchID, _ := strconv.ParseUint(c.Query("match_id"), 10, 64)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	predictions, err := h.predRepo.List(c.Request.Context(), matchID, limit)
	if err != nil {
		h.logger.WithError(err).Error("ListPredictions failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, predictions)
}

// ListMatches 比赛列表（按排期时间倒序，含已完赛）
// GET /api/matches?limit=50
func (h *DashboardHandler) ListMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	matches, err := h.matchRepo.ListMatches(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListMatches failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

// ListUpcomingMatches 未开赛比赛列表
// GET /api/matches/upcoming?limit=10
func (h *DashboardHandler) ListUpcomingMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	matches, err := h.matchRepo.ListUpcoming(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListUpcomingMatches failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

// ListModelPerformance 模型表现快照列表
// GET /api/model-performance
func (h *DashboardHandler) ListModelPerformance(c *gin.Context) {
	rows, err := h.statsRepo.ListModelPerformance(c.Request.Context(), 10)
	if err != nil {
		h.logger.WithError(err).Error("ListModelPerformance failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListPlatformStatus 平台连通性快照列表
// GET /api/platform-status
func (h *DashboardHandler) ListPlatformStatus(c *gin.Context) {
	rows, err := h.statsRepo.ListPlatformStatus(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListPlatformStatus failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListActivityLogs 活动日志列表
// GET /api/activity-logs?limit=20
func (h *DashboardHandler) ListActivityLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	rows, err := h.statsRepo.ListActivityLogs(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("ListActivityLogs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetSubscription 当前用户的生效订阅
// GET /api/user/subscription
func (h *DashboardHandler) GetSubscription(c *gin.Context) {
	userID := c.GetString(contextUserKey)
	sub, err := h.userRepo.GetActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, nil) // 无订阅时返回空，前端按免费档展示
			return
		}
		h.logger.WithError(err).Error("GetSubscription failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sub)
}
