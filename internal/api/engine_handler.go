package api

import (
	"net/http"

	"github.com/Onimix/SVIRTUAL/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EngineHandler 预测引擎控制接口
type EngineHandler struct {
	engine *service.Engine
	sample *service.SampleService
	logger *logrus.Logger
}

// NewEngineHandler 创建 EngineHandler（engine 由组装根注入，不在此构造）
func NewEngineHandler(engine *service.Engine, sample *service.SampleService, logger *logrus.Logger) *EngineHandler {
	return &EngineHandler{
		engine: engine,
		sample: sample,
		logger: logger,
	}
}

// StartEngine 启动预测引擎（已启动时幂等）
// POST /api/predictions/start-engine
func (h *EngineHandler) StartEngine(c *gin.Context) {
	if err := h.engine.Start(); err != nil {
		h.logger.WithError(err).Error("启动预测引擎失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start prediction engine"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "prediction engine started",
		"status":  "connected",
	})
}

// EngineStatus 引擎连接状态
// GET /api/predictions/engine-status
func (h *EngineHandler) EngineStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Status())
}

// GenerateSample 生成样例比赛与预测（演示用）
// POST /api/predictions/generate-sample
func (h *EngineHandler) GenerateSample(c *gin.Context) {
	match, count, err := h.sample.GenerateSample(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("生成样例数据失败")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "sample match created with scheduled predictions",
		"match":             match,
		"predictions_count": count,
	})
}
