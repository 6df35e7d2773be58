package service

import (
	"context"
	"net/http"

	"github.com/Onimix/SVIRTUAL/internal/config"
	"github.com/Onimix/SVIRTUAL/internal/model"
	"github.com/Onimix/SVIRTUAL/internal/repository"
	"github.com/Onimix/SVIRTUAL/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// PlatformChecker 平台连通性巡检：逐平台探测 API 可达性并 upsert 连通性快照
type PlatformChecker struct {
	platforms map[string]config.PlatformConfig
	statsRepo repository.StatsRepository
	logger    *logrus.Logger
	clients   map[string]*http.Client
}

// NewPlatformChecker 创建连通性巡检服务
func NewPlatformChecker(
	platforms map[string]config.PlatformConfig,
	statsRepo repository.StatsRepository,
	logger *logrus.Logger,
) *PlatformChecker {
	clients := make(map[string]*http.Client, len(platforms))
	for name := range platforms {
		cfg := platforms[name]
		clients[name] = httpclient.New(&cfg, logger)
	}
	return &PlatformChecker{
		platforms: platforms,
		statsRepo: statsRepo,
		logger:    logger,
		clients:   clients,
	}
}

// CheckAll 巡检全部启用的平台；单平台失败不阻塞整次巡检
func (c *PlatformChecker) CheckAll(ctx context.Context) {
	for name, cfg := range c.platforms {
		if !cfg.Enabled {
			continue
		}
		status, apiStatus := c.probe(ctx, name, cfg.BaseURL)
		if err := c.statsRepo.UpdateConnectivity(ctx, name, status, apiStatus); err != nil {
			c.logger.WithError(err).WithField("platform", name).Warn("更新平台连通性失败")
		}
	}
}

// probe 探测单个平台：HTTP可达且状态码<500 视为在线
func (c *PlatformChecker) probe(ctx context.Context, name, baseURL string) (status, apiStatus string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return model.PlatformOffline, model.APIError
	}
	resp, err := c.clients[name].Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("platform", name).Debug("平台探测失败")
		return model.PlatformOffline, model.APIDisconnected
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return model.PlatformMaintenance, model.APIError
	}
	return model.PlatformOnline, model.APIConnected
}
