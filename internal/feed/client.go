package feed

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/config"
	"github.com/Onimix/SVIRTUAL/internal/interfaces"
	"github.com/Onimix/SVIRTUAL/internal/model"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// eventFramePrefix Socket.IO 多路复用事件帧前缀，帧体为 JSON 数组 [eventName, payload]
const eventFramePrefix = "42"

// Client 虚拟足球行情 WebSocket 客户端。
// 断线后固定间隔重连，重连单飞（同一时刻最多一个待执行的重连任务）
type Client struct {
	cfg    *config.FeedConfig
	logger *logrus.Logger

	mu           sync.RWMutex
	conn         *websocket.Conn
	connected    bool
	reconnecting bool
	stopped      bool

	handlers interfaces.FeedHandlers
}

// NewClient 创建推送源客户端
func NewClient(cfg *config.FeedConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// SetHandlers 注册事件回调（需在 Connect 前调用）
func (c *Client) SetHandlers(h interfaces.FeedHandlers) {
	c.handlers = h
}

// Connect 建立连接。已连接时幂等；显式调用会恢复自动重连
func (c *Client) Connect() error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		return nil
	}
	c.stopped = false
	c.mu.Unlock()

	conn, _, err := websocket.DefaultDialer.Dial(c.cfg.URL, nil)
	if err != nil {
		c.logger.WithError(err).WithField("url", c.cfg.URL).Warn("推送源连接失败")
		c.scheduleReconnect()
		return fmt.Errorf("连接推送源失败: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	// 上游协议要求连接后先发握手帧
	if err := conn.WriteMessage(websocket.TextMessage, []byte(c.cfg.HandshakeFrame)); err != nil {
		c.logger.WithError(err).Warn("发送握手帧失败")
	}
	c.logger.WithField("platform", c.cfg.Platform).Info("推送源已连接")

	if c.handlers.OnConnect != nil {
		c.handlers.OnConnect()
	}

	go c.readLoop(conn)
	return nil
}

// Disconnect 关闭连接并停止自动重连
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.stopped = true
	c.connected = false
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
		if c.handlers.OnDisconnect != nil {
			c.handlers.OnDisconnect()
		}
	}
	c.logger.Info("推送源已断开（不再自动重连）")
}

// Status 非阻塞读取连接状态
func (c *Client) Status() interfaces.FeedStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return interfaces.FeedStatus{
		Connected: c.connected,
		Platform:  c.cfg.Platform,
	}
}

// readLoop 单读循环：帧按到达顺序依次处理，单帧失败不影响后续帧
func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.handleDisconnect(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.RLock()
			stopped := c.stopped
			c.mu.RUnlock()
			if !stopped {
				c.logger.WithError(err).Warn("推送源连接中断")
			}
			return
		}
		c.handleFrame(data)
	}
}

// handleDisconnect 读循环退出后的统一处理：翻转状态并安排一次重连。
// 仅当退出的读循环仍持有当前连接时生效：快速 Disconnect→Connect 之后，
// 旧连接的读循环不得动新连接的状态
func (c *Client) handleDisconnect(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.connected = false
	c.conn = nil
	stopped := c.stopped
	c.mu.Unlock()

	if c.handlers.OnDisconnect != nil {
		c.handlers.OnDisconnect()
	}
	if stopped {
		return
	}
	c.scheduleReconnect()
}

// scheduleReconnect 安排一次固定间隔后的重连。
// reconnecting 标志保证同一时刻最多一个待执行任务；到点后再次确认仍处于断开状态才拨号
func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	if c.stopped || c.reconnecting {
		c.mu.Unlock()
		return
	}
	c.reconnecting = true
	c.mu.Unlock()

	c.logger.Infof("将在 %s 后尝试重连推送源", c.cfg.ReconnectInterval)
	time.AfterFunc(c.cfg.ReconnectInterval, func() {
		c.mu.Lock()
		c.reconnecting = false
		if c.stopped || c.connected {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		if err := c.Connect(); err != nil {
			// Connect 失败时已自行安排下一次重连
			c.logger.WithError(err).Warn("重连推送源失败")
		}
	})
}

// handleFrame 解析单帧：非事件帧静默丢弃，载荷解析失败仅记录日志
func (c *Client) handleFrame(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("处理推送帧异常: %v", r)
		}
	}()

	if len(data) < len(eventFramePrefix) || string(data[:len(eventFramePrefix)]) != eventFramePrefix {
		return
	}

	var frame []json.RawMessage
	if err := json.Unmarshal(data[len(eventFramePrefix):], &frame); err != nil || len(frame) < 2 {
		c.logger.WithError(err).Warn("事件帧解析失败，已丢弃")
		return
	}
	var eventName string
	if err := json.Unmarshal(frame[0], &eventName); err != nil {
		c.logger.WithError(err).Warn("事件名解析失败，已丢弃")
		return
	}

	switch eventName {
	case model.FeedEventMatchAnnounced:
		var p model.MatchAnnouncedPayload
		if err := json.Unmarshal(frame[1], &p); err != nil {
			c.logger.WithError(err).Warn("matchAnnounced 载荷解析失败，已丢弃")
			return
		}
		if c.handlers.OnMatchAnnounced != nil {
			c.handlers.OnMatchAnnounced(&p)
		}
	case model.FeedEventMatchResult:
		var p model.MatchResultPayload
		if err := json.Unmarshal(frame[1], &p); err != nil {
			c.logger.WithError(err).Warn("matchResult 载荷解析失败，已丢弃")
			return
		}
		if c.handlers.OnMatchResult != nil {
			c.handlers.OnMatchResult(&p)
		}
	case model.FeedEventMatchLive:
		var p model.MatchLivePayload
		if err := json.Unmarshal(frame[1], &p); err != nil {
			c.logger.WithError(err).Warn("matchLive 载荷解析失败，已丢弃")
			return
		}
		if c.handlers.OnMatchLive != nil {
			c.handlers.OnMatchLive(&p)
		}
	default:
		// 未识别的事件名不作处理
	}
}
