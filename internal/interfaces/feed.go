package interfaces

import "github.com/Onimix/SVIRTUAL/internal/model"

// FeedStatus 推送源连接状态快照
type FeedStatus struct {
	Connected bool   `json:"connected"`
	Platform  string `json:"platform"`
}

// FeedHandlers 推送源事件回调。同一连接内回调顺序与帧到达顺序一致（单读循环）
type FeedHandlers struct {
	OnMatchAnnounced func(*model.MatchAnnouncedPayload) // 新比赛公告
	OnMatchResult    func(*model.MatchResultPayload)    // 完赛结果
	OnMatchLive      func(*model.MatchLivePayload)      // 比赛开赛
	OnConnect        func()                             // 连接建立
	OnDisconnect     func()                             // 连接断开（重连前触发）
}

// FeedClient 推送源客户端接口（便于 service 层注入假实现做测试）
type FeedClient interface {
	Connect() error      // 建立连接，已连接时幂等
	Disconnect()         // 关闭连接并停止自动重连
	Status() FeedStatus  // 非阻塞读取连接状态
	SetHandlers(FeedHandlers)
}
