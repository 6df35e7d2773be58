package model

// MatchStatus 比赛生命周期状态枚举
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled" // 已排期
	MatchLive      MatchStatus = "live"      // 进行中（仅展示用，不影响结算）
	MatchFinished  MatchStatus = "finished"  // 已完赛（终态）
	MatchCancelled MatchStatus = "cancelled" // 已取消（终态）
)

// IsTerminal 是否为终态（finished/cancelled 后不再变更）
func (s MatchStatus) IsTerminal() bool {
	return s == MatchFinished || s == MatchCancelled
}

// MarketType 投注市场类型枚举（封闭集合，新增市场需同步补全结算逻辑）
type MarketType string

const (
	MarketUnder25 MarketType = "under_2_5" // 总进球低于2.5
	MarketBTTS    MarketType = "btts"      // 双方均进球
	MarketHomeWin MarketType = "home_win"  // 胜平负
	MarketOver05  MarketType = "over_0_5"  // 总进球高于0.5
)

// AllMarkets 所有市场（生成与结算共用，顺序固定）
func AllMarkets() []MarketType {
	return []MarketType{MarketUnder25, MarketBTTS, MarketHomeWin, MarketOver05}
}

// ModelName 预测模型名称枚举（模型即一组常量配置，无行为差异）
type ModelName string

const (
	ModelXGBoost       ModelName = "xgboost"
	ModelRandomForest  ModelName = "random_forest"
	ModelNeuralNetwork ModelName = "neural_network"
	ModelSVM           ModelName = "svm"
)

// PlatformStatusValue 平台连通性状态
const (
	PlatformOnline      = "online"
	PlatformOffline     = "offline"
	PlatformMaintenance = "maintenance"
)

// API连通性子状态
const (
	APIConnected    = "connected"
	APIDisconnected = "disconnected"
	APIError        = "error"
)

// 活动日志事件类型
const (
	ActivityPredictionGenerated = "prediction_generated"
	ActivityMatchCompleted      = "match_completed"
	ActivityEngineStarted       = "engine_started"
	ActivityEngineStopped       = "engine_stopped"
	ActivityUserSignup          = "user_signup"
	ActivitySampleGenerated     = "sample_generated"
)
