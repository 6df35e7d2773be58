package model

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(64);comment:用户ID"`
	Email            string    `gorm:"column:email;type:varchar(128);uniqueIndex;not null;comment:登录邮箱"`
	PasswordHash     string    `gorm:"column:password_hash;type:varchar(128);not null;comment:bcrypt密码哈希"`
	FirstName        string    `gorm:"column:first_name;type:varchar(64);comment:名"`
	LastName         string    `gorm:"column:last_name;type:varchar(64);comment:姓"`
	ProfileImageURL  string    `gorm:"column:profile_image_url;type:varchar(256);comment:头像地址"`
	SubscriptionTier string    `gorm:"column:subscription_tier;type:varchar(16);default:free;comment:订阅档位：free/premium/vip"`
	TelegramUserID   string    `gorm:"column:telegram_user_id;type:varchar(64);comment:Telegram用户ID"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime;comment:更新时间"`
}

type UserSubscription struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	UserID      string         `gorm:"column:user_id;type:varchar(64);index;not null;comment:关联用户ID"`
	Tier        string         `gorm:"column:tier;type:varchar(16);not null;comment:订阅档位"`
	StartDate   time.Time      `gorm:"column:start_date;autoCreateTime;comment:生效时间"`
	EndDate     *time.Time     `gorm:"column:end_date;type:timestamp;comment:到期时间"`
	IsActive    bool           `gorm:"column:is_active;type:boolean;default:true;comment:是否生效中"`
	Platforms   datatypes.JSON `gorm:"column:platforms;type:jsonb;comment:启用的平台列表"`
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb;comment:通知等偏好设置"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// Match 虚拟足球比赛。分数仅在 status=finished 时写入，且只写一次
type Match struct {
	ID              uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID         string         `gorm:"column:match_id;type:varchar(64);uniqueIndex;not null;comment:平台侧比赛ID"`
	Platform        string         `gorm:"column:platform;type:varchar(32);not null;comment:来源平台：sportybet/bet365/1xbet"`
	League          string         `gorm:"column:league;type:varchar(128);not null;comment:联赛名称"`
	HomeTeam        string         `gorm:"column:home_team;type:varchar(128);not null;comment:主队"`
	AwayTeam        string         `gorm:"column:away_team;type:varchar(128);not null;comment:客队"`
	ScheduledTime   time.Time      `gorm:"column:scheduled_time;type:timestamp;not null;comment:排期开赛时间"`
	ActualStartTime *time.Time     `gorm:"column:actual_start_time;type:timestamp;comment:实际开赛时间"`
	Status          MatchStatus    `gorm:"column:status;type:varchar(16);default:scheduled;comment:状态：scheduled/live/finished/cancelled"`
	HomeScore       *int           `gorm:"column:home_score;type:int;comment:主队进球（完赛后写入）"`
	AwayScore       *int           `gorm:"column:away_score;type:int;comment:客队进球（完赛后写入）"`
	Metadata        datatypes.JSON `gorm:"column:metadata;type:jsonb;comment:附加数据"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// Prediction 单条模型预测。is_correct 与 result 在比赛完赛结算时一并写入，且只写一次
type Prediction struct {
	ID             uint64     `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	MatchID        uint64     `gorm:"column:match_id;type:bigint;index;not null;comment:关联比赛ID"`
	PredictionType MarketType `gorm:"column:prediction_type;type:varchar(32);not null;comment:市场类型"`
	Confidence     float64    `gorm:"column:confidence;type:numeric(5,2);not null;comment:置信度[0,1]"`
	MLModel        ModelName  `gorm:"column:ml_model;type:varchar(32);not null;comment:预测模型名称"`
	Prediction     string     `gorm:"column:prediction;type:varchar(32);not null;comment:预测值"`
	Odds           float64    `gorm:"column:odds;type:numeric(10,2);comment:赔率（调整概率的倒数）"`
	IsCorrect      *bool      `gorm:"column:is_correct;type:boolean;comment:是否命中（结算后写入）"`
	Result         *string    `gorm:"column:result;type:varchar(32);comment:实际结果标签（结算后写入）"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// ModelPerformance 模型当日表现快照。每次结算追加一行，只增不改
type ModelPerformance struct {
	ID                 uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	ModelName          ModelName      `gorm:"column:model_name;type:varchar(32);index;not null;comment:模型名称"`
	Date               time.Time      `gorm:"column:date;type:timestamp;not null;comment:统计日期（当日零点）"`
	TotalPredictions   int            `gorm:"column:total_predictions;type:int;not null;comment:已结算预测数"`
	CorrectPredictions int            `gorm:"column:correct_predictions;type:int;not null;comment:命中数"`
	Accuracy           float64        `gorm:"column:accuracy;type:numeric(5,2);not null;comment:命中率（百分比）"`
	AverageConfidence  float64        `gorm:"column:average_confidence;type:numeric(5,2);comment:平均置信度"`
	Metadata           datatypes.JSON `gorm:"column:metadata;type:jsonb;comment:附加数据"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// PlatformStatus 平台连通性快照。按 platform 唯一，变更时 upsert
type PlatformStatus struct {
	ID               uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Platform         string         `gorm:"column:platform;type:varchar(32);uniqueIndex;not null;comment:平台名称"`
	Status           string         `gorm:"column:status;type:varchar(16);not null;comment:平台状态：online/offline/maintenance"`
	APIStatus        string         `gorm:"column:api_status;type:varchar(16);not null;comment:API状态：connected/disconnected/error"`
	LastChecked      time.Time      `gorm:"column:last_checked;autoUpdateTime;comment:最近检查时间"`
	DailyPredictions int            `gorm:"column:daily_predictions;type:int;default:0;comment:当日预测数"`
	SuccessRate      *float64       `gorm:"column:success_rate;type:numeric(5,2);comment:当日命中率"`
	Metadata         datatypes.JSON `gorm:"column:metadata;type:jsonb;comment:附加数据"`
}

// ActivityLog 系统活动日志，只增不改
type ActivityLog struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Type        string         `gorm:"column:type;type:varchar(32);not null;comment:事件类型"`
	Description string         `gorm:"column:description;type:text;not null;comment:事件描述"`
	UserID      *string        `gorm:"column:user_id;type:varchar(64);comment:关联用户ID（可空）"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb;comment:附加数据"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

func (User) TableName() string             { return "users" }
func (UserSubscription) TableName() string { return "user_subscriptions" }
func (Match) TableName() string            { return "matches" }
func (Prediction) TableName() string       { return "predictions" }
func (ModelPerformance) TableName() string { return "model_performance" }
func (PlatformStatus) TableName() string   { return "platform_status" }
func (ActivityLog) TableName() string      { return "activity_logs" }
