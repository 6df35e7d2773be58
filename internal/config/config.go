package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server    ServerConfig              `mapstructure:"server"`    // 服务器配置
	Postgres  PostgresConfig            `mapstructure:"postgres"`  // PostgreSQL配置
	Auth      AuthConfig                `mapstructure:"auth"`      // 登录鉴权配置
	Feed      FeedConfig                `mapstructure:"feed"`      // 行情推送源配置
	Platforms map[string]PlatformConfig `mapstructure:"platforms"` // 多平台独立配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// AuthConfig 登录鉴权配置（JWT）
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"` // JWT签名密钥
	TokenTTL  time.Duration `mapstructure:"token_ttl"`  // Token有效期
}

// FeedConfig 虚拟足球行情推送源配置
type FeedConfig struct {
	URL               string        `mapstructure:"url"`                // WebSocket地址
	Platform          string        `mapstructure:"platform"`           // 来源平台名称（如 sportybet）
	ReconnectInterval time.Duration `mapstructure:"reconnect_interval"` // 断线重连间隔
	HandshakeFrame    string        `mapstructure:"handshake_frame"`    // 连接后发送的握手帧
}

// PlatformConfig 单个平台的独立配置（用于连通性巡检）
type PlatformConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数
	Proxy      string `mapstructure:"proxy"`       // 代理地址
	Enabled    bool   `mapstructure:"enabled"`     // 是否启用巡检
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	// 4. 兜底默认值
	if cfg.Feed.ReconnectInterval <= 0 {
		cfg.Feed.ReconnectInterval = 30 * time.Second
	}
	if cfg.Feed.HandshakeFrame == "" {
		cfg.Feed.HandshakeFrame = "40"
	}
	if cfg.Auth.TokenTTL <= 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("FEED_URL"); v != "" {
		cfg.Feed.URL = v
	}
	if p, ok := cfg.Platforms["sportybet"]; ok {
		if v := os.Getenv("SPORTYBET_PROXY"); v != "" {
			p.Proxy = v
		}
		cfg.Platforms["sportybet"] = p
	}
}
