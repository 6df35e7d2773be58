package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// 推送源事件名（Socket.IO 多路复用帧内的第一个元素）
const (
	FeedEventMatchAnnounced = "matchAnnounced"
	FeedEventMatchResult    = "matchResult"
	FeedEventMatchLive      = "matchLive"
)

// MatchAnnouncedPayload 新比赛公告事件载荷
type MatchAnnouncedPayload struct {
	MatchID       string `json:"match_id"`       // 平台侧比赛ID
	League        string `json:"league"`         // 联赛名称
	HomeTeam      string `json:"home_team"`      // 主队
	AwayTeam      string `json:"away_team"`      // 客队
	ScheduledTime string `json:"scheduled_time"` // 排期开赛时间（RFC3339字符串）
}

// MatchResultPayload 完赛结果事件载荷。分数可能以 home_score/away_score 分字段下发，
// 也可能只有 score:"H-A" 合并字段，二者取其一
type MatchResultPayload struct {
	MatchID   string      `json:"match_id"`
	HomeScore json.Number `json:"home_score"`
	AwayScore json.Number `json:"away_score"`
	Score     string      `json:"score"`
}

// FinalScores 解析出最终比分。优先用分字段，缺失时回退到 score:"H-A"
func (p *MatchResultPayload) FinalScores() (home, away int, err error) {
	if p.HomeScore != "" || p.AwayScore != "" {
		home, _ = strconv.Atoi(p.HomeScore.String())
		away, _ = strconv.Atoi(p.AwayScore.String())
		return home, away, nil
	}
	parts := strings.SplitN(p.Score, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("无法解析比分: %q", p.Score)
	}
	home, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析主队比分: %q", p.Score)
	}
	away, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析客队比分: %q", p.Score)
	}
	return home, away, nil
}

// MatchLivePayload 比赛开赛事件载荷
type MatchLivePayload struct {
	MatchID string `json:"match_id"`
}
