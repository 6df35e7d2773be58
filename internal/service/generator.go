package service

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"github.com/sirupsen/logrus"
)

// ModelStats 模型常量配置。所谓"模型"只是一组命中率/置信度常数，无行为差异
type ModelStats struct {
	Accuracy   float64 // 标称命中率
	Confidence float64 // 基础置信度
}

// modelTable 模型配置表（模型即数据）
var modelTable = map[model.ModelName]ModelStats{
	model.ModelXGBoost:       {Accuracy: 0.921, Confidence: 0.85},
	model.ModelRandomForest:  {Accuracy: 0.893, Confidence: 0.78},
	model.ModelNeuralNetwork: {Accuracy: 0.878, Confidence: 0.82},
	model.ModelSVM:           {Accuracy: 0.842, Confidence: 0.73},
}

// AllModels 所有模型名（顺序固定，生成与重算共用）
func AllModels() []model.ModelName {
	return []model.ModelName{
		model.ModelXGBoost,
		model.ModelRandomForest,
		model.ModelNeuralNetwork,
		model.ModelSVM,
	}
}

// marketBaseProb 各市场基础概率
var marketBaseProb = map[model.MarketType]float64{
	model.MarketUnder25: 0.65,
	model.MarketBTTS:    0.45,
	model.MarketHomeWin: 0.40,
	model.MarketOver05:  0.85,
}

// 概率夹取边界：避免 0/1 导致赔率无穷
const (
	probFloor = 0.05
	probCeil  = 0.95
)

// sportybet 平台的概率加成系数，其余平台不调整
const sportybetFactor = 1.05

// PredictionGenerator 预测生成器：按 模型×市场 笛卡尔积为每场新比赛产出一批预测。
// 只负责生成，不落库（持久化由调用方负责）。
// 同一实例会被推送源读循环与HTTP处理器并发调用，随机源须加锁
type PredictionGenerator struct {
	logger *logrus.Logger

	mu  sync.Mutex // 保护 rnd（math/rand.Rand 非并发安全）
	rnd *rand.Rand
}

// NewPredictionGenerator 创建预测生成器
func NewPredictionGenerator(logger *logrus.Logger) *PredictionGenerator {
	return NewPredictionGeneratorWithSource(logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPredictionGeneratorWithSource 指定随机源创建（测试用）
func NewPredictionGeneratorWithSource(logger *logrus.Logger, rnd *rand.Rand) *PredictionGenerator {
	return &PredictionGenerator{
		logger: logger,
		rnd:    rnd,
	}
}

// Generate 为一场比赛生成全部预测：每个(模型,市场)对一条，共 |模型|×|市场| 条
func (g *PredictionGenerator) Generate(m *model.Match) []*model.Prediction {
	predictions := make([]*model.Prediction, 0, len(AllModels())*len(model.AllMarkets()))

	for _, name := range AllModels() {
		stats := modelTable[name]
		for _, market := range model.AllMarkets() {
			prob := g.adjustedProbability(m.Platform, marketBaseProb[market])
			predictions = append(predictions, &model.Prediction{
				MatchID:        m.ID,
				PredictionType: market,
				Confidence:     confidenceScore(stats.Confidence, prob),
				MLModel:        name,
				Prediction:     predictionLabel(market, prob),
				Odds:           round2(1 / prob),
			})
		}
	}

	return predictions
}

// adjustedProbability 基础概率 × 平台系数 × 随机扰动（0.95~1.05），夹取到 [0.05,0.95]
func (g *PredictionGenerator) adjustedProbability(platform string, baseProb float64) float64 {
	platformFactor := 1.0
	if platform == "sportybet" {
		platformFactor = sportybetFactor
	}
	g.mu.Lock()
	timeFactor := g.rnd.Float64()*0.1 + 0.95
	g.mu.Unlock()

	prob := baseProb * platformFactor * timeFactor
	return math.Min(probCeil, math.Max(probFloor, prob))
}

// confidenceScore 置信度 = 模型基础置信度 × 凸性因子。
// 概率越偏离0.5，给出的置信度越高（极端判断比接近掷硬币的判断更"自信"）
func confidenceScore(modelConfidence, probability float64) float64 {
	extremeness := math.Abs(probability-0.5) * 2
	return round2(modelConfidence * (0.7 + 0.3*extremeness))
}

// predictionLabel 按市场阈值规则将调整概率映射为离散预测值
func predictionLabel(market model.MarketType, probability float64) string {
	switch market {
	case model.MarketUnder25:
		if probability > 0.5 {
			return "Under 2.5"
		}
		return "Over 2.5"
	case model.MarketBTTS:
		if probability > 0.5 {
			return "Yes"
		}
		return "No"
	case model.MarketHomeWin:
		if probability > 0.45 {
			return "Home"
		}
		if probability < 0.35 {
			return "Away"
		}
		return "Draw"
	case model.MarketOver05:
		if probability > 0.5 {
			return "Over 0.5"
		}
		return "Under 0.5"
	}
	return "Unknown"
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
