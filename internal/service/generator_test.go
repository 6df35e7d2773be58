package service

import (
	"io"
	"math/rand"
	"sync"
	"testing"

	"github.com/Onimix/SVIRTUAL/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestGenerateBatchShape(t *testing.T) {
	g := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(1)))
	m := &model.Match{ID: 7, Platform: "sportybet"}

	predictions := g.Generate(m)
	require.Len(t, predictions, len(AllModels())*len(model.AllMarkets()))

	// 每个 (模型,市场) 对恰好出现一次
	seen := make(map[string]bool)
	for _, p := range predictions {
		assert.Equal(t, uint64(7), p.MatchID)
		assert.NotEmpty(t, p.Prediction)
		key := string(p.MLModel) + "/" + string(p.PredictionType)
		assert.False(t, seen[key], "重复的模型×市场组合: %s", key)
		seen[key] = true
	}
}

func TestGenerateValueBounds(t *testing.T) {
	m := &model.Match{ID: 1, Platform: "sportybet"}

	// 多个随机种子下概率夹取不破：赔率=1/p，p∈[0.05,0.95] 则赔率∈[1.05,20]
	for seed := int64(0); seed < 50; seed++ {
		g := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(seed)))
		for _, p := range g.Generate(m) {
			assert.GreaterOrEqual(t, p.Odds, 1.05, "seed=%d market=%s", seed, p.PredictionType)
			assert.LessOrEqual(t, p.Odds, 20.0, "seed=%d market=%s", seed, p.PredictionType)
			assert.Greater(t, p.Confidence, 0.0)
			assert.LessOrEqual(t, p.Confidence, 1.0)
		}
	}
}

func TestGenerateSportybetLabels(t *testing.T) {
	m := &model.Match{ID: 1, Platform: "sportybet"}

	// sportybet 加成后 under_2_5 调整概率落在 (0.6,0.72)、over_0_5 落在 (0.84,0.95]，
	// 标签在任意随机扰动下都是确定的
	for seed := int64(0); seed < 20; seed++ {
		g := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(seed)))
		for _, p := range g.Generate(m) {
			switch p.PredictionType {
			case model.MarketUnder25:
				assert.Equal(t, "Under 2.5", p.Prediction)
			case model.MarketOver05:
				assert.Equal(t, "Over 0.5", p.Prediction)
			}
		}
	}
}

func TestGenerateConcurrent(t *testing.T) {
	// 同一生成器被推送源读循环与HTTP处理器共享，并发调用不能撕裂随机源
	g := NewPredictionGeneratorWithSource(testLogger(), rand.New(rand.NewSource(9)))
	m := &model.Match{ID: 1, Platform: "sportybet"}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				predictions := g.Generate(m)
				assert.Len(t, predictions, 16)
				for _, p := range predictions {
					assert.GreaterOrEqual(t, p.Odds, 1.05)
					assert.LessOrEqual(t, p.Odds, 20.0)
				}
			}
		}()
	}
	wg.Wait()
}

func TestOddsRounding(t *testing.T) {
	// 赔率是调整概率的倒数，保留两位小数
	assert.Equal(t, 2.0, round2(1/0.5))
	assert.Equal(t, 1.54, round2(1/0.65))
	assert.Equal(t, 20.0, round2(1/0.05))
}

func TestConfidenceScore(t *testing.T) {
	// 概率越偏离0.5，置信度越高
	assert.Equal(t, 0.8, confidenceScore(0.85, 0.9))   // 0.85*(0.7+0.3*0.8)
	assert.Equal(t, 0.55, confidenceScore(0.78, 0.5))  // 掷硬币区间只剩基数的70%
	assert.Equal(t, 0.82, confidenceScore(0.85, 0.95)) // 0.85*(0.7+0.3*0.9)

	low := confidenceScore(0.85, 0.55)
	high := confidenceScore(0.85, 0.9)
	assert.Less(t, low, high)
}

func TestPredictionLabelThresholds(t *testing.T) {
	cases := []struct {
		market model.MarketType
		prob   float64
		want   string
	}{
		{model.MarketUnder25, 0.65, "Under 2.5"},
		{model.MarketUnder25, 0.45, "Over 2.5"},
		{model.MarketBTTS, 0.55, "Yes"},
		{model.MarketBTTS, 0.45, "No"},
		{model.MarketHomeWin, 0.5, "Home"},
		{model.MarketHomeWin, 0.4, "Draw"},
		{model.MarketHomeWin, 0.3, "Away"},
		{model.MarketOver05, 0.85, "Over 0.5"},
		{model.MarketOver05, 0.2, "Under 0.5"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, predictionLabel(c.market, c.prob), "market=%s prob=%v", c.market, c.prob)
	}
}
