package feature

import "math"

// ZScoreScaler Z-score 标准化（Standardization）
// 公式: z = (x - μ) / σ
// μ/σ 在 Fit 时从训练批次本身计算，不使用固定基线；
// 预测时沿用 Fit 时冻结的参数。
type ZScoreScaler struct {
	Mean float64
	Std  float64

	fitted bool
}

// Fit 从批次数据计算均值与标准差。
func (s *ZScoreScaler) Fit(values []float64) {
	s.Mean, s.Std = 0, 0
	s.fitted = true
	if len(values) == 0 {
		return
	}

	for _, v := range values {
		s.Mean += v
	}
	s.Mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		d := v - s.Mean
		variance += d * d
	}
	s.Std = math.Sqrt(variance / float64(len(values)))
}

// Transform 标准化单个值。标准差为 0（所有样本相同）时返回 0。
func (s *ZScoreScaler) Transform(v float64) float64 {
	if s.Std == 0 {
		return 0
	}
	return (v - s.Mean) / s.Std
}

// Fitted 返回是否已经完成 Fit。
func (s *ZScoreScaler) Fitted() bool { return s.fitted }
