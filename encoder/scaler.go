package encoder

import "math"

// Scaler 是连续特征的缩放器接口。
// 统计量在 Fit 时一次性计算并冻结，之后每次 Transform 复用同一组统计量，
// 不允许按调用重新计算。
type Scaler interface {
	// Name 返回缩放器类型名（standard / minmax）
	Name() string

	// Fit 在全量训练列上计算统计量
	Fit(values []float64)

	// Transform 用已冻结的统计量缩放单个值
	Transform(value float64) float64
}

// StandardScaler Z-score 标准化。
// 公式: z = (x - μ) / σ
type StandardScaler struct {
	Mean float64
	Std  float64

	fitted bool
}

func (s *StandardScaler) Name() string { return "standard" }

func (s *StandardScaler) Fit(values []float64) {
	if len(values) == 0 {
		s.fitted = true
		return
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	s.Mean = sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := v - s.Mean
		sq += d * d
	}
	s.Std = math.Sqrt(sq / float64(len(values)))
	s.fitted = true
}

func (s *StandardScaler) Transform(value float64) float64 {
	if s.Std > 0 {
		return (value - s.Mean) / s.Std
	}
	return value
}

// MinMaxScaler Min-Max 归一化。
// 公式: x' = (x - min) / (max - min)，缩放到 [0, 1] 区间
type MinMaxScaler struct {
	Min float64
	Max float64

	fitted bool
}

func (s *MinMaxScaler) Name() string { return "minmax" }

func (s *MinMaxScaler) Fit(values []float64) {
	if len(values) == 0 {
		s.fitted = true
		return
	}
	s.Min = values[0]
	s.Max = values[0]
	for _, v := range values[1:] {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.fitted = true
}

func (s *MinMaxScaler) Transform(value float64) float64 {
	rangeVal := s.Max - s.Min
	if rangeVal > 0 {
		return (value - s.Min) / rangeVal
	}
	return value
}
