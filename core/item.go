package core

import "github.com/rushteam/movierec/pkg/utils"

// Item 是推荐链路中的统一承载结构：候选电影、特征、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	MovieID int64
	Score   float64

	// Movie 是候选对应的电影记录（候选源填充，供过滤/输出使用）
	Movie *MovieRecord

	// Row 是组装好的连接行（特征组装阶段填充）
	Row *JoinedRecord

	// Encoded 是编码后的特征行（编码阶段填充，打分阶段消费）
	Encoded *EncodedRow

	// Labels 记录链路各阶段写入的解释信息（候选来源、过滤原因、打分模型等）
	Labels map[string]utils.Label
}

func NewItem(movieID int64) *Item {
	return &Item{
		MovieID: movieID,
		Score:   0,
		Labels:  make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Recommendation 是推荐结果的一行，面向调用方（UI 层）输出。
type Recommendation struct {
	MovieID        int64   `json:"movieId"`
	Title          string  `json:"title"`
	Genre          string  `json:"genre"`
	ReleaseYear    int     `json:"releaseYear"`
	PredictedScore float64 `json:"predictedScore"`
}
