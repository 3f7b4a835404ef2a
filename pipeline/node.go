package pipeline

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindCandidate Kind = "candidate" // 候选阶段：枚举待打分的电影
	KindFilter    Kind = "filter"    // 过滤阶段：剔除不符合约束的候选（已评分、检索不命中等）
	KindFeature   Kind = "feature"   // 特征阶段：组装连接行并做定长编码
	KindRank      Kind = "rank"      // 排序阶段：对候选打分并排序
	KindReRank    Kind = "rerank"    // 重排阶段：TopN 截断等
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"输入 items -> 输出 items"的形态，方便候选生成、过滤截断、排序重排等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
