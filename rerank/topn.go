package rerank

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个候选。
// 通常放在排序（Rank）节点之后，限制最终返回的推荐数量。
//
// 使用场景：
//   - 排序后只返回 Top 10/20/50 个结果
//   - 对齐请求侧的 k 参数
//
// N <= 0 时回退为请求上下文中的 K。
type TopNNode struct {
	// N 要保留的候选数量（Top N）
	// 如果 N <= 0，则使用 rctx.K
	// 如果仍无有效值，则不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.K
	}
	if limit <= 0 {
		return items, nil
	}
	if len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}

var _ pipeline.Node = (*TopNNode)(nil)
