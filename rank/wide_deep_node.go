package rank

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// defaultShardSize 是并发打分时每个分片的候选数量。
const defaultShardSize = 256

// WideDeepNode 是使用 Wide&Deep 模型的排序 Node。
//
// 设计原则：
//   - 批量打分：候选按分片并发送入 Scorer，分片内保持顺序
//   - 稳定排序：分数降序，分数相同时按 movieId 升序，保证结果可复现
type WideDeepNode struct {
	Scorer    model.Scorer
	ShardSize int
}

func (n *WideDeepNode) Name() string        { return "rank.wide_deep" }
func (n *WideDeepNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *WideDeepNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Scorer == nil || len(items) == 0 {
		return items, nil
	}

	// 已编码的候选才会被打分，未编码的置于队尾
	scored := make([]*core.Item, 0, len(items))
	rest := make([]*core.Item, 0)
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Encoded != nil {
			scored = append(scored, it)
		} else {
			rest = append(rest, it)
		}
	}

	if err := n.scoreAll(ctx, scored); err != nil {
		return nil, err
	}

	for _, it := range scored {
		it.PutLabel("rank_model", utils.Label{Value: n.Scorer.Name(), Source: "rank"})
		it.PutLabel("rank_type", utils.Label{Value: "wide_deep", Source: "rank"})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].MovieID < scored[j].MovieID
	})
	return append(scored, rest...), nil
}

// scoreAll 将候选按分片并发打分，写回每个候选的 Score。
func (n *WideDeepNode) scoreAll(ctx context.Context, items []*core.Item) error {
	shard := n.ShardSize
	if shard <= 0 {
		shard = defaultShardSize
	}

	g, _ := errgroup.WithContext(ctx)
	for start := 0; start < len(items); start += shard {
		end := start + shard
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		g.Go(func() error {
			rows := make([]*core.EncodedRow, len(batch))
			for i, it := range batch {
				rows[i] = it.Encoded
			}
			scores, err := n.Scorer.Score(rows)
			if err != nil {
				return err
			}
			for i, s := range scores {
				batch[i].Score = s
			}
			return nil
		})
	}
	return g.Wait()
}

var _ pipeline.Node = (*WideDeepNode)(nil)
