package feature

import (
	"context"
	"strconv"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/utils"
)

// MovieSource 是候选源接口：枚举一次请求可参与打分的电影全集。
// 已评分电影的剔除由 filter.RatedFilter 独立完成，不折叠进候选源。
type MovieSource interface {
	Name() string
	Movies(ctx context.Context, rctx *core.RecommendContext) ([]*core.MovieRecord, error)
}

// CandidateNode 是候选 Node：从 MovieSource 枚举电影，产出带元信息的 Item。
// 输出按 movieId 升序，保证链路起点即具备确定性。
type CandidateNode struct {
	Source MovieSource
}

func (n *CandidateNode) Name() string        { return "candidate.movies" }
func (n *CandidateNode) Kind() pipeline.Kind { return pipeline.KindCandidate }

func (n *CandidateNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if n.Source == nil {
		return nil, nil
	}
	movies, err := n.Source.Movies(ctx, rctx)
	if err != nil {
		return nil, err
	}

	items := make([]*core.Item, 0, len(movies))
	for _, m := range movies {
		if m == nil {
			continue
		}
		item := core.NewItem(m.MovieID)
		item.Movie = m
		item.PutLabel("candidate_source", utils.Label{Value: n.Source.Name(), Source: "candidate"})
		items = append(items, item)
	}
	return items, nil
}

// EncodeNode 是特征 Node：为幸存候选组装连接行并编码。
// 词表 miss 的候选被丢弃（逐行传播），丢弃数写入请求级 label "encode_dropped"。
type EncodeNode struct {
	Assembler *Assembler
}

func (n *EncodeNode) Name() string        { return "feature.encode" }
func (n *EncodeNode) Kind() pipeline.Kind { return pipeline.KindFeature }

func (n *EncodeNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.Assembler == nil || len(items) == 0 {
		return items, nil
	}

	user, ok := n.Assembler.ResolveUser(ctx, rctx)
	if !ok {
		// 没有画像就没有特征行可组装；交由上游入口保证用户存在
		return nil, core.NewDomainError(core.ModuleFeature, core.ErrorCodeNotFound,
			"feature: no user profile available for assembling")
	}

	out := make([]*core.Item, 0, len(items))
	dropped := 0
	for _, item := range items {
		if item == nil || item.Movie == nil {
			continue
		}
		row := n.Assembler.BuildRow(user, item.Movie)
		encoded, err := n.Assembler.Registry.TransformRecord(row)
		if err != nil {
			if core.IsUnseenCategory(err) {
				dropped++
				continue
			}
			return nil, err
		}
		item.Row = row
		item.Encoded = encoded
		out = append(out, item)
	}

	if dropped > 0 {
		rctx.PutLabel("encode_dropped", utils.Label{
			Value:  strconv.Itoa(dropped),
			Source: "feature",
		})
	}
	return out, nil
}
