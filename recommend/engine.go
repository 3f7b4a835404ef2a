package recommend

import (
	"context"
	"sync"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/rerank"
)

// Engine 是推荐入口：持有数据集快照、特征组装器和打分模型，
// 对外提供 Recommend 一个操作。
//
// 设计原则：
//   - 无全局状态：所有依赖显式持有，可以并存多个 Engine 实例
//   - 每次请求组装一条 Pipeline（Node 本身无请求态，组装开销可忽略）
//   - Scorer 可热替换（SwapScorer），替换期间的请求使用旧模型
type Engine struct {
	snapshot  *dataset.Snapshot
	assembler *feature.Assembler

	mu     sync.RWMutex
	scorer model.Scorer

	// extraFilters 追加在已评分/检索过滤之后（表达式规则等）
	extraFilters []filter.Filter
}

// EngineOption 配置 Engine 的可选项。
type EngineOption func(*Engine)

// WithFilters 追加额外的过滤器（例如 filter.ExprFilter 规则）。
func WithFilters(fs ...filter.Filter) EngineOption {
	return func(e *Engine) {
		e.extraFilters = append(e.extraFilters, fs...)
	}
}

// NewEngine 创建推荐引擎。
func NewEngine(
	snapshot *dataset.Snapshot,
	assembler *feature.Assembler,
	scorer model.Scorer,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		snapshot:  snapshot,
		assembler: assembler,
		scorer:    scorer,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer 返回当前生效的打分模型。
func (e *Engine) Scorer() model.Scorer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.scorer
}

// SwapScorer 原子替换打分模型（例如加载新 checkpoint 之后），
// 返回被替换下来的旧模型。
func (e *Engine) SwapScorer(s model.Scorer) model.Scorer {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.scorer
	e.scorer = s
	return old
}

// Recommend 为用户生成 Top-K 推荐。
//
// 语义：
//   - k < 1 视为无效输入，返回 INVALID_INPUT 错误
//   - 用户不存在于用户集时返回空结果（不报错：查询无结果，而非调用错误）
//   - searchTerm 非空时先收窄候选池（标题/类型子串匹配），再打分
//   - 结果按预测分降序，分数相同按 movieId 升序，同输入重复调用结果一致
//   - 返回数量不超过 k（候选不足时少于 k）
func (e *Engine) Recommend(ctx context.Context, userID int64, k int, searchTerm string) ([]core.Recommendation, error) {
	if k < 1 {
		return nil, core.NewDomainError(core.ModuleRecommend, core.ErrorCodeInvalidInput,
			"recommend: k must be >= 1")
	}

	user, ok := e.snapshot.User(userID)
	if !ok {
		return []core.Recommendation{}, nil
	}

	rctx := &core.RecommendContext{
		UserID:     userID,
		K:          k,
		SearchTerm: searchTerm,
		User:       user,
	}

	items, err := e.buildPipeline().Run(ctx, rctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]core.Recommendation, 0, len(items))
	for _, it := range items {
		if it == nil || it.Movie == nil {
			continue
		}
		out = append(out, core.Recommendation{
			MovieID:        it.MovieID,
			Title:          it.Movie.Title,
			Genre:          it.Movie.PrimaryGenre,
			ReleaseYear:    it.Movie.ReleaseYear,
			PredictedScore: it.Score,
		})
	}
	return out, nil
}

// buildPipeline 组装一次请求的推荐链路：
// 候选枚举 → 已评分剔除/检索收窄/规则过滤 → 特征编码 → 模型打分 → TopK 截断。
func (e *Engine) buildPipeline() *pipeline.Pipeline {
	filters := []filter.Filter{
		filter.NewRatedFilter(e.snapshot),
		&filter.SearchFilter{},
	}
	filters = append(filters, e.extraFilters...)

	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&feature.CandidateNode{Source: NewSnapshotSource(e.snapshot)},
			&filter.FilterNode{Filters: filters},
			&feature.EncodeNode{Assembler: e.assembler},
			&rank.WideDeepNode{Scorer: e.Scorer()},
			&rerank.TopNNode{},
		},
	}
}
