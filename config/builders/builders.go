// Package builders 提供内置 Node 的配置构建器。
// 以 blank import 方式引入即可完成无状态 Node 的注册：
//
//	import _ "github.com/rushteam/movierec/config/builders"
//
// 携带运行时依赖的 Node（候选源、特征编码、模型打分）在快照与模型
// 就绪后，通过 RegisterRuntimeNodes 注册。
package builders

import (
	"fmt"

	"github.com/rushteam/movierec/config"
	"github.com/rushteam/movierec/dataset"
	"github.com/rushteam/movierec/feature"
	"github.com/rushteam/movierec/filter"
	"github.com/rushteam/movierec/model"
	"github.com/rushteam/movierec/pipeline"
	"github.com/rushteam/movierec/pkg/conv"
	"github.com/rushteam/movierec/rank"
	"github.com/rushteam/movierec/recommend"
	"github.com/rushteam/movierec/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildFilterNode 根据配置构建过滤 Node。
//
// 配置示例：
//
//	type: filter
//	config:
//	  filters:
//	    - type: search
//	    - type: expr
//	      expr: movie.year >= 1980
//
// "rated" 过滤器依赖评分历史存储，属于运行时依赖，
// 由 RegisterRuntimeNodes 注册的 filter 变体提供。
func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "search":
			filters = append(filters, &filter.SearchFilter{})
		case "expr":
			expr := conv.ConfigGet(filterMap, "expr", "")
			if expr == "" {
				return nil, fmt.Errorf("expr filter requires non-empty expr")
			}
			filters = append(filters, filter.NewExprFilter(expr))
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

// BuildTopNNode 根据配置构建 Top-N 截断 Node。
//
// 配置示例：
//
//	type: rerank.topn
//	config:
//	  n: 20
//
// n 缺省为 0，此时截断长度回退为请求的 k。
func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	return &rerank.TopNNode{N: int(n)}, nil
}

// Runtime 是配置驱动链路的运行时依赖集合。
type Runtime struct {
	Snapshot  *dataset.Snapshot
	Assembler *feature.Assembler
	Scorer    model.Scorer
}

// RegisterRuntimeNodes 注册携带运行时依赖的 Node 类型：
//   - candidate.movies: 快照候选源
//   - filter.rated: 已评分剔除
//   - feature.encode: 特征组装与编码
//   - rank.wide_deep: 模型打分
//
// 在快照加载、模型构建完成后调用一次。
func RegisterRuntimeNodes(rt Runtime) {
	config.Register("candidate.movies", func(_ map[string]interface{}) (pipeline.Node, error) {
		return &feature.CandidateNode{Source: recommend.NewSnapshotSource(rt.Snapshot)}, nil
	})
	config.Register("filter.rated", func(_ map[string]interface{}) (pipeline.Node, error) {
		return &filter.FilterNode{Filters: []filter.Filter{filter.NewRatedFilter(rt.Snapshot)}}, nil
	})
	config.Register("feature.encode", func(_ map[string]interface{}) (pipeline.Node, error) {
		return &feature.EncodeNode{Assembler: rt.Assembler}, nil
	})
	config.Register("rank.wide_deep", func(cfg map[string]interface{}) (pipeline.Node, error) {
		shard := conv.ConfigGetInt64(cfg, "shard_size", 0)
		return &rank.WideDeepNode{Scorer: rt.Scorer, ShardSize: int(shard)}, nil
	})
}
