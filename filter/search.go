package filter

import (
	"context"
	"strings"

	"github.com/rushteam/movierec/core"
)

// SearchFilter 按请求的检索词过滤候选：标题或主类型包含检索词
// （大小写不敏感的子串匹配）的候选保留，其余剔除。
//
// 检索在打分之前收窄候选池 —— 这是刻意的顺序选择：
// 检索用于约束推理成本，而不是在打分后重排。
// 检索词为空时不过滤。
type SearchFilter struct{}

func (f *SearchFilter) Name() string {
	return "filter.search"
}

func (f *SearchFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.SearchTerm == "" {
		return false, nil
	}
	if item.Movie == nil {
		return true, nil
	}

	term := strings.ToLower(rctx.SearchTerm)
	if strings.Contains(strings.ToLower(item.Movie.Title), term) {
		return false, nil
	}
	if strings.Contains(strings.ToLower(item.Movie.PrimaryGenre), term) {
		return false, nil
	}
	return true, nil
}

// MatchesSearch 判断单部电影是否命中检索词（空检索词恒命中）。
// 供不经过 Pipeline 的调用方复用同一套匹配口径。
func MatchesSearch(movie *core.MovieRecord, term string) bool {
	if term == "" {
		return true
	}
	if movie == nil {
		return false
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(movie.Title), lower) ||
		strings.Contains(strings.ToLower(movie.PrimaryGenre), lower)
}
