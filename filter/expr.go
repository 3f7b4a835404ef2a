package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
	"github.com/rushteam/movierec/pkg/dsl"
)

// ExprFilter 基于 CEL 表达式的过滤器，表达式求值为 true 的候选会被过滤。
//
// 使用场景：
//   - 运营规则下发，无需改代码：movie.year < 1980
//   - 按类型屏蔽：movie.genre == "Horror"
//   - 组合条件：movie.genre == "Children's" && rctx.k > 10
type ExprFilter struct {
	expr string
}

// NewExprFilter 创建表达式过滤器。
func NewExprFilter(expr string) *ExprFilter {
	return &ExprFilter{expr: expr}
}

// Name 返回过滤器名称。
func (f *ExprFilter) Name() string { return "filter.expr" }

// ShouldFilter 对单个候选求值表达式；表达式为空时不过滤。
func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.expr == "" || item == nil {
		return false, nil
	}
	ev := dsl.NewEval(item, rctx)
	return ev.Evaluate(f.expr)
}

var _ Filter = (*ExprFilter)(nil)
