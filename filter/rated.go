package filter

import (
	"context"

	"github.com/rushteam/movierec/core"
)

// RatedStore 提供用户已评分电影集合的查询。
// dataset.Snapshot 实现此接口；也可以由外部曝光记录等实现。
type RatedStore interface {
	// RatedBy 返回用户已评分的电影 ID 集合；无历史时返回 nil/空
	RatedBy(userID int64) map[int64]bool
}

// RatedFilter 剔除请求用户已经评分过的电影。
//
// 这是正确性约束而非风格选择：模型的目的是预测"未知"偏好，
// 把已评分电影再推荐出去违反推荐语义。
type RatedFilter struct {
	Store RatedStore
}

// NewRatedFilter 创建已评分过滤器。
func NewRatedFilter(store RatedStore) *RatedFilter {
	return &RatedFilter{Store: store}
}

func (f *RatedFilter) Name() string {
	return "filter.rated"
}

func (f *RatedFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if f.Store == nil || rctx == nil {
		return false, nil
	}
	rated := f.Store.RatedBy(rctx.UserID)
	return rated[item.MovieID], nil
}
