package core

import "github.com/rushteam/movierec/pkg/utils"

// RecommendContext 承载一次推荐请求的用户/参数信息，贯穿整个 Pipeline 透传。
// 一次请求内只读；候选、过滤、打分各阶段不得修改请求字段。
type RecommendContext struct {
	// UserID 是请求用户 ID
	UserID int64

	// K 是期望返回的推荐条数（>=1）
	K int

	// SearchTerm 是可选的检索词，对 title / primaryGenre 做大小写不敏感的子串匹配。
	// 检索在打分之前收窄候选池，而不是在打分之后重排。
	SearchTerm string

	// User 是请求用户的静态画像（候选组装阶段填充；用户不存在时为 nil）
	User *UserRecord

	// Labels 是请求级标签，记录链路统计（如被丢弃的候选数）
	Labels map[string]utils.Label

	// Params 请求级上下文参数（表达式过滤器等扩展使用）
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
