// Package movierec 是一个电影推荐工具包（MovieLens 风格数据集 + Wide&Deep 排序）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Candidate → Filter → Feature → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - Node 可扩展: 自定义 Node 即可插拔扩展（本地模型或远程特征源均可）
package movierec

import "github.com/rushteam/movierec/pipeline"

// 轻量 facade：便于用户直接 import "movierec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindCandidate = pipeline.KindCandidate
	KindFilter    = pipeline.KindFilter
	KindFeature   = pipeline.KindFeature
	KindRank      = pipeline.KindRank
	KindReRank    = pipeline.KindReRank
)
